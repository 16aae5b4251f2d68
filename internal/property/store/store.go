// Package store selects a property repository implementation by driver name.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ADITYAK333/satellite-tracker/internal/property"
	"github.com/ADITYAK333/satellite-tracker/internal/property/memory"
	"github.com/ADITYAK333/satellite-tracker/internal/property/postgres"
	"github.com/ADITYAK333/satellite-tracker/internal/property/sqlite"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Drivers lists the accepted driver names.
var Drivers = []string{DriverSQLite, DriverPostgres, DriverMemory}

// Backend is an instrumented repository plus the handle that owns it.
type Backend struct {
	property.Repository
	Driver string
	close  func() error
}

// Close releases the underlying database, if any.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open returns the repository for driver. An empty driver means sqlite; an
// empty dsn means the adapter's default location.
func Open(ctx context.Context, driver, dsn string, logger *slog.Logger) (*Backend, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		driver = DriverSQLite
	}

	var (
		repo    property.Repository
		closeFn func() error
	)
	switch driver {
	case DriverSQLite:
		s, err := sqlite.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		repo, closeFn = s, s.Close
		logger.Info("property store opened", "driver", driver, "path", s.Path())
	case DriverPostgres, "pgx":
		s, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		driver = DriverPostgres
		repo, closeFn = s, s.Close
		logger.Info("property store opened", "driver", driver)
	case DriverMemory:
		repo = memory.NewStore()
		logger.Info("property store opened", "driver", driver)
	default:
		return nil, fmt.Errorf("unknown property driver %q (want one of %s)", driver, strings.Join(Drivers, ", "))
	}

	return &Backend{
		Repository: property.Instrument(repo, logger),
		Driver:     driver,
		close:      closeFn,
	}, nil
}
