// Package postgres stores properties in a Postgres database through the pgx
// database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/ADITYAK333/satellite-tracker/internal/property"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

var _ property.Repository = (*Store)(nil)

const (
	defaultDriver = "pgx"
	// DefaultDSN is used when Open is given an empty DSN.
	DefaultDSN = "postgres://localhost/sattrack?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

const schema = `CREATE TABLE IF NOT EXISTS properties (
	id BIGSERIAL PRIMARY KEY,
	property_name TEXT NOT NULL,
	location TEXT NOT NULL,
	price TEXT NOT NULL,
	size TEXT NOT NULL
)`

// Store is a Postgres-backed property repository.
type Store struct {
	db *sql.DB
}

// Open connects, pings and ensures the properties table exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create properties table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Add(ctx context.Context, p property.Property) (property.Property, error) {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO properties (property_name, location, price, size) VALUES ($1, $2, $3, $4) RETURNING id`,
		p.Name, p.Location, p.Price, p.Size).Scan(&p.ID)
	if err != nil {
		return property.Property{}, fmt.Errorf("insert property: %w", err)
	}
	return p, nil
}

func (s *Store) List(ctx context.Context) ([]property.Property, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, property_name, location, price, size FROM properties ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select properties: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []property.Property{}
	for rows.Next() {
		var p property.Property
		if err := rows.Scan(&p.ID, &p.Name, &p.Location, &p.Price, &p.Size); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate properties: %w", err)
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete property %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete property %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %d", property.ErrNotFound, id)
	}
	return nil
}
