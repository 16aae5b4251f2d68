package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ADITYAK333/satellite-tracker/internal/property"
)

var errRefused = errors.New("connection refused")

type refusingDriver struct{}

func (refusingDriver) Open(string) (driver.Conn, error) { return nil, errRefused }

func init() {
	sql.Register("sattrack-refusing", refusingDriver{})
}

func withSQLOpen(t *testing.T, fn func(string, string) (*sql.DB, error)) {
	t.Helper()
	openMu.Lock()
	prev := sqlOpen
	sqlOpen = fn
	openMu.Unlock()
	t.Cleanup(func() {
		openMu.Lock()
		sqlOpen = prev
		openMu.Unlock()
	})
}

func TestOpenPingFailure(t *testing.T) {
	var gotDriver, gotDSN string
	withSQLOpen(t, func(driverName, dsn string) (*sql.DB, error) {
		gotDriver, gotDSN = driverName, dsn
		return sql.Open("sattrack-refusing", dsn)
	})

	_, err := Open(context.Background(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, errRefused)
	assert.Contains(t, err.Error(), "ping postgres")
	assert.Equal(t, "pgx", gotDriver)
	assert.Equal(t, DefaultDSN, gotDSN)
}

func TestOpenDriverError(t *testing.T) {
	boom := errors.New("bad dsn")
	withSQLOpen(t, func(string, string) (*sql.DB, error) { return nil, boom })

	_, err := Open(context.Background(), "postgres://example")
	assert.ErrorIs(t, err, boom)
}

// TestStoreCRUD runs against a live database when SATTRACK_TEST_POSTGRES_DSN is set.
func TestStoreCRUD(t *testing.T) {
	dsn := os.Getenv("SATTRACK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SATTRACK_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	s, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	_, err = s.db.ExecContext(ctx, `TRUNCATE properties RESTART IDENTITY`)
	require.NoError(t, err)

	a, err := s.Add(ctx, property.Property{Name: "Flat", Location: "Mumbai", Price: "120000", Size: "650"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []property.Property{a}, list)

	require.NoError(t, s.Delete(ctx, a.ID))
	assert.ErrorIs(t, s.Delete(ctx, a.ID), property.ErrNotFound)
}
