// Package sqlite stores properties in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ADITYAK333/satellite-tracker/internal/property"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

var _ property.Repository = (*Store)(nil)

// DefaultPath is used when Open is given an empty path.
const DefaultPath = "properties.db"

const schema = `CREATE TABLE IF NOT EXISTS properties (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	property_name TEXT NOT NULL,
	location TEXT NOT NULL,
	price TEXT NOT NULL,
	size TEXT NOT NULL
)`

// Store is a SQLite-backed property repository.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates the parent directory and the properties table if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create properties table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Add(ctx context.Context, p property.Property) (property.Property, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO properties (property_name, location, price, size) VALUES (?, ?, ?, ?)`,
		p.Name, p.Location, p.Price, p.Size)
	if err != nil {
		return property.Property{}, fmt.Errorf("insert property: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return property.Property{}, fmt.Errorf("insert property: %w", err)
	}
	p.ID = id
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
	res, err := s.db.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
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
