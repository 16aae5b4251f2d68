// Package memory is an in-process property repository.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/ADITYAK333/satellite-tracker/internal/property"
)

var _ property.Repository = (*Store)(nil)

// Store keeps properties in insertion order.
type Store struct {
	mu     sync.RWMutex
	nextID int64
	rows   []property.Property
}

// NewStore returns an empty store whose first id is 1.
func NewStore() *Store {
	return &Store{nextID: 1}
}

func (s *Store) Add(ctx context.Context, p property.Property) (property.Property, error) {
	if err := ctx.Err(); err != nil {
		return property.Property{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID
	s.nextID++
	s.rows = append(s.rows, p)
	return p, nil
}

func (s *Store) List(ctx context.Context) ([]property.Property, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]property.Property, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.rows {
		if p.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: id %d", property.ErrNotFound, id)
}
