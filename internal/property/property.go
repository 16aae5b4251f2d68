// Package property manages a small table of real-estate listings. The Form
// type holds the entry fields and the current selection; persistence goes
// through a Repository so the same form works against SQLite, Postgres or
// memory.
package property

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ADITYAK333/satellite-tracker/internal/metrics"
)

var (
	// ErrNotFound is returned when no property has the requested id.
	ErrNotFound = errors.New("property not found")
	// ErrIncompleteForm is returned when a form field is empty.
	ErrIncompleteForm = errors.New("all fields must be filled")
	// ErrNoSelection is returned when deleting without a selected property.
	ErrNoSelection = errors.New("no property selected")
)

// Property is one listing row.
type Property struct {
	ID       int64  `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Location string `json:"location" yaml:"location"`
	Price    string `json:"price" yaml:"price"`
	Size     string `json:"size" yaml:"size"`
}

// Repository stores properties. Implementations assign ids on Add and return
// ErrNotFound from Delete when the id does not exist.
type Repository interface {
	Add(ctx context.Context, p Property) (Property, error)
	List(ctx context.Context) ([]Property, error)
	Delete(ctx context.Context, id int64) error
}

// Format renders p as "id: name | location | $price | size sq ft".
func Format(p Property) string {
	return fmt.Sprintf("%d: %s | %s | $%s | %s sq ft", p.ID, p.Name, p.Location, p.Price, p.Size)
}

// ParseID recovers the id from a line produced by Format.
func ParseID(line string) (int64, error) {
	head, _, ok := strings.Cut(line, ":")
	if !ok {
		return 0, fmt.Errorf("parse id from %q: missing separator", line)
	}
	id, err := strconv.ParseInt(strings.TrimSpace(head), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse id from %q: %w", line, err)
	}
	return id, nil
}

// Form is the entry state for adding and deleting listings.
type Form struct {
	Name     string
	Location string
	Price    string
	Size     string

	selected int64
	hasSel   bool
}

// Select marks id as the property DeleteSelected acts on.
func (f *Form) Select(id int64) {
	f.selected = id
	f.hasSel = true
}

// ClearSelection drops the current selection.
func (f *Form) ClearSelection() {
	f.selected = 0
	f.hasSel = false
}

// Selected returns the selected id, if any.
func (f *Form) Selected() (int64, bool) {
	return f.selected, f.hasSel
}

// Validate reports ErrIncompleteForm when any field is blank.
func (f *Form) Validate() error {
	var missing []string
	for _, field := range []struct{ name, value string }{
		{"name", f.Name},
		{"location", f.Location},
		{"price", f.Price},
		{"size", f.Size},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrIncompleteForm, strings.Join(missing, ", "))
	}
	return nil
}

// Submit validates the form and inserts it, returning the stored property.
func (f *Form) Submit(ctx context.Context, repo Repository) (Property, error) {
	if err := f.Validate(); err != nil {
		return Property{}, err
	}
	return repo.Add(ctx, Property{
		Name:     strings.TrimSpace(f.Name),
		Location: strings.TrimSpace(f.Location),
		Price:    strings.TrimSpace(f.Price),
		Size:     strings.TrimSpace(f.Size),
	})
}

// DeleteSelected removes the selected property and clears the selection.
func (f *Form) DeleteSelected(ctx context.Context, repo Repository) error {
	id, ok := f.Selected()
	if !ok {
		return ErrNoSelection
	}
	if err := repo.Delete(ctx, id); err != nil {
		return err
	}
	f.ClearSelection()
	return nil
}

// Instrument wraps repo so every call is logged and counted.
func Instrument(repo Repository, logger *slog.Logger) Repository {
	return &instrumented{next: repo, logger: logger}
}

type instrumented struct {
	next   Repository
	logger *slog.Logger
}

func (r *instrumented) Add(ctx context.Context, p Property) (Property, error) {
	out, err := r.next.Add(ctx, p)
	metrics.ObservePropertyOp("add", err)
	if err != nil {
		r.logger.Warn("property add failed", "name", p.Name, "error", err)
		return out, err
	}
	r.logger.Info("property added", "id", out.ID, "name", out.Name)
	return out, nil
}

func (r *instrumented) List(ctx context.Context) ([]Property, error) {
	out, err := r.next.List(ctx)
	metrics.ObservePropertyOp("list", err)
	if err != nil {
		r.logger.Warn("property list failed", "error", err)
		return nil, err
	}
	r.logger.Debug("properties listed", "count", len(out))
	return out, nil
}

func (r *instrumented) Delete(ctx context.Context, id int64) error {
	err := r.next.Delete(ctx, id)
	metrics.ObservePropertyOp("delete", err)
	if err != nil {
		r.logger.Warn("property delete failed", "id", id, "error", err)
		return err
	}
	r.logger.Info("property deleted", "id", id)
	return nil
}
