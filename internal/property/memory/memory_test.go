package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ADITYAK333/satellite-tracker/internal/property"
)

func TestStoreAssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	a, err := s.Add(ctx, property.Property{Name: "A"})
	require.NoError(t, err)
	b, err := s.Add(ctx, property.Property{Name: "B"})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, b.ID))
	c, err := s.Add(ctx, property.Property{Name: "C"})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, []int64{a.ID, b.ID, c.ID}, "ids are never reused")
}

func TestStoreListIsACopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, err := s.Add(ctx, property.Property{Name: "A"})
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	list[0].Name = "mutated"

	again, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", again[0].Name)
}

func TestStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStore().Add(ctx, property.Property{Name: "A"})
	assert.ErrorIs(t, err, context.Canceled)
}
