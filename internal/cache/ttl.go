// Package cache provides an in-memory, per-key time-to-live cache.
//
// A value is served from memory while it is younger than the TTL passed at
// lookup time; otherwise the caller's fetch function runs and its result
// replaces the entry. The clock is injected so expiry can be tested without
// sleeping.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ADITYAK333/satellite-tracker/internal/metrics"
)

// Clock returns the current time.
type Clock func() time.Time

// FetchFunc produces a fresh value for a key.
type FetchFunc[V any] func(ctx context.Context) (V, error)

type entry[V any] struct {
	value     V
	fetchedAt time.Time
	ttl       time.Duration
}

// TTL is a keyed cache of values of type V. Safe for concurrent use. Two
// callers missing the same key at once may both fetch; the later store wins.
type TTL[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]

	clock  Clock
	logger *slog.Logger

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// New creates an empty cache. A nil clock means time.Now.
func New[V any](clock Clock, logger *slog.Logger) *TTL[V] {
	if clock == nil {
		clock = time.Now
	}
	return &TTL[V]{
		entries: make(map[string]entry[V]),
		clock:   clock,
		logger:  logger,
	}
}

// GetOrFetch returns the value stored under key if it was fetched less than
// ttl ago, reporting hit=true. Otherwise it calls fetch, stores the result
// stamped with the current time and returns it with hit=false. A failing fetch
// leaves any previous entry untouched and returns the error.
func (c *TTL[V]) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc[V]) (V, bool, error) {
	now := c.clock()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && now.Sub(e.fetchedAt) < ttl {
		c.hits.Add(1)
		metrics.CacheHit(key)
		return e.value, true, nil
	}

	c.misses.Add(1)
	metrics.CacheMiss(key)

	v, err := fetch(ctx)
	if err != nil {
		var zero V
		return zero, false, fmt.Errorf("fetching %q: %w", key, err)
	}

	c.mu.Lock()
	c.entries[key] = entry[V]{value: v, fetchedAt: now, ttl: ttl}
	c.mu.Unlock()
	metrics.SetCacheEntry(key, true)

	c.logger.Debug("cache entry stored",
		"key", key,
		"ttl_seconds", ttl.Seconds(),
		"stale", ok,
	)
	return v, false, nil
}

// Invalidate drops key so the next lookup fetches.
func (c *TTL[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	metrics.SetCacheEntry(key, false)
}

// Evict removes every entry older than the TTL it was stored with and returns
// how many were dropped.
func (c *TTL[V]) Evict() int {
	now := c.clock()
	var removed []string

	c.mu.Lock()
	for k, e := range c.entries {
		if now.Sub(e.fetchedAt) >= e.ttl {
			delete(c.entries, k)
			removed = append(removed, k)
		}
	}
	c.mu.Unlock()

	for _, k := range removed {
		metrics.SetCacheEntry(k, false)
	}
	if len(removed) > 0 {
		c.evictions.Add(int64(len(removed)))
		c.logger.Debug("cache eviction", "entries_removed", len(removed))
	}
	return len(removed)
}

// Stats holds cache statistics.
type Stats struct {
	Entries   int       `json:"entries"`
	Hits      int64     `json:"hits"`
	Misses    int64     `json:"misses"`
	Evictions int64     `json:"evictions"`
	Oldest    time.Time `json:"oldest_fetched_at"`
	Newest    time.Time `json:"newest_fetched_at"`
}

// Stats returns current cache statistics.
func (c *TTL[V]) Stats() Stats {
	c.mu.RLock()
	s := Stats{Entries: len(c.entries)}
	for _, e := range c.entries {
		if s.Oldest.IsZero() || e.fetchedAt.Before(s.Oldest) {
			s.Oldest = e.fetchedAt
		}
		if s.Newest.IsZero() || e.fetchedAt.After(s.Newest) {
			s.Newest = e.fetchedAt
		}
	}
	c.mu.RUnlock()

	s.Hits = c.hits.Load()
	s.Misses = c.misses.Load()
	s.Evictions = c.evictions.Load()
	return s
}

// Start runs Evict every interval until ctx is cancelled.
func (c *TTL[V]) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("cache janitor stopped")
			return
		case <-ticker.C:
			c.Evict()
		}
	}
}
