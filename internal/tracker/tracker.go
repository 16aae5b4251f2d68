// Package tracker assembles satellite frames: cached TLE records are
// propagated to a single instant, classified by name, and accounted for in a
// Report. It also serves the cached planetary bodies catalog.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ADITYAK333/satellite-tracker/internal/bodies"
	"github.com/ADITYAK333/satellite-tracker/internal/cache"
	"github.com/ADITYAK333/satellite-tracker/internal/classify"
	"github.com/ADITYAK333/satellite-tracker/internal/propagation"
	"github.com/ADITYAK333/satellite-tracker/internal/tle"
)

const (
	recordsKey = "tle"
	bodiesKey  = "bodies"

	// DefaultRecordsTTL is how long fetched TLE records are reused.
	DefaultRecordsTTL = time.Hour
	// DefaultBodiesTTL is how long the bodies catalog is reused.
	DefaultBodiesTTL = 24 * time.Hour
)

// RecordSource fetches raw TLE records.
type RecordSource interface {
	Fetch(ctx context.Context) tle.FetchResult
}

// BodySource fetches the planetary bodies catalog.
type BodySource interface {
	Fetch(ctx context.Context) ([]bodies.Body, error)
}

// Config holds cache lifetimes.
type Config struct {
	RecordsTTL time.Duration
	BodiesTTL  time.Duration
}

// Tracker builds frames on demand. Safe for concurrent use.
type Tracker struct {
	records    RecordSource
	bodies     BodySource
	propagator *propagation.Propagator

	recordCache *cache.TTL[tle.FetchResult]
	bodyCache   *cache.TTL[[]bodies.Body]

	clock  cache.Clock
	cfg    Config
	logger *slog.Logger

	ready atomic.Bool
}

// New creates a Tracker. A nil clock means time.Now.
func New(cfg Config, records RecordSource, bodySource BodySource, prop *propagation.Propagator, clock cache.Clock, logger *slog.Logger) *Tracker {
	if cfg.RecordsTTL <= 0 {
		cfg.RecordsTTL = DefaultRecordsTTL
	}
	if cfg.BodiesTTL <= 0 {
		cfg.BodiesTTL = DefaultBodiesTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &Tracker{
		records:     records,
		bodies:      bodySource,
		propagator:  prop,
		recordCache: cache.New[tle.FetchResult](clock, logger),
		bodyCache:   cache.New[[]bodies.Body](clock, logger),
		clock:       clock,
		cfg:         cfg,
		logger:      logger,
	}
}

// Refresh builds a frame for the current instant. Source failures never fail
// the refresh; they show up in the Report. The only error returned is the
// context's, when it ends before propagation completes.
func (t *Tracker) Refresh(ctx context.Context) (Frame, error) {
	fetched, hit, loadErr := t.loadRecords(ctx)
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	if loadErr != nil {
		t.logger.Warn("TLE refresh degraded", "error", loadErr)
	}

	// SGP4 takes whole seconds; GMST and the reported instant must match it.
	at := t.clock().UTC().Truncate(time.Second)
	res, err := t.propagator.Propagate(ctx, fetched.Records, at)
	if err != nil {
		return Frame{}, fmt.Errorf("propagating records: %w", err)
	}

	frame := Frame{
		EvaluatedAt: at,
		Records:     make([]PositionRecord, 0, res.Succeeded),
		Report: Report{
			Categories:         fetched.Categories,
			Fetched:            len(fetched.Records),
			Malformed:          fetched.Malformed(),
			Propagated:         res.Succeeded,
			PropagationSkipped: res.Failed,
			CacheHit:           hit,
		},
	}
	if loadErr == nil {
		frame.Report.FetchedAt = t.recordCache.Stats().Newest
	}

	for i, o := range res.Outcomes {
		rec := fetched.Records[i]
		if !o.OK() {
			frame.Report.Skips = append(frame.Report.Skips, Skip{Name: rec.Name, Reason: o.Err.Error()})
			continue
		}
		id, _ := rec.NORADID()
		frame.Records = append(frame.Records, PositionRecord{
			Name:       rec.Name,
			NORADID:    id,
			Latitude:   o.Position.Latitude,
			Longitude:  o.Position.Longitude,
			AltitudeKm: o.Position.AltitudeKm,
			Line1:      rec.Line1,
			Line2:      rec.Line2,
			Country:    classify.Country(rec.Name),
			Type:       classify.Type(rec.Name),
		})
	}

	if loadErr == nil && len(fetched.Records) > 0 {
		t.ready.Store(true)
	}

	t.logger.Info("frame refreshed",
		"evaluated_at", at.Format(time.RFC3339),
		"fetched", frame.Report.Fetched,
		"malformed", frame.Report.Malformed,
		"propagated", frame.Report.Propagated,
		"skipped", frame.Report.PropagationSkipped,
		"failed_categories", len(frame.Report.FailedCategories()),
		"cache_hit", hit,
	)
	return frame, nil
}

// loadRecords returns the cached fetch result or fetches a new one. A fetch in
// which every category failed is returned but not cached, so the next refresh
// tries the network again.
func (t *Tracker) loadRecords(ctx context.Context) (tle.FetchResult, bool, error) {
	var fresh tle.FetchResult
	res, hit, err := t.recordCache.GetOrFetch(ctx, recordsKey, t.cfg.RecordsTTL, func(ctx context.Context) (tle.FetchResult, error) {
		fresh = t.records.Fetch(ctx)
		if len(fresh.Categories) > 0 && len(fresh.Failed()) == len(fresh.Categories) {
			return fresh, fmt.Errorf("%w: all %d categories failed", tle.ErrNetwork, len(fresh.Categories))
		}
		return fresh, nil
	})
	if err != nil {
		return fresh, false, err
	}
	return res, hit, nil
}

// Bodies returns the planetary bodies catalog, reporting whether it came from
// the cache. A failed fetch yields an empty list and is not cached.
func (t *Tracker) Bodies(ctx context.Context) ([]bodies.Body, bool) {
	list, hit, err := t.bodyCache.GetOrFetch(ctx, bodiesKey, t.cfg.BodiesTTL, t.bodies.Fetch)
	if err != nil {
		return []bodies.Body{}, false
	}
	return list, hit
}

// Ready reports whether a refresh has produced records from the network.
func (t *Tracker) Ready() bool {
	return t.ready.Load()
}

// CacheStats returns statistics for the record and bodies caches.
func (t *Tracker) CacheStats() map[string]cache.Stats {
	return map[string]cache.Stats{
		recordsKey: t.recordCache.Stats(),
		bodiesKey:  t.bodyCache.Stats(),
	}
}

// Invalidate forces the next Refresh to fetch records again.
func (t *Tracker) Invalidate() {
	t.recordCache.Invalidate(recordsKey)
}

// Start evicts expired cache entries every interval until ctx is cancelled.
func (t *Tracker) Start(ctx context.Context, interval time.Duration) {
	go t.bodyCache.Start(ctx, interval)
	t.recordCache.Start(ctx, interval)
}
