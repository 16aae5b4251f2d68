package propagation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ADITYAK333/satellite-tracker/internal/metrics"
	"github.com/ADITYAK333/satellite-tracker/internal/tle"
	"github.com/ADITYAK333/satellite-tracker/internal/transform"
)

// elementKey identifies a record's element set. The name is part of the key
// because cached init errors carry it.
type elementKey struct {
	name, line1, line2 string
}

type cachedElements struct {
	elements *Elements
	err      error
}

// Propagator places batches of records at a single instant.
//
// SGP4 initialisation is cached per element set between batches. The cache is
// replaced wholesale after each batch with the sets that batch used, so it
// never outgrows the current catalog.
type Propagator struct {
	pool   *WorkerPool
	logger *slog.Logger

	mu       sync.RWMutex
	elements map[elementKey]cachedElements
}

// NewPropagator creates a propagator backed by a worker pool of cfg.Workers.
func NewPropagator(cfg Config, logger *slog.Logger) *Propagator {
	return &Propagator{
		pool:     NewWorkerPool(cfg.Workers, logger),
		logger:   logger,
		elements: make(map[elementKey]cachedElements),
	}
}

// Propagate computes the sub-point of every record at the single instant at,
// truncated to whole seconds.
// Outcomes are returned in input order; a failing record is skipped with an
// error wrapping ErrPropagation and the batch continues. The returned error is
// non-nil only when ctx ended before every record was processed.
func (p *Propagator) Propagate(ctx context.Context, records []tle.RawRecord, at time.Time) (Result, error) {
	start := time.Now()
	at = at.UTC().Truncate(time.Second)
	gmst := transform.GMST(at)

	jobs := p.prepare(records)
	outcomes := p.pool.run(ctx, jobs, at, gmst)

	res := Result{At: at, Outcomes: outcomes}
	for _, o := range outcomes {
		if o.OK() {
			res.Succeeded++
			continue
		}
		res.Failed++
		p.logger.Warn("skipping record",
			"name", o.Name,
			"error", o.Err,
		)
	}
	res.Duration = time.Since(start)

	metrics.RecordPropagation(res.Duration, res.Succeeded, res.Failed)
	p.logger.Debug("propagation complete",
		"evaluated_at", at.UTC().Format(time.RFC3339),
		"records", len(records),
		"succeeded", res.Succeeded,
		"failed", res.Failed,
		"duration_ms", res.Duration.Milliseconds(),
	)

	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// prepare resolves SGP4 state for every record, reusing the previous batch's
// initialisations where the lines are unchanged.
func (p *Propagator) prepare(records []tle.RawRecord) []job {
	p.mu.RLock()
	prev := p.elements
	p.mu.RUnlock()

	next := make(map[elementKey]cachedElements, len(records))
	var reused int

	jobs := make([]job, len(records))
	for i, rec := range records {
		key := elementKey{rec.Name, rec.Line1, rec.Line2}
		c, ok := next[key]
		if !ok {
			if c, ok = prev[key]; ok {
				reused++
			} else {
				c.elements, c.err = NewElements(rec)
			}
			next[key] = c
		}
		jobs[i] = job{index: i, name: rec.Name, elements: c.elements, initErr: c.err}
	}

	p.mu.Lock()
	p.elements = next
	p.mu.Unlock()

	p.logger.Debug("sgp4 element cache rebuilt",
		"cached", len(next),
		"reused", reused,
	)
	return jobs
}
