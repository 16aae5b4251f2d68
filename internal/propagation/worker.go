package propagation

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// job is a unit of work for the worker pool. index is the record's position
// in the input slice and doubles as its slot in the output.
type job struct {
	index    int
	name     string
	elements *Elements
	initErr  error
}

// WorkerPool manages a fixed number of goroutines for parallel SGP4 propagation.
type WorkerPool struct {
	workers int
	logger  *slog.Logger
}

// NewWorkerPool creates a worker pool with the given number of workers.
func NewWorkerPool(workers int, logger *slog.Logger) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	return &WorkerPool{
		workers: workers,
		logger:  logger,
	}
}

// run propagates every job to at and writes each outcome into its own slot,
// so the output order matches the input order whatever the worker count.
// Jobs not started before ctx is done are left with ctx's error.
func (wp *WorkerPool) run(ctx context.Context, jobs []job, at time.Time, gmst float64) []Outcome {
	out := make([]Outcome, len(jobs))
	for i, j := range jobs {
		out[i] = Outcome{Name: j.name, Err: context.Canceled}
	}
	if len(jobs) == 0 {
		return out
	}

	queue := make(chan job, wp.workers*2)

	var wg sync.WaitGroup
	for i := 0; i < wp.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				out[j.index] = propagateOne(j, at, gmst)
			}
		}()
	}

	func() {
		defer close(queue)
		for _, j := range jobs {
			if ctx.Err() != nil {
				return
			}
			select {
			case queue <- j:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()

	if err := ctx.Err(); err != nil {
		for i := range out {
			if out[i].Err == context.Canceled {
				out[i].Err = err
			}
		}
	}
	return out
}

func propagateOne(j job, at time.Time, gmst float64) Outcome {
	if j.initErr != nil {
		return Outcome{Name: j.name, Err: j.initErr}
	}
	pos, err := j.elements.SubPoint(at, gmst)
	if err != nil {
		return Outcome{Name: j.name, Err: err}
	}
	return Outcome{Name: j.name, Position: pos}
}
