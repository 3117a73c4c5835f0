package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/torosent/volley/internal/metrics"
)

var (
	// ErrNoIdentifiers is returned when a run is started without any work item identifiers.
	ErrNoIdentifiers = errors.New("no work item identifiers supplied")
	// ErrInvalidRun is returned for run parameters that can never be satisfied.
	ErrInvalidRun = errors.New("invalid run parameters")
)

// Result captures the execution summary.
type Result struct {
	Stats       metrics.Stats
	MaxInFlight int64
}

// Coordinator validates a run, dispatches its worklist and reduces the outcomes.
type Coordinator struct {
	opt Options
}

func New(opt Options) *Coordinator {
	return &Coordinator{opt: opt}
}

// Run issues len(ids)*repeat requests and returns the run statistics. Invalid
// input is rejected before any request is made.
func (c *Coordinator) Run(ctx context.Context, ids []string, repeat int) (Result, error) {
	if len(ids) == 0 {
		return Result{}, ErrNoIdentifiers
	}
	if c.opt.Concurrency < 1 {
		return Result{}, fmt.Errorf("%w: concurrency must be at least 1, got %d", ErrInvalidRun, c.opt.Concurrency)
	}
	if repeat < 1 {
		return Result{}, fmt.Errorf("%w: repeat must be at least 1, got %d", ErrInvalidRun, repeat)
	}
	if c.opt.Invoker == nil {
		return Result{}, fmt.Errorf("%w: no invoker configured", ErrInvalidRun)
	}

	runID := c.opt.RunID
	if runID == "" {
		runID = ulid.Make().String()
	}

	items := ExpandWorklist(ids, repeat)
	dispatcher := NewDispatcher(c.opt)

	start := time.Now()
	outcomes := dispatcher.Dispatch(ctx, items)
	elapsed := time.Since(start)

	stats := metrics.Reduce(outcomes, elapsed)
	stats.RunID = runID
	stats.UniqueIDs = uniqueCount(ids)
	stats.Repeat = repeat
	stats.Concurrency = c.opt.Concurrency

	return Result{Stats: stats, MaxInFlight: dispatcher.MaxInFlight()}, nil
}
