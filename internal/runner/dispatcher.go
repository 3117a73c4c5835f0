package runner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/torosent/volley/internal/outcome"
)

// Dispatcher runs one invocation per work item with at most Concurrency of
// them in flight.
type Dispatcher struct {
	opt         Options
	inflight    atomic.Int64
	maxInFlight atomic.Int64
}

func NewDispatcher(opt Options) *Dispatcher {
	opt.normalize()
	return &Dispatcher{opt: opt}
}

// Dispatch executes every item and returns the outcomes in worklist order.
// Items are admitted in order; completion order is unconstrained. It returns
// only after every admitted invocation has finished.
//
// Cancelling ctx stops admission. Invocations already running are not
// cancelled, and items that were never admitted are reported as transport
// errors wrapping outcome.ErrNotAdmitted.
func (d *Dispatcher) Dispatch(ctx context.Context, items []WorkItem) []outcome.Outcome {
	d.inflight.Store(0)
	d.maxInFlight.Store(0)

	results := make([]outcome.Outcome, len(items))
	sem := semaphore.NewWeighted(int64(d.opt.Concurrency))
	limiter := d.opt.LimiterFactory(d.opt.RatePerSecond)
	invokeCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	var stopErr error
	admitted := 0
	for ; admitted < len(items); admitted++ {
		if stopErr = context.Cause(ctx); stopErr != nil {
			break
		}
		if stopErr = limiter.Wait(ctx); stopErr != nil {
			break
		}
		if stopErr = sem.Acquire(ctx, 1); stopErr != nil {
			break
		}

		wg.Add(1)
		go func(slot int, item WorkItem) {
			defer wg.Done()
			defer sem.Release(1)

			d.trackInFlight(d.inflight.Add(1))
			defer d.inflight.Add(-1)

			results[slot] = d.invoke(invokeCtx, item)
			d.notify(results[slot])
		}(admitted, items[admitted])
	}

	for i := admitted; i < len(items); i++ {
		err := fmt.Errorf("%w: %w", outcome.ErrNotAdmitted, stopErr)
		results[i] = outcome.NewTransportError(items[i].ID, 0, err)
		d.notify(results[i])
	}

	wg.Wait()
	return results
}

// MaxInFlight reports the highest number of simultaneous invocations seen
// during the last Dispatch.
func (d *Dispatcher) MaxInFlight() int64 {
	return d.maxInFlight.Load()
}

func (d *Dispatcher) invoke(ctx context.Context, item WorkItem) (o outcome.Outcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", outcome.ErrInvocationPanic, r)
			o = outcome.NewTransportError(item.ID, time.Since(start), err)
		}
	}()
	return d.opt.Invoker.Invoke(ctx, item)
}

// notify hands o to the observer. A panicking observer loses that one
// notification; the outcome itself is already recorded.
func (d *Dispatcher) notify(o outcome.Outcome) {
	if d.opt.Observer == nil {
		return
	}
	defer func() { _ = recover() }()
	d.opt.Observer(o)
}

func (d *Dispatcher) trackInFlight(n int64) {
	for {
		cur := d.maxInFlight.Load()
		if n <= cur || d.maxInFlight.CompareAndSwap(cur, n) {
			return
		}
	}
}
