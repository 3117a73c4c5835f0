package runner

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/torosent/volley/internal/outcome"
)

// Invoker performs exactly one request for a work item and classifies it.
// Implementations report problems through the returned Outcome, never by
// returning an error.
type Invoker interface {
	Invoke(ctx context.Context, item WorkItem) outcome.Outcome
}

// InvokerFunc adapts a function to the Invoker interface.
type InvokerFunc func(ctx context.Context, item WorkItem) outcome.Outcome

func (f InvokerFunc) Invoke(ctx context.Context, item WorkItem) outcome.Outcome {
	return f(ctx, item)
}

// Observer is called once per outcome as soon as it is known. It may be
// called from many goroutines at once.
type Observer func(outcome.Outcome)

// Options configure the Dispatcher and Coordinator.
type Options struct {
	Concurrency    int                         // maximum in-flight invocations
	RatePerSecond  int                         // admission pacing (0 means unlimited)
	Invoker        Invoker                     // request executor (required)
	Observer       Observer                    // optional per-outcome callback
	RunID          string                      // generated when empty
	LimiterFactory func(rps int) *rate.Limiter // optional injection for tests
}

func (o *Options) normalize() {
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}
	if o.RatePerSecond < 0 {
		o.RatePerSecond = 0
	}
	if o.LimiterFactory == nil {
		o.LimiterFactory = func(rps int) *rate.Limiter {
			if rps <= 0 {
				return rate.NewLimiter(rate.Inf, 0)
			}
			// Single-token bucket keeps admissions evenly spaced.
			return rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}
