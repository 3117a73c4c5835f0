// Package runner provides the load test execution engine for volley.
//
// A run expands a list of identifiers into a worklist, admits one goroutine
// per work item through a counting semaphore and joins them all before the
// outcomes are reduced into statistics.
//
// # Basic Usage
//
//	c := runner.New(runner.Options{
//		Concurrency: 5,
//		Invoker:     invoker,
//	})
//	res, err := c.Run(ctx, []string{"a", "b", "c"}, 2)
//
// # Invoker Interface
//
// The [Invoker] interface performs one request and classifies it:
//
//	type Invoker interface {
//		Invoke(ctx context.Context, item WorkItem) outcome.Outcome
//	}
//
// # Admission
//
// Items are admitted in worklist order. At most Concurrency invocations run
// at once; an optional fixed RatePerSecond paces admissions. Cancelling the
// run context stops admission only: in-flight invocations complete and the
// remaining items are recorded as transport errors.
//
// A panic inside an invocation is recovered and recorded as a transport
// error for that item alone.
//
// # Observers
//
// An [Observer] sees each outcome as it completes. [WithLogging] wraps one
// with a [FailureLogger], and [Observers] combines several.
package runner
