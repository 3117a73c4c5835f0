package metrics

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/torosent/volley/internal/outcome"
)

// Collector records outcomes as they complete, in a thread-safe manner.
type Collector struct {
	mu              sync.Mutex
	hist            *hdrhistogram.Histogram
	expected        int64
	successes       int64
	failures        int64
	transportErrors int64
	start           time.Time
}

// Progress is a point-in-time view of a run in progress.
type Progress struct {
	Expected        int64
	Completed       int64
	Successes       int64
	Failures        int64
	TransportErrors int64
	RequestsPerSec  float64
	P50Latency      time.Duration
	P99Latency      time.Duration
	Elapsed         time.Duration
}

func NewCollector() *Collector {
	// Success latencies from 1µs up to 1h with 3 significant figures.
	h := hdrhistogram.New(1, int64(time.Hour/time.Microsecond), 3)
	return &Collector{
		hist:  h,
		start: time.Now(),
	}
}

// Start resets the clock used for the live request rate and records how many
// outcomes the run will produce.
func (c *Collector) Start(expected int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start = time.Now()
	c.expected = int64(expected)
}

// Record adds one completed outcome. It matches runner.Observer.
func (c *Collector) Record(o outcome.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch o.Kind {
	case outcome.Success:
		c.successes++
		us := o.Latency.Microseconds()
		if us < c.hist.LowestTrackableValue() {
			us = c.hist.LowestTrackableValue()
		}
		if us > c.hist.HighestTrackableValue() {
			us = c.hist.HighestTrackableValue()
		}
		_ = c.hist.RecordValue(us)
	case outcome.Failure:
		c.failures++
	default:
		c.transportErrors++
	}
}

// Snapshot returns the current progress.
func (c *Collector) Snapshot() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()

	elapsed := time.Since(c.start)
	p := Progress{
		Expected:        c.expected,
		Completed:       c.successes + c.failures + c.transportErrors,
		Successes:       c.successes,
		Failures:        c.failures,
		TransportErrors: c.transportErrors,
		Elapsed:         elapsed,
	}
	if elapsed > 0 {
		p.RequestsPerSec = float64(p.Completed) / elapsed.Seconds()
	}
	if c.hist.TotalCount() > 0 {
		p.P50Latency = time.Duration(c.hist.ValueAtQuantile(50)) * time.Microsecond
		p.P99Latency = time.Duration(c.hist.ValueAtQuantile(99)) * time.Microsecond
	}
	return p
}
