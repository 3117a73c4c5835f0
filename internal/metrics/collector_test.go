package metrics_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/torosent/volley/internal/metrics"
	"github.com/torosent/volley/internal/outcome"
)

func TestCollectorSnapshot(t *testing.T) {
	c := metrics.NewCollector()
	c.Start(4)

	c.Record(outcome.NewSuccess("a", 10*time.Millisecond))
	c.Record(outcome.NewSuccess("b", 20*time.Millisecond))
	c.Record(outcome.NewFailure("c", 5*time.Millisecond, 503))
	c.Record(outcome.NewTransportError("d", time.Second, errors.New("boom")))

	p := c.Snapshot()
	if p.Expected != 4 || p.Completed != 4 {
		t.Fatalf("expected/completed = %d/%d, want 4/4", p.Expected, p.Completed)
	}
	if p.Successes != 2 || p.Failures != 1 || p.TransportErrors != 1 {
		t.Errorf("buckets = %d/%d/%d, want 2/1/1", p.Successes, p.Failures, p.TransportErrors)
	}
	if p.P50Latency < 9*time.Millisecond || p.P50Latency > 11*time.Millisecond {
		t.Errorf("P50Latency = %s, want about 10ms", p.P50Latency)
	}
	if p.P99Latency < 19*time.Millisecond || p.P99Latency > 21*time.Millisecond {
		t.Errorf("P99Latency = %s, want about 20ms", p.P99Latency)
	}
}

func TestCollectorEmptySnapshot(t *testing.T) {
	c := metrics.NewCollector()
	p := c.Snapshot()
	if p.Completed != 0 || p.P50Latency != 0 || p.P99Latency != 0 {
		t.Fatalf("unexpected progress on empty collector: %+v", p)
	}
}

func TestCollectorConcurrentRecord(t *testing.T) {
	c := metrics.NewCollector()
	c.Start(1000)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Record(outcome.NewSuccess("x", time.Millisecond))
			}
		}()
	}
	wg.Wait()

	if got := c.Snapshot().Completed; got != 1000 {
		t.Fatalf("Completed = %d, want 1000", got)
	}
}
