package metrics_test

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/torosent/volley/internal/metrics"
	"github.com/torosent/volley/internal/outcome"
)

func secondsSample(n int) []time.Duration {
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = time.Duration(i+1) * time.Second
	}
	return out
}

func TestReducePartitionsOutcomes(t *testing.T) {
	outcomes := []outcome.Outcome{
		outcome.NewSuccess("a", 10*time.Millisecond),
		outcome.NewFailure("b", 20*time.Millisecond, 500),
		outcome.NewTransportError("c", 30*time.Millisecond, context.DeadlineExceeded),
		outcome.NewSuccess("a", 30*time.Millisecond),
		outcome.NewFailure("b", 5*time.Millisecond, 404),
		outcome.NewFailure("c", 5*time.Millisecond, 500),
	}

	stats := metrics.Reduce(outcomes, 2*time.Second)

	if stats.Total != 6 {
		t.Fatalf("Total = %d, want 6", stats.Total)
	}
	if stats.Successes != 2 || stats.Failures != 3 || stats.TransportErrors != 1 {
		t.Fatalf("buckets = %d/%d/%d, want 2/3/1", stats.Successes, stats.Failures, stats.TransportErrors)
	}
	if stats.Successes+stats.Failures+stats.TransportErrors != stats.Total {
		t.Fatal("bucket counts do not sum to total")
	}
	wantRate := 2.0 / 6.0 * 100
	if math.Abs(stats.SuccessRate-wantRate) > 1e-9 {
		t.Errorf("SuccessRate = %v, want %v", stats.SuccessRate, wantRate)
	}
	if stats.RequestsPerSec != 3 {
		t.Errorf("RequestsPerSec = %v, want 3", stats.RequestsPerSec)
	}
	if stats.DurationSeconds != 2 {
		t.Errorf("DurationSeconds = %v, want 2", stats.DurationSeconds)
	}
	// Only successes count toward latency.
	if stats.Latency.Min != 10*time.Millisecond || stats.Latency.Max != 30*time.Millisecond {
		t.Errorf("latency min/max = %s/%s, want 10ms/30ms", stats.Latency.Min, stats.Latency.Max)
	}
	if stats.Latency.Mean != 20*time.Millisecond {
		t.Errorf("mean = %s, want 20ms", stats.Latency.Mean)
	}
	if stats.StatusCodes[500] != 2 || stats.StatusCodes[404] != 1 {
		t.Errorf("StatusCodes = %v", stats.StatusCodes)
	}
	if stats.TransportCauses["Timeout"] != 1 {
		t.Errorf("TransportCauses = %v", stats.TransportCauses)
	}
}

func TestReduceWithoutSuccessesReportsZeroLatency(t *testing.T) {
	outcomes := []outcome.Outcome{
		outcome.NewFailure("a", time.Second, 500),
		outcome.NewFailure("b", 2*time.Second, 500),
		outcome.NewTransportError("c", 3*time.Second, context.DeadlineExceeded),
	}

	stats := metrics.Reduce(outcomes, time.Second)

	if stats.SuccessRate != 0 {
		t.Errorf("SuccessRate = %v, want 0", stats.SuccessRate)
	}
	if stats.Latency != (metrics.LatencySummary{}) {
		t.Errorf("expected zero latency summary, got %+v", stats.Latency)
	}
}

func TestReduceEmptyInput(t *testing.T) {
	stats := metrics.Reduce(nil, 0)
	if stats.Total != 0 || stats.SuccessRate != 0 || stats.RequestsPerSec != 0 {
		t.Fatalf("unexpected stats for empty input: %+v", stats)
	}
}

func TestReduceIgnoresCompletionOrder(t *testing.T) {
	forward := []outcome.Outcome{
		outcome.NewSuccess("a", 1*time.Second),
		outcome.NewSuccess("b", 3*time.Second),
		outcome.NewSuccess("c", 2*time.Second),
	}
	reversed := []outcome.Outcome{forward[2], forward[1], forward[0]}

	a := metrics.Reduce(forward, time.Second)
	b := metrics.Reduce(reversed, time.Second)
	if a.Latency != b.Latency {
		t.Fatalf("latency depends on order: %+v vs %+v", a.Latency, b.Latency)
	}
	if a.Latency.Median != 2*time.Second {
		t.Errorf("median = %s, want 2s", a.Latency.Median)
	}
}

func TestSummarizeTwentyFiveSamples(t *testing.T) {
	// 1s..25s: m=26, j=19*26/20=24, d=494-480=14, p95=(24s*6+25s*14)/20.
	s := metrics.Summarize(secondsSample(25))

	if s.P95 != 24700*time.Millisecond {
		t.Errorf("P95 = %s, want 24.7s", s.P95)
	}
	if s.P99 != 25*time.Second {
		t.Errorf("P99 = %s, want max 25s below 100 samples", s.P99)
	}
	if s.Median != 13*time.Second {
		t.Errorf("Median = %s, want 13s", s.Median)
	}
	if s.Mean != 13*time.Second {
		t.Errorf("Mean = %s, want 13s", s.Mean)
	}
	if s.Min != time.Second || s.Max != 25*time.Second {
		t.Errorf("Min/Max = %s/%s", s.Min, s.Max)
	}
	if math.Abs(s.P95Seconds-24.7) > 1e-9 {
		t.Errorf("P95Seconds = %v, want 24.7", s.P95Seconds)
	}
}

func TestSummarizePercentileThresholds(t *testing.T) {
	tests := []struct {
		name    string
		sample  []time.Duration
		wantP95 time.Duration
		wantP99 time.Duration
	}{
		{
			name:    "single sample",
			sample:  []time.Duration{7 * time.Second},
			wantP95: 7 * time.Second,
			wantP99: 7 * time.Second,
		},
		{
			name:    "19 samples fall back to max",
			sample:  secondsSample(19),
			wantP95: 19 * time.Second,
			wantP99: 19 * time.Second,
		},
		{
			name:    "20 samples interpolate p95",
			sample:  secondsSample(20),
			wantP95: 19950 * time.Millisecond,
			wantP99: 20 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := metrics.Summarize(tt.sample)
			if s.P95 != tt.wantP95 {
				t.Errorf("P95 = %s, want %s", s.P95, tt.wantP95)
			}
			if s.P99 != tt.wantP99 {
				t.Errorf("P99 = %s, want %s", s.P99, tt.wantP99)
			}
		})
	}
}

func TestSummarizeHundredSamples(t *testing.T) {
	sample := make([]time.Duration, 100)
	for i := range sample {
		sample[len(sample)-1-i] = time.Duration(i+1) * time.Millisecond
	}

	s := metrics.Summarize(sample)

	if s.P95 != 95950*time.Microsecond {
		t.Errorf("P95 = %s, want 95.95ms", s.P95)
	}
	if s.P99 != 99990*time.Microsecond {
		t.Errorf("P99 = %s, want 99.99ms", s.P99)
	}
	if s.Median != 50500*time.Microsecond {
		t.Errorf("Median = %s, want 50.5ms", s.Median)
	}
	if sample[0] != 100*time.Millisecond {
		t.Error("Summarize must not reorder its input")
	}
}

func TestStatsJSONSchema(t *testing.T) {
	stats := metrics.Reduce([]outcome.Outcome{outcome.NewSuccess("a", time.Second)}, time.Second)

	data, err := json.Marshal(stats)
	if err != nil {
		t.Fatalf("failed to marshal stats: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	requiredFields := []string{"total_requests", "successful", "failed", "transport_errors", "success_rate", "total_time_seconds", "requests_per_second", "latency_seconds"}
	for _, field := range requiredFields {
		if _, ok := parsed[field]; !ok {
			t.Errorf("missing field %q in JSON output", field)
		}
	}
	latency, ok := parsed["latency_seconds"].(map[string]interface{})
	if !ok {
		t.Fatalf("latency_seconds is %T", parsed["latency_seconds"])
	}
	for _, field := range []string{"min", "max", "mean", "median", "p95", "p99"} {
		if _, ok := latency[field]; !ok {
			t.Errorf("missing latency field %q", field)
		}
	}
}

func TestStatusAndCauseBuckets(t *testing.T) {
	rows := metrics.StatusBuckets(map[int]int64{500: 3, 404: 3, 429: 7})
	want := []metrics.Bucket{{Label: "429", Count: 7}, {Label: "404", Count: 3}, {Label: "500", Count: 3}}
	if len(rows) != len(want) {
		t.Fatalf("rows = %v", rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}

	causes := metrics.CauseBuckets(map[string]int64{"Timeout": 2, "Connection refused": 2, "DNS lookup failed": 5})
	if causes[0].Label != "DNS lookup failed" || causes[1].Label != "Connection refused" || causes[2].Label != "Timeout" {
		t.Errorf("cause order = %v", causes)
	}

	if metrics.StatusBuckets(nil) != nil || metrics.CauseBuckets(nil) != nil {
		t.Error("expected nil rows for empty maps")
	}
}
