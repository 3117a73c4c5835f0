package metrics

import "time"

// LatencySummary describes the latency distribution of successful requests.
type LatencySummary struct {
	Min    time.Duration `json:"-" yaml:"-"`
	Max    time.Duration `json:"-" yaml:"-"`
	Mean   time.Duration `json:"-" yaml:"-"`
	Median time.Duration `json:"-" yaml:"-"`
	P95    time.Duration `json:"-" yaml:"-"`
	P99    time.Duration `json:"-" yaml:"-"`

	MinSeconds    float64 `json:"min" yaml:"min"`
	MaxSeconds    float64 `json:"max" yaml:"max"`
	MeanSeconds   float64 `json:"mean" yaml:"mean"`
	MedianSeconds float64 `json:"median" yaml:"median"`
	P95Seconds    float64 `json:"p95" yaml:"p95"`
	P99Seconds    float64 `json:"p99" yaml:"p99"`
}

// Stats is the terminal snapshot of one run.
type Stats struct {
	RunID       string `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	UniqueIDs   int    `json:"unique_ids,omitempty" yaml:"unique_ids,omitempty"`
	Repeat      int    `json:"repeat,omitempty" yaml:"repeat,omitempty"`
	Concurrency int    `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`

	Total           int64   `json:"total_requests" yaml:"total_requests"`
	Successes       int64   `json:"successful" yaml:"successful"`
	Failures        int64   `json:"failed" yaml:"failed"`
	TransportErrors int64   `json:"transport_errors" yaml:"transport_errors"`
	SuccessRate     float64 `json:"success_rate" yaml:"success_rate"`

	Duration        time.Duration `json:"-" yaml:"-"`
	DurationSeconds float64       `json:"total_time_seconds" yaml:"total_time_seconds"`
	RequestsPerSec  float64       `json:"requests_per_second" yaml:"requests_per_second"`

	// Latency covers successful requests only, in seconds.
	Latency LatencySummary `json:"latency_seconds" yaml:"latency_seconds"`

	StatusCodes     map[int]int64    `json:"status_codes,omitempty" yaml:"status_codes,omitempty"`
	TransportCauses map[string]int64 `json:"transport_causes,omitempty" yaml:"transport_causes,omitempty"`
}

// FailureRate is the percentage of requests that got a non-200 response.
func (s Stats) FailureRate() float64 {
	return percentOf(s.Failures, s.Total)
}

// TransportErrorRate is the percentage of requests that got no response.
func (s Stats) TransportErrorRate() float64 {
	return percentOf(s.TransportErrors, s.Total)
}

func percentOf(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
