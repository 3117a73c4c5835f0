// Package threshold evaluates pass/fail assertions against run statistics.
package threshold

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/torosent/volley/internal/metrics"
)

// Threshold represents a performance assertion that can pass or fail.
type Threshold struct {
	Metric    string  // e.g., "latency", "success", "failures"
	Aggregate string  // e.g., "p95", "rate", "count"
	Operator  string  // e.g., "<", "<=", ">", ">=", "=="
	Value     float64 // The threshold value to compare against
	Raw       string  // Original threshold string for display
}

// Result represents the outcome of evaluating a threshold.
type Result struct {
	Threshold Threshold
	Actual    float64
	Pass      bool
	Message   string
}

// Evaluator evaluates thresholds against run statistics.
type Evaluator struct {
	thresholds []Threshold
}

type extractor func(metrics.Stats) float64

// Latencies are in seconds and rates in percent, matching the report. The
// requests rate is throughput in requests per second.
var supported = map[string]map[string]extractor{
	"latency": {
		"min":    func(s metrics.Stats) float64 { return s.Latency.MinSeconds },
		"max":    func(s metrics.Stats) float64 { return s.Latency.MaxSeconds },
		"avg":    func(s metrics.Stats) float64 { return s.Latency.MeanSeconds },
		"mean":   func(s metrics.Stats) float64 { return s.Latency.MeanSeconds },
		"median": func(s metrics.Stats) float64 { return s.Latency.MedianSeconds },
		"p95":    func(s metrics.Stats) float64 { return s.Latency.P95Seconds },
		"p99":    func(s metrics.Stats) float64 { return s.Latency.P99Seconds },
	},
	"success": {
		"rate":  func(s metrics.Stats) float64 { return s.SuccessRate },
		"count": func(s metrics.Stats) float64 { return float64(s.Successes) },
	},
	"failures": {
		"rate":  func(s metrics.Stats) float64 { return s.FailureRate() },
		"count": func(s metrics.Stats) float64 { return float64(s.Failures) },
	},
	"transport_errors": {
		"rate":  func(s metrics.Stats) float64 { return s.TransportErrorRate() },
		"count": func(s metrics.Stats) float64 { return float64(s.TransportErrors) },
	},
	"requests": {
		"rate":  func(s metrics.Stats) float64 { return s.RequestsPerSec },
		"count": func(s metrics.Stats) float64 { return float64(s.Total) },
	},
}

var pattern = regexp.MustCompile(`^([a-z_]+):([a-z0-9]+)\s*([<>=!]+)\s*([0-9]*\.?[0-9]+)$`)

// NewEvaluator creates a new threshold evaluator.
func NewEvaluator(thresholds []Threshold) *Evaluator {
	return &Evaluator{
		thresholds: thresholds,
	}
}

// Evaluate checks all thresholds against the provided stats.
func (e *Evaluator) Evaluate(stats metrics.Stats) []Result {
	if len(e.thresholds) == 0 {
		return nil
	}

	results := make([]Result, 0, len(e.thresholds))
	for _, t := range e.thresholds {
		results = append(results, evaluateOne(t, stats))
	}
	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Pass {
			return false
		}
	}
	return true
}

func evaluateOne(t Threshold, stats metrics.Stats) Result {
	actual, err := extractMetricValue(t, stats)
	if err != nil {
		return Result{
			Threshold: t,
			Message:   fmt.Sprintf("✗ %s: error: %v", t.Raw, err),
		}
	}

	pass := compareValues(actual, t.Operator, t.Value)
	status := "✓"
	if !pass {
		status = "✗"
	}

	return Result{
		Threshold: t,
		Actual:    actual,
		Pass:      pass,
		Message:   fmt.Sprintf("%s %s: %.2f %s %.2f", status, t.Raw, actual, t.Operator, t.Value),
	}
}

// Parse parses a threshold string into a Threshold struct.
// Supported formats:
// - "latency:p95 < 2"            (latency percentile in seconds)
// - "latency:avg < 0.5"          (mean latency in seconds)
// - "success:rate >= 99"         (success rate in percent)
// - "failures:count == 0"        (non-200 responses)
// - "transport_errors:rate < 1"  (requests without a response, percent)
// - "requests:rate > 50"         (requests per second)
func Parse(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Threshold{}, fmt.Errorf("empty threshold string")
	}

	matches := pattern.FindStringSubmatch(s)
	if matches == nil {
		return Threshold{}, fmt.Errorf("invalid threshold format: %q (expected format: metric:aggregate operator value, e.g., 'latency:p95 < 2')", s)
	}

	metric := matches[1]
	aggregate := matches[2]
	operator := matches[3]
	valueStr := matches[4]

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return Threshold{}, fmt.Errorf("invalid threshold value %q: %v", valueStr, err)
	}

	aggregates, ok := supported[metric]
	if !ok {
		return Threshold{}, fmt.Errorf("unsupported metric: %q (supported: %s)", metric, strings.Join(sortedKeys(supported), ", "))
	}
	if _, ok := aggregates[aggregate]; !ok {
		return Threshold{}, fmt.Errorf("unsupported aggregate %q for %s (supported: %s)", aggregate, metric, strings.Join(sortedKeys(aggregates), ", "))
	}
	if !isValidOperator(operator) {
		return Threshold{}, fmt.Errorf("unsupported operator: %q (supported: <, <=, >, >=, ==)", operator)
	}

	return Threshold{
		Metric:    metric,
		Aggregate: aggregate,
		Operator:  operator,
		Value:     value,
		Raw:       s,
	}, nil
}

// ParseMultiple parses multiple threshold strings.
func ParseMultiple(thresholds []string) ([]Threshold, error) {
	if len(thresholds) == 0 {
		return nil, nil
	}

	result := make([]Threshold, 0, len(thresholds))
	var errs []string

	for i, s := range thresholds {
		t, err := Parse(s)
		if err != nil {
			errs = append(errs, fmt.Sprintf("threshold[%d]: %v", i, err))
			continue
		}
		result = append(result, t)
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("threshold parsing errors: %s", strings.Join(errs, "; "))
	}

	return result, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isValidOperator(operator string) bool {
	switch operator {
	case "<", "<=", ">", ">=", "==":
		return true
	}
	return false
}

func extractMetricValue(t Threshold, stats metrics.Stats) (float64, error) {
	aggregates, ok := supported[t.Metric]
	if !ok {
		return 0, fmt.Errorf("unknown metric: %s", t.Metric)
	}
	fn, ok := aggregates[t.Aggregate]
	if !ok {
		return 0, fmt.Errorf("unsupported aggregate %q for %s", t.Aggregate, t.Metric)
	}
	return fn(stats), nil
}

func compareValues(actual float64, operator string, expected float64) bool {
	// Handle floating point comparison with small epsilon
	epsilon := 1e-9

	switch operator {
	case "<":
		return actual < expected
	case "<=":
		return actual <= expected || math.Abs(actual-expected) < epsilon
	case ">":
		return actual > expected
	case ">=":
		return actual >= expected || math.Abs(actual-expected) < epsilon
	case "==":
		return math.Abs(actual-expected) < epsilon
	default:
		return false
	}
}
