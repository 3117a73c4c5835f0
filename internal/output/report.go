package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/torosent/volley/internal/metrics"
	"github.com/torosent/volley/internal/threshold"
)

// PrintReport outputs a human-readable summary report. Durations are shown
// in seconds with two decimals.
func PrintReport(w io.Writer, stats metrics.Stats) {
	fmt.Fprintln(w, "\n--- Load Test Results ---")
	if stats.RunID != "" {
		fmt.Fprintf(w, "Run ID:            %s\n", stats.RunID)
	}
	if stats.UniqueIDs > 0 {
		fmt.Fprintf(w, "Work Items:        %d x %d (concurrency %d)\n", stats.UniqueIDs, max(stats.Repeat, 1), stats.Concurrency)
	}
	fmt.Fprintf(w, "Total Requests:    %d\n", stats.Total)
	fmt.Fprintf(w, "Successful:        %d\n", stats.Successes)
	fmt.Fprintf(w, "Failed:            %d\n", stats.Failures)
	fmt.Fprintf(w, "Transport Errors:  %d\n", stats.TransportErrors)
	fmt.Fprintf(w, "Success Rate:      %.2f%%\n", stats.SuccessRate)
	fmt.Fprintf(w, "Total Time:        %ss\n", seconds(stats.Duration))
	fmt.Fprintf(w, "Requests/sec:      %.2f\n", stats.RequestsPerSec)

	fmt.Fprintln(w, "\nLatency (successful requests):")
	if stats.Successes == 0 {
		fmt.Fprintln(w, "  No successful requests; latency statistics are 0.")
	}
	fmt.Fprintf(w, "  Min:             %ss\n", seconds(stats.Latency.Min))
	fmt.Fprintf(w, "  Max:             %ss\n", seconds(stats.Latency.Max))
	fmt.Fprintf(w, "  Mean:            %ss\n", seconds(stats.Latency.Mean))
	fmt.Fprintf(w, "  Median:          %ss\n", seconds(stats.Latency.Median))
	fmt.Fprintf(w, "  P95:             %ss\n", seconds(stats.Latency.P95))
	fmt.Fprintf(w, "  P99:             %ss\n", seconds(stats.Latency.P99))

	if rows := metrics.StatusBuckets(stats.StatusCodes); len(rows) > 0 {
		fmt.Fprintln(w, "\nFailures by Status:")
		writeBuckets(w, rows, "HTTP ")
	}
	if rows := metrics.CauseBuckets(stats.TransportCauses); len(rows) > 0 {
		fmt.Fprintln(w, "\nTransport Errors by Cause:")
		writeBuckets(w, rows, "")
	}
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, stats metrics.Stats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}

// PrintYAMLReport outputs the same record as PrintJSONReport in YAML.
func PrintYAMLReport(w io.Writer, stats metrics.Stats) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(stats); err != nil {
		return err
	}
	return enc.Close()
}

// PrintThresholds lists every threshold result and reports whether all passed.
func PrintThresholds(w io.Writer, results []threshold.Result) bool {
	if len(results) == 0 {
		return true
	}
	allPassed := true
	fmt.Fprintln(w, "\nThresholds:")
	for _, r := range results {
		if !r.Pass {
			allPassed = false
		}
		fmt.Fprintf(w, "  %s\n", r.Message)
	}
	return allPassed
}

func writeBuckets(w io.Writer, rows []metrics.Bucket, prefix string) {
	for _, row := range rows {
		fmt.Fprintf(w, "  %s%s: %d\n", prefix, row.Label, row.Count)
	}
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.2f", d.Seconds())
}
