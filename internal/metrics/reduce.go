package metrics

import (
	"time"

	"github.com/torosent/volley/internal/outcome"
)

// Reduce computes run statistics from the complete outcome set and the
// wall-clock duration of the run. Outcome order does not matter.
func Reduce(outcomes []outcome.Outcome, duration time.Duration) Stats {
	stats := Stats{
		Total:           int64(len(outcomes)),
		Duration:        duration,
		DurationSeconds: duration.Seconds(),
	}

	latencies := make([]time.Duration, 0, len(outcomes))
	for _, o := range outcomes {
		switch o.Kind {
		case outcome.Success:
			stats.Successes++
			latencies = append(latencies, o.Latency)
		case outcome.Failure:
			stats.Failures++
			if stats.StatusCodes == nil {
				stats.StatusCodes = make(map[int]int64)
			}
			stats.StatusCodes[o.StatusCode]++
		default:
			stats.TransportErrors++
			if stats.TransportCauses == nil {
				stats.TransportCauses = make(map[string]int64)
			}
			reason := o.Reason
			if reason == "" {
				reason = "Unknown error"
			}
			stats.TransportCauses[reason]++
		}
	}

	stats.SuccessRate = percentOf(stats.Successes, stats.Total)
	if duration > 0 {
		stats.RequestsPerSec = float64(stats.Total) / duration.Seconds()
	}
	stats.Latency = Summarize(latencies)
	return stats
}
