package metrics

import (
	"slices"
	"time"
)

const (
	minSamplesP95 = 20
	minSamplesP99 = 100
)

// Summarize computes the latency summary of a sample. The input is not modified.
func Summarize(latencies []time.Duration) LatencySummary {
	if len(latencies) == 0 {
		return LatencySummary{}
	}

	sorted := slices.Clone(latencies)
	slices.Sort(sorted)

	var sum time.Duration
	for _, l := range sorted {
		sum += l
	}

	summary := LatencySummary{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   sum / time.Duration(len(sorted)),
		Median: median(sorted),
		P95:    quantileOrMax(sorted, 19, 20, minSamplesP95),
		P99:    quantileOrMax(sorted, 99, 100, minSamplesP99),
	}
	summary.MinSeconds = summary.Min.Seconds()
	summary.MaxSeconds = summary.Max.Seconds()
	summary.MeanSeconds = summary.Mean.Seconds()
	summary.MedianSeconds = summary.Median.Seconds()
	summary.P95Seconds = summary.P95.Seconds()
	summary.P99Seconds = summary.P99.Seconds()
	return summary
}

func median(sorted []time.Duration) time.Duration {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func quantileOrMax(sorted []time.Duration, i, n, minSamples int) time.Duration {
	if len(sorted) < minSamples {
		return sorted[len(sorted)-1]
	}
	return exclusiveQuantile(sorted, i, n)
}

// exclusiveQuantile returns cut point i of n over a sorted sample.
func exclusiveQuantile(sorted []time.Duration, i, n int) time.Duration {
	size := len(sorted)
	if size == 1 {
		return sorted[0]
	}
	m := size + 1
	j := i * m / n
	if j < 1 {
		j = 1
	}
	if j > size-1 {
		j = size - 1
	}
	delta := i*m - j*n
	return (sorted[j-1]*time.Duration(n-delta) + sorted[j]*time.Duration(delta)) / time.Duration(n)
}
