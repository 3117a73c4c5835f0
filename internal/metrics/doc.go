// Package metrics reduces request outcomes into run statistics.
//
// [Reduce] is the authoritative, pure reduction used for the final report:
// it partitions outcomes into success, failure and transport-error buckets
// and summarises the latency of successful requests only.
//
// # Quantile method
//
// Median is the middle value (mean of the two middle values for an even
// sample). p95 and p99 use the exclusive interpolation method over the
// sorted sample x[1..N]: for cut i of n, with m = N+1,
//
//	j = clamp(i*m / n, 1, N-1)
//	d = i*m - j*n
//	q = (x[j]*(n-d) + x[j+1]*d) / n
//
// p95 is cut 19 of 20 and p99 is cut 99 of 100. When the sample has fewer
// than 20 (p95) or 100 (p99) points the maximum observed latency is reported
// instead. An empty success set reports 0 for every latency field.
//
// # Collector
//
// [Collector] keeps thread-safe running totals and an HDR histogram while a
// run is in progress. It only feeds the live progress line.
package metrics
