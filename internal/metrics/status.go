package metrics

import (
	"sort"
	"strconv"
)

// Bucket is one row of a failure breakdown.
type Bucket struct {
	Label string
	Count int64
}

// StatusBuckets flattens the per-status failure counts into rows sorted by
// descending count, then by status code.
func StatusBuckets(codes map[int]int64) []Bucket {
	if len(codes) == 0 {
		return nil
	}
	keys := make([]int, 0, len(codes))
	for code := range codes {
		keys = append(keys, code)
	}
	sort.Ints(keys)
	rows := make([]Bucket, 0, len(keys))
	for _, code := range keys {
		rows = append(rows, Bucket{Label: strconv.Itoa(code), Count: codes[code]})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Count > rows[j].Count
	})
	return rows
}

// CauseBuckets flattens transport-error causes the same way, ties broken by name.
func CauseBuckets(causes map[string]int64) []Bucket {
	if len(causes) == 0 {
		return nil
	}
	rows := make([]Bucket, 0, len(causes))
	for label, count := range causes {
		rows = append(rows, Bucket{Label: label, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count == rows[j].Count {
			return rows[i].Label < rows[j].Label
		}
		return rows[i].Count > rows[j].Count
	})
	return rows
}
