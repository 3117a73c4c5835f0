package runner

// WorkItem is one unit of work: a single request against one identifier.
// Index is the position in the expanded worklist.
type WorkItem struct {
	Index int
	ID    string
}

// ExpandWorklist repeats the identifier list repeat times by concatenation,
// so [a b] repeated twice yields a, b, a, b. A repeat below 1 is treated as 1.
func ExpandWorklist(ids []string, repeat int) []WorkItem {
	if repeat < 1 {
		repeat = 1
	}
	items := make([]WorkItem, 0, len(ids)*repeat)
	for r := 0; r < repeat; r++ {
		for _, id := range ids {
			items = append(items, WorkItem{Index: len(items), ID: id})
		}
	}
	return items
}

func uniqueCount(ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
