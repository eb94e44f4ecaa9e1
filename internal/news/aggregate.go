package news

import (
	"sort"

	"dailydigest/internal/metrics"
)

// Aggregate merges section-scoped fetches with undifferentiated items into
// per-section pools. Scoped items keep their arrival order; undifferentiated
// items are classified and appended behind them, also in arrival order.
// Arrival order is the tie-break used by fallback selection, so the merge
// must never reorder.
func Aggregate(scoped map[Section][]Article, undifferentiated []Article) map[Section][]Article {
	pools := make(map[Section][]Article, len(SectionOrder))
	for _, s := range SectionOrder {
		pools[s] = append(pools[s], scoped[s]...)
	}

	for _, a := range undifferentiated {
		section, ok := Classify(a)
		if !ok {
			metrics.Global.IncrementArticlesDiscarded()
			continue
		}
		pools[section] = append(pools[section], a)
	}

	return pools
}

// Total counts articles across all pools.
func Total(pools map[Section][]Article) int {
	n := 0
	for _, pool := range pools {
		n += len(pool)
	}
	return n
}

// SortByRecency returns a new slice ordered by publication time, newest
// first. Articles without a timestamp sort last, keeping their original
// arrival order among themselves. This is the canonical curation order;
// sorting an already-sorted pool yields the same result.
func SortByRecency(pool []Article) []Article {
	sorted := make([]Article, len(pool))
	copy(sorted, pool)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Published.IsZero() {
			return false
		}
		if b.Published.IsZero() {
			return true
		}
		return a.Published.After(b.Published)
	})

	return sorted
}
