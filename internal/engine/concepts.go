package engine

import "sort"

// conceptTracker accumulates concept-tag counts per week and cumulatively
// across the run. Top-N queries read without mutating.
type conceptTracker struct {
	weekly     map[int]map[string]int
	cumulative map[string]int
}

func newConceptTracker() *conceptTracker {
	return &conceptTracker{
		weekly:     make(map[int]map[string]int),
		cumulative: make(map[string]int),
	}
}

// observe counts one concept tag for a week. Blank tags are dropped.
func (t *conceptTracker) observe(concept string, week int) {
	if concept == "" {
		return
	}
	counts := t.weekly[week]
	if counts == nil {
		counts = make(map[string]int)
		t.weekly[week] = counts
	}
	counts[concept]++
	t.cumulative[concept]++
}

// topWeek returns the n most frequent concepts of one week.
func (t *conceptTracker) topWeek(week, n int) []ConceptCount {
	return topN(t.weekly[week], n)
}

// topCumulative returns the n most frequent concepts across the whole run.
func (t *conceptTracker) topCumulative(n int) []ConceptCount {
	return topN(t.cumulative, n)
}

// topN ranks concepts by count descending. Equal counts order
// lexicographically by concept string so rankings are deterministic.
func topN(counts map[string]int, n int) []ConceptCount {
	ranked := make([]ConceptCount, 0, len(counts))
	for concept, count := range counts {
		ranked = append(ranked, ConceptCount{Concept: concept, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Concept < ranked[j].Concept
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
