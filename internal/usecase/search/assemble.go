package search

import (
	"sort"

	"github.com/voyatic/tripdex/internal/domain/search/candidate"
	"github.com/voyatic/tripdex/internal/domain/search/result"
)

// assemble pairs candidates with their scores, drops everything below the
// threshold, sorts by score descending (ties keep the store's original
// order) and truncates to limit. An empty list is a valid outcome.
func assemble(cands []candidate.Candidate, scores []float64, threshold float64, limit int) []result.Scored {
	out := make([]result.Scored, 0, len(cands))
	for i, c := range cands {
		if scores[i] >= threshold {
			out = append(out, result.NewScored(c, scores[i]))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score() > out[j].Score()
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
