package search

import (
	"github.com/voyatic/tripdex/internal/domain/constraint"
	"github.com/voyatic/tripdex/internal/domain/search/candidate"
)

// scoreCandidate multiplies the base similarity by (1 - penalty) for every
// constraint not already enforced by the hard filter. With no constraints
// the score equals the base similarity; a fully satisfied constraint set
// leaves it untouched.
func scoreCandidate(cand *candidate.Candidate, cs constraint.Set, hard *constraint.HardFilter) float64 {
	score := cand.Similarity()
	for _, f := range cs.Fields() {
		if hard != nil && hard.Field == f {
			// Matches by construction: the store already filtered on it.
			continue
		}
		c, _ := cs.Get(f)
		score *= 1 - penaltyFor(c, cand)
	}
	if score < 0 {
		score = 0
	}
	return score
}
