package search

import "github.com/voyatic/tripdex/internal/domain/constraint"

// selectHardFilter picks at most one constraint to push down to the
// candidate store as an equality pre-filter. The store is efficient only
// for a single predicate, so the remaining constraints stay in soft
// scoring. Precedence is fixed: destination, travel_month, season,
// category, price_range, subcategory; the first one present wins.
// Constraint values are normalized at construction, so the filter value
// is already canonical.
func selectHardFilter(cs constraint.Set) *constraint.HardFilter {
	for _, f := range constraint.HardFilterPrecedence {
		if c, ok := cs.Get(f); ok {
			return &constraint.HardFilter{Field: f, Value: c.FilterValue()}
		}
	}
	return nil
}
