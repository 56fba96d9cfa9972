package query

import (
	"fmt"
	"strings"

	"github.com/voyatic/tripdex/internal/domain/constraint"
)

// Search parameter limits.
const (
	MaxTextLength    = 4096
	DefaultLimit     = 10
	MaxLimit         = 100
	DefaultThreshold = 0.1
)

// ThresholdUnset marks an omitted threshold; New replaces it with
// DefaultThreshold. Any other out-of-range value is rejected.
const ThresholdUnset = -1.0

// Query is a validated search request: free text plus structured constraints.
type Query struct {
	text        string
	constraints constraint.Set
	limit       int
	threshold   float64
}

// New validates and normalizes search parameters.
// Defaults: limit=10 (capped at 100), threshold=0.1. ThresholdUnset selects
// the default threshold; an explicit zero is kept.
func New(text string, cs constraint.Set, limit int, threshold float64) (Query, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Query{}, fmt.Errorf("query text is required")
	}
	if len(text) > MaxTextLength {
		return Query{}, fmt.Errorf("query text too long (max %d chars)", MaxTextLength)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if threshold == ThresholdUnset {
		threshold = DefaultThreshold
	}
	if threshold < 0 || threshold > 1 {
		return Query{}, fmt.Errorf("threshold must be between 0 and 1")
	}

	return Query{
		text:        text,
		constraints: cs,
		limit:       limit,
		threshold:   threshold,
	}, nil
}

// Text returns the free-text part of the query.
func (q *Query) Text() string { return q.text }

// Constraints returns the structured constraint set.
func (q *Query) Constraints() constraint.Set { return q.constraints }

// Limit returns the maximum number of results to return.
func (q *Query) Limit() int { return q.limit }

// Threshold returns the minimum final score a result must reach.
func (q *Query) Threshold() float64 { return q.threshold }
