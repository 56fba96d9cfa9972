// Package result models scored search output.
package result

import (
	"time"

	"github.com/voyatic/tripdex/internal/domain/search/candidate"
)

// Scored pairs a candidate with its final rank score.
type Scored struct {
	candidate candidate.Candidate
	score     float64
}

// NewScored creates a scored result.
func NewScored(c candidate.Candidate, score float64) Scored {
	return Scored{candidate: c, score: score}
}

// Candidate returns the underlying candidate.
func (s *Scored) Candidate() candidate.Candidate { return s.candidate }

// Score returns the final rank score (base similarity discounted by
// constraint penalties).
func (s *Scored) Score() float64 { return s.score }

// Response is the complete outcome of one search operation.
type Response struct {
	results []Scored
	elapsed time.Duration
}

// NewResponse creates a response. An empty result list is a valid outcome.
func NewResponse(results []Scored, elapsed time.Duration) Response {
	if results == nil {
		results = []Scored{}
	}
	return Response{results: results, elapsed: elapsed}
}

// Results returns the ordered result list.
func (r *Response) Results() []Scored { return r.results }

// Total returns the number of returned results.
func (r *Response) Total() int { return len(r.results) }

// Elapsed returns the wall time the search took.
func (r *Response) Elapsed() time.Duration { return r.elapsed }
