package search

import (
	"context"

	"github.com/voyatic/tripdex/internal/domain"
	"github.com/voyatic/tripdex/internal/domain/constraint"
	"github.com/voyatic/tripdex/internal/domain/search/candidate"
)

// CandidateStore retrieves ANN candidates for a query vector, optionally
// pre-filtered by one equality predicate.
type CandidateStore interface {
	Query(ctx context.Context, vector []float32, k int, hard *constraint.HardFilter) ([]candidate.Candidate, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
