// Package search implements the retrieval ranking pipeline: query
// embedding, single hard-filter selection, ANN candidate retrieval,
// weighted soft scoring and result assembly.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/voyatic/tripdex/internal/domain/search/query"
	"github.com/voyatic/tripdex/internal/domain/search/result"
	"github.com/voyatic/tripdex/internal/metrics"
)

// OverfetchFactor governs how many raw candidates are requested per result
// slot. The hard filter constrains only one field, so soft scoring may
// reorder or drop otherwise-top candidates; under-fetching silently hurts
// recall.
const OverfetchFactor = 3

// Service orchestrates one search request end to end.
type Service struct {
	store  CandidateStore
	embed  Embedder
	logger *zap.Logger
}

// New creates a search service.
func New(store CandidateStore, embed Embedder, logger *zap.Logger) *Service {
	return &Service{store: store, embed: embed, logger: logger}
}

// Search runs the full pipeline. An embedding failure is a hard error; a
// candidate store failure degrades to an empty result set so one unhealthy
// dependency never fails the surrounding request pipeline.
func (s *Service) Search(ctx context.Context, q *query.Query) (result.Response, error) {
	start := time.Now()

	emb, err := s.embed.Embed(ctx, q.Text())
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("embed_error").Inc()
		return result.Response{}, fmt.Errorf("vectorize query: %w", err)
	}

	hard := selectHardFilter(q.Constraints())
	filterLabel := "none"
	if hard != nil {
		filterLabel = hard.Field.Name()
	}
	metrics.SearchHardFilterTotal.WithLabelValues(filterLabel).Inc()

	cands, err := s.store.Query(ctx, emb.Embedding, q.Limit()*OverfetchFactor, hard)
	if err != nil {
		s.logger.Warn("candidate store query failed, returning empty result set",
			zap.Error(err))
		metrics.SearchStoreFailuresTotal.Inc()
		metrics.SearchRequestsTotal.WithLabelValues("degraded").Inc()
		return result.NewResponse(nil, time.Since(start)), nil
	}

	scores := make([]float64, len(cands))
	for i := range cands {
		scores[i] = scoreCandidate(&cands[i], q.Constraints(), hard)
	}
	metrics.SearchCandidatesScored.Add(float64(len(cands)))

	results := assemble(cands, scores, q.Threshold(), q.Limit())

	metrics.SearchRequestsTotal.WithLabelValues("ok").Inc()
	return result.NewResponse(results, time.Since(start)), nil
}
