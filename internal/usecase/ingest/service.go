// Package ingest manages the fragment corpus: upserts with automatic
// vectorization, deletions by id and by source file, corpus statistics
// and full index clearing.
package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voyatic/tripdex/internal/domain"
	"github.com/voyatic/tripdex/internal/domain/fragment"
	"github.com/voyatic/tripdex/internal/metrics"
)

// MaxBatchSize bounds one batch upsert; larger batches risk oversized
// embedding API requests.
const MaxBatchSize = 256

// Item is one fragment submitted for ingestion. An empty ID means the
// service assigns a UUID.
type Item struct {
	ID         string
	Body       string
	Source     string
	Attributes map[string]string
}

// UpsertResult reports the outcome of a single upsert.
type UpsertResult struct {
	ID      string
	Created bool
}

// BatchResult reports the outcome of a batch upsert.
type BatchResult struct {
	IDs         []string
	TotalTokens int
}

// Service handles fragment ingestion with automatic vectorization.
type Service struct {
	store     FragmentStore
	embed     Embedder
	vectorDim int
	logger    *zap.Logger
}

// New creates an ingest service. vectorDim > 0 enables dimension checks
// against the index schema.
func New(store FragmentStore, embed Embedder, vectorDim int, logger *zap.Logger) *Service {
	return &Service{store: store, embed: embed, vectorDim: vectorDim, logger: logger}
}

// Upsert validates, vectorizes and stores one fragment.
func (s *Service) Upsert(ctx context.Context, item Item) (UpsertResult, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	frag, err := fragment.New(item.ID, item.Body, item.Source, item.Attributes)
	if err != nil {
		return UpsertResult{}, err
	}

	res, err := s.embed.Embed(ctx, frag.Body())
	if err != nil {
		return UpsertResult{}, fmt.Errorf("vectorize fragment: %w", err)
	}
	if err := s.checkDim(res.Embedding); err != nil {
		return UpsertResult{}, err
	}

	frag = frag.WithVector(res.Embedding)
	created, err := s.store.Upsert(ctx, &frag)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("upsert fragment: %w", err)
	}

	metrics.IngestFragmentsTotal.WithLabelValues("upsert").Inc()
	s.logger.Debug("fragment upserted",
		zap.String("id", frag.ID()),
		zap.String("source", frag.Source()),
		zap.Bool("created", created))

	return UpsertResult{ID: frag.ID(), Created: created}, nil
}

// UpsertBatch validates all items, embeds their bodies in one provider
// call and stores them in one round-trip. The batch is all-or-nothing up
// to the store write.
func (s *Service) UpsertBatch(ctx context.Context, items []Item) (BatchResult, error) {
	if len(items) == 0 {
		return BatchResult{IDs: []string{}}, nil
	}
	if len(items) > MaxBatchSize {
		return BatchResult{}, fmt.Errorf(
			"batch size %d exceeds limit %d: %w", len(items), MaxBatchSize, domain.ErrInvalidFragment)
	}

	frags := make([]fragment.Fragment, len(items))
	texts := make([]string, len(items))
	for i, item := range items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		frag, err := fragment.New(item.ID, item.Body, item.Source, item.Attributes)
		if err != nil {
			return BatchResult{}, fmt.Errorf("item %d: %w", i, err)
		}
		frags[i] = frag
		texts[i] = frag.Body()
	}

	res, err := s.embed.BatchEmbed(ctx, texts)
	if err != nil {
		return BatchResult{}, fmt.Errorf("vectorize batch: %w", err)
	}
	if len(res.Embeddings) != len(frags) {
		return BatchResult{}, fmt.Errorf(
			"got %d embeddings for %d fragments: %w",
			len(res.Embeddings), len(frags), domain.ErrEmbeddingProviderError)
	}

	ids := make([]string, len(frags))
	for i := range frags {
		if err := s.checkDim(res.Embeddings[i]); err != nil {
			return BatchResult{}, fmt.Errorf("item %d: %w", i, err)
		}
		frags[i] = frags[i].WithVector(res.Embeddings[i])
		ids[i] = frags[i].ID()
	}

	if err := s.store.UpsertBatch(ctx, frags); err != nil {
		return BatchResult{}, fmt.Errorf("upsert batch: %w", err)
	}

	metrics.IngestFragmentsTotal.WithLabelValues("batch").Add(float64(len(frags)))
	s.logger.Info("fragment batch upserted",
		zap.Int("count", len(frags)),
		zap.Int("total_tokens", res.TotalTokens))

	return BatchResult{IDs: ids, TotalTokens: res.TotalTokens}, nil
}

// Get returns one stored fragment by ID.
func (s *Service) Get(ctx context.Context, id string) (fragment.Fragment, error) {
	frag, err := s.store.Get(ctx, id)
	if err != nil {
		return fragment.Fragment{}, fmt.Errorf("get fragment: %w", err)
	}
	return frag, nil
}

// Delete removes one fragment by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete fragment: %w", err)
	}
	metrics.IngestDeletesTotal.WithLabelValues("delete").Inc()
	return nil
}

// DeleteBySource removes every fragment ingested from one source file.
func (s *Service) DeleteBySource(ctx context.Context, source string) (int, error) {
	n, err := s.store.DeleteBySource(ctx, source)
	if err != nil {
		return 0, fmt.Errorf("delete by source: %w", err)
	}
	metrics.IngestDeletesTotal.WithLabelValues("delete_source").Add(float64(n))
	s.logger.Info("fragments deleted by source",
		zap.String("source", source),
		zap.Int("count", n))
	return n, nil
}

// Stats returns corpus statistics.
func (s *Service) Stats(ctx context.Context) (fragment.Stats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return fragment.Stats{}, fmt.Errorf("corpus stats: %w", err)
	}
	return stats, nil
}

// Clear removes every fragment from the index.
func (s *Service) Clear(ctx context.Context) (int, error) {
	n, err := s.store.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear index: %w", err)
	}
	metrics.IngestDeletesTotal.WithLabelValues("clear").Add(float64(n))
	s.logger.Warn("fragment index cleared", zap.Int("count", n))
	return n, nil
}

func (s *Service) checkDim(vec []float32) error {
	if s.vectorDim > 0 && len(vec) != s.vectorDim {
		return fmt.Errorf("vector dimension mismatch: got %d, want %d: %w",
			len(vec), s.vectorDim, domain.ErrVectorDimMismatch)
	}
	return nil
}
