package ingest

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/voyatic/tripdex/internal/domain"
	"github.com/voyatic/tripdex/internal/domain/fragment"
)

// mockStore implements FragmentStore for tests.
type mockStore struct {
	upsertFn         func(ctx context.Context, frag *fragment.Fragment) (bool, error)
	upsertBatchFn    func(ctx context.Context, frags []fragment.Fragment) error
	getFn            func(ctx context.Context, id string) (fragment.Fragment, error)
	deleteFn         func(ctx context.Context, id string) error
	deleteBySourceFn func(ctx context.Context, source string) (int, error)
	statsFn          func(ctx context.Context) (fragment.Stats, error)
	clearFn          func(ctx context.Context) (int, error)
}

func (m *mockStore) Upsert(ctx context.Context, frag *fragment.Fragment) (bool, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, frag)
	}
	return true, nil
}

func (m *mockStore) UpsertBatch(ctx context.Context, frags []fragment.Fragment) error {
	if m.upsertBatchFn != nil {
		return m.upsertBatchFn(ctx, frags)
	}
	return nil
}

func (m *mockStore) Get(ctx context.Context, id string) (fragment.Fragment, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return fragment.Fragment{}, domain.ErrFragmentNotFound
}

func (m *mockStore) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockStore) DeleteBySource(ctx context.Context, source string) (int, error) {
	if m.deleteBySourceFn != nil {
		return m.deleteBySourceFn(ctx, source)
	}
	return 0, nil
}

func (m *mockStore) Stats(ctx context.Context) (fragment.Stats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return fragment.Stats{}, nil
}

func (m *mockStore) Clear(ctx context.Context) (int, error) {
	if m.clearFn != nil {
		return m.clearFn(ctx)
	}
	return 0, nil
}

// mockEmbedder implements Embedder for tests.
type mockEmbedder struct {
	embedFn      func(ctx context.Context, text string) (domain.EmbeddingResult, error)
	batchEmbedFn func(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}}, nil
}

func (m *mockEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if m.batchEmbedFn != nil {
		return m.batchEmbedFn(ctx, texts)
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = []float32{0.1, 0.2, 0.3}
	}
	return domain.BatchEmbeddingResult{Embeddings: embeddings}, nil
}

func newTestService(t *testing.T) (*Service, *mockStore, *mockEmbedder) {
	t.Helper()
	ms := &mockStore{}
	me := &mockEmbedder{}
	svc := New(ms, me, 3, zap.NewNop())
	return svc, ms, me
}
