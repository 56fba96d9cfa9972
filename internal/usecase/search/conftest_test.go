package search

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/voyatic/tripdex/internal/domain"
	"github.com/voyatic/tripdex/internal/domain/constraint"
	"github.com/voyatic/tripdex/internal/domain/search/candidate"
	"github.com/voyatic/tripdex/internal/domain/search/query"
)

// mockStore implements CandidateStore for tests.
type mockStore struct {
	queryFn func(ctx context.Context, vector []float32, k int, hard *constraint.HardFilter) ([]candidate.Candidate, error)
}

func (m *mockStore) Query(ctx context.Context, vector []float32, k int, hard *constraint.HardFilter) ([]candidate.Candidate, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, vector, k, hard)
	}
	return nil, nil
}

// mockEmbedder implements Embedder for tests.
type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}}, nil
}

func newTestService(t *testing.T) (*Service, *mockStore, *mockEmbedder) {
	t.Helper()
	ms := &mockStore{}
	me := &mockEmbedder{}
	return New(ms, me, zap.NewNop()), ms, me
}

func newCandidate(t *testing.T, id string, sim float64, attrs map[string]string) candidate.Candidate {
	t.Helper()
	return candidate.New(id, "body-"+id, "guide.pdf", attrs, sim)
}

func mustString(t *testing.T, f constraint.Field, v string) constraint.Constraint {
	t.Helper()
	c, err := constraint.NewString(f, v)
	if err != nil {
		t.Fatalf("NewString(%s, %q): %v", f.Name(), v, err)
	}
	return c
}

func mustNumber(t *testing.T, f constraint.Field, v float64) constraint.Constraint {
	t.Helper()
	c, err := constraint.NewNumber(f, v)
	if err != nil {
		t.Fatalf("NewNumber(%s, %v): %v", f.Name(), v, err)
	}
	return c
}

func mustBool(t *testing.T, f constraint.Field, v bool) constraint.Constraint {
	t.Helper()
	c, err := constraint.NewBool(f, v)
	if err != nil {
		t.Fatalf("NewBool(%s, %v): %v", f.Name(), v, err)
	}
	return c
}

func mustList(t *testing.T, f constraint.Field, vs []string) constraint.Constraint {
	t.Helper()
	c, err := constraint.NewList(f, vs)
	if err != nil {
		t.Fatalf("NewList(%s, %v): %v", f.Name(), vs, err)
	}
	return c
}

func mustQuery(t *testing.T, text string, cs constraint.Set, limit int, threshold float64) *query.Query {
	t.Helper()
	q, err := query.New(text, cs, limit, threshold)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return &q
}

func almostEqual(a, b float64) bool {
	const eps = 1e-9
	diff := a - b
	return diff < eps && diff > -eps
}
