package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/voyatic/tripdex/internal/domain"
	"github.com/voyatic/tripdex/internal/domain/fragment"
	"github.com/voyatic/tripdex/internal/domain/search/candidate"
	"github.com/voyatic/tripdex/internal/domain/search/query"
	"github.com/voyatic/tripdex/internal/domain/search/result"
	healthuc "github.com/voyatic/tripdex/internal/usecase/health"
	"github.com/voyatic/tripdex/internal/usecase/ingest"
)

type mockSearchService struct {
	searchFn func(ctx context.Context, q *query.Query) (result.Response, error)
}

func (m *mockSearchService) Search(ctx context.Context, q *query.Query) (result.Response, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return result.NewResponse(nil, 0), nil
}

type mockIngestService struct {
	upsertFn         func(ctx context.Context, item ingest.Item) (ingest.UpsertResult, error)
	upsertBatchFn    func(ctx context.Context, items []ingest.Item) (ingest.BatchResult, error)
	getFn            func(ctx context.Context, id string) (fragment.Fragment, error)
	deleteFn         func(ctx context.Context, id string) error
	deleteBySourceFn func(ctx context.Context, source string) (int, error)
	statsFn          func(ctx context.Context) (fragment.Stats, error)
	clearFn          func(ctx context.Context) (int, error)
}

func (m *mockIngestService) Upsert(ctx context.Context, item ingest.Item) (ingest.UpsertResult, error) {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, item)
	}
	return ingest.UpsertResult{ID: item.ID, Created: true}, nil
}

func (m *mockIngestService) UpsertBatch(ctx context.Context, items []ingest.Item) (ingest.BatchResult, error) {
	if m.upsertBatchFn != nil {
		return m.upsertBatchFn(ctx, items)
	}
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ingest.BatchResult{IDs: ids}, nil
}

func (m *mockIngestService) Get(ctx context.Context, id string) (fragment.Fragment, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return fragment.Fragment{}, domain.ErrFragmentNotFound
}

func (m *mockIngestService) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockIngestService) DeleteBySource(ctx context.Context, source string) (int, error) {
	if m.deleteBySourceFn != nil {
		return m.deleteBySourceFn(ctx, source)
	}
	return 0, nil
}

func (m *mockIngestService) Stats(ctx context.Context) (fragment.Stats, error) {
	if m.statsFn != nil {
		return m.statsFn(ctx)
	}
	return fragment.Stats{}, nil
}

func (m *mockIngestService) Clear(ctx context.Context) (int, error) {
	if m.clearFn != nil {
		return m.clearFn(ctx)
	}
	return 0, nil
}

type mockHealthService struct {
	checkFn func(ctx context.Context) healthuc.Report
}

func (m *mockHealthService) Check(ctx context.Context) healthuc.Report {
	if m.checkFn != nil {
		return m.checkFn(ctx)
	}
	return healthuc.Report{
		Status: healthuc.Healthy,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
	}
}

type testServer struct {
	srv    *Server
	search *mockSearchService
	ingest *mockIngestService
	health *mockHealthService
	router http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	search := &mockSearchService{}
	ing := &mockIngestService{}
	health := &mockHealthService{}
	srv := NewServer(search, ing, health, zap.NewNop())
	return &testServer{
		srv:    srv,
		search: search,
		ingest: ing,
		health: health,
		router: srv.Router(nil),
	}
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, http.NoBody)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, r)
	return rr
}

func sampleResponse() result.Response {
	c1 := candidate.New("frag-1", "beach guide", "bali.md",
		map[string]string{"destination": "Bali"}, 0.9)
	c2 := candidate.New("frag-2", "city guide", "rome.md", nil, 0.7)
	return result.NewResponse([]result.Scored{
		result.NewScored(c1, 0.85),
		result.NewScored(c2, 0.42),
	}, 30*time.Millisecond)
}
