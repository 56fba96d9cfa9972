// Package chi exposes the HTTP API: search, fragment ingestion, corpus
// maintenance, health and metrics.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/voyatic/tripdex/internal/domain"
	"github.com/voyatic/tripdex/internal/domain/fragment"
	"github.com/voyatic/tripdex/internal/domain/search/query"
	"github.com/voyatic/tripdex/internal/domain/search/result"
	"github.com/voyatic/tripdex/internal/metrics"
	healthuc "github.com/voyatic/tripdex/internal/usecase/health"
	"github.com/voyatic/tripdex/internal/usecase/ingest"
)

// SearchService runs the retrieval ranking pipeline.
type SearchService interface {
	Search(ctx context.Context, q *query.Query) (result.Response, error)
}

// IngestService manages the fragment corpus.
type IngestService interface {
	Upsert(ctx context.Context, item ingest.Item) (ingest.UpsertResult, error)
	UpsertBatch(ctx context.Context, items []ingest.Item) (ingest.BatchResult, error)
	Get(ctx context.Context, id string) (fragment.Fragment, error)
	Delete(ctx context.Context, id string) error
	DeleteBySource(ctx context.Context, source string) (int, error)
	Stats(ctx context.Context) (fragment.Stats, error)
	Clear(ctx context.Context) (int, error)
}

// HealthService reports component availability.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers.
type Server struct {
	search        SearchService
	ingest        IngestService
	health        HealthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search SearchService, ingest IngestService, health HealthService, logger *zap.Logger) *Server {
	s := &Server{
		search: search,
		ingest: ingest,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidFragment, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, codeVectorDimMismatch),
		sentinelHandler(domain.ErrFragmentNotFound, http.StatusNotFound, codeFragmentNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeEmbeddingProviderError),
	}
	return s
}

// Router assembles the middleware stack and route table.
func (s *Server) Router(apiKeys []string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chimw.RequestID)
	r.Use(RequestLogger(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.Search)
		r.Route("/fragments", func(r chi.Router) {
			r.Post("/batch", s.BatchUpsert)
			r.Delete("/", s.Clear)
			r.Get("/{id}", s.GetFragment)
			r.Put("/{id}", s.UpsertFragment)
			r.Delete("/{id}", s.DeleteFragment)
		})
		r.Delete("/sources/{source}", s.DeleteSource)
		r.Get("/stats", s.Stats)
	})
	return r
}

// Search handles POST /api/v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	cs, err := constraintsFromRequest(req.Constraints)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	// Absent threshold selects the domain default; an explicit zero is kept.
	threshold := query.ThresholdUnset
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	q, err := query.New(req.Query, cs, req.Limit, threshold)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	resp, err := s.search.Search(r.Context(), &q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponseFromResult(&resp))
}

// UpsertFragment handles PUT /api/v1/fragments/{id}.
func (s *Server) UpsertFragment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req upsertFragmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := s.ingest.Upsert(r.Context(), ingest.Item{
		ID:         id,
		Body:       req.Body,
		Source:     req.Source,
		Attributes: req.Attributes,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
		w.Header().Set("Location", fmt.Sprintf("/api/v1/fragments/%s", res.ID))
	}
	writeJSON(w, status, upsertFragmentResponse{ID: res.ID, Created: res.Created})
}

// BatchUpsert handles POST /api/v1/fragments/batch.
func (s *Server) BatchUpsert(w http.ResponseWriter, r *http.Request) {
	var req batchUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if len(req.Fragments) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "fragments list is empty")
		return
	}

	res, err := s.ingest.UpsertBatch(r.Context(), ingestItemsFromBatch(req))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, batchUpsertResponse{
		IDs:         res.IDs,
		Count:       len(res.IDs),
		TotalTokens: res.TotalTokens,
	})
}

// GetFragment handles GET /api/v1/fragments/{id}.
func (s *Server) GetFragment(w http.ResponseWriter, r *http.Request) {
	frag, err := s.ingest.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fragmentResponseFromDomain(&frag))
}

// DeleteFragment handles DELETE /api/v1/fragments/{id}.
func (s *Server) DeleteFragment(w http.ResponseWriter, r *http.Request) {
	if err := s.ingest.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSource handles DELETE /api/v1/sources/{source}.
func (s *Server) DeleteSource(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")
	if unescaped, err := url.PathUnescape(source); err == nil {
		source = unescaped
	}

	n, err := s.ingest.DeleteBySource(r.Context(), source)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteCountResponse{Deleted: n})
}

// Clear handles DELETE /api/v1/fragments.
func (s *Server) Clear(w http.ResponseWriter, r *http.Request) {
	n, err := s.ingest.Clear(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteCountResponse{Deleted: n})
}

// Stats handles GET /api/v1/stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.ingest.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponseFromDomain(stats))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrInvalidFragment,
		domain.ErrFragmentNotFound,
		domain.ErrVectorDimMismatch,
		domain.ErrRateLimited,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
