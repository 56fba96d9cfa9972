package chi

import (
	"encoding/json"
	"fmt"

	"github.com/voyatic/tripdex/internal/domain"
	"github.com/voyatic/tripdex/internal/domain/constraint"
	"github.com/voyatic/tripdex/internal/domain/fragment"
	"github.com/voyatic/tripdex/internal/domain/search/result"
	"github.com/voyatic/tripdex/internal/usecase/ingest"
)

type errorCode string

const (
	codeBadRequest             errorCode = "bad_request"
	codeValidationFailed       errorCode = "validation_failed"
	codeUnauthorized           errorCode = "unauthorized"
	codeFragmentNotFound       errorCode = "fragment_not_found"
	codeVectorDimMismatch      errorCode = "vector_dim_mismatch"
	codeRateLimited            errorCode = "rate_limited"
	codeEmbeddingProviderError errorCode = "embedding_provider_error"
	codeInternalError          errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type searchRequest struct {
	Query       string                     `json:"query"`
	Constraints map[string]json.RawMessage `json:"constraints"`
	Limit       int                        `json:"limit"`
	Threshold   *float64                   `json:"threshold"`
}

type searchResultItem struct {
	ID         string            `json:"id"`
	Body       string            `json:"body"`
	Source     string            `json:"source"`
	Score      float64           `json:"score"`
	Similarity float64           `json:"similarity"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type searchResponse struct {
	Results        []searchResultItem `json:"results"`
	TotalResults   int                `json:"total_results"`
	ProcessingTime float64            `json:"processing_time"`
}

type upsertFragmentRequest struct {
	Body       string            `json:"body"`
	Source     string            `json:"source"`
	Attributes map[string]string `json:"attributes"`
}

type upsertFragmentResponse struct {
	ID      string `json:"id"`
	Created bool   `json:"created"`
}

type fragmentResponse struct {
	ID         string            `json:"id"`
	Body       string            `json:"body"`
	Source     string            `json:"source"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type batchUpsertItem struct {
	ID         string            `json:"id"`
	Body       string            `json:"body"`
	Source     string            `json:"source"`
	Attributes map[string]string `json:"attributes"`
}

type batchUpsertRequest struct {
	Fragments []batchUpsertItem `json:"fragments"`
}

type batchUpsertResponse struct {
	IDs         []string `json:"ids"`
	Count       int      `json:"count"`
	TotalTokens int      `json:"total_tokens"`
}

type deleteCountResponse struct {
	Deleted int `json:"deleted"`
}

type statsResponse struct {
	TotalFragments int      `json:"total_fragments"`
	Categories     []string `json:"categories"`
	Destinations   []string `json:"destinations"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// constraintsFromRequest decodes the typed constraint payload. Unknown
// attribute names are skipped so clients can send extra fields freely; a
// known field with a wrong value type or an invalid value is a client error.
func constraintsFromRequest(raw map[string]json.RawMessage) (constraint.Set, error) {
	cs := make([]constraint.Constraint, 0, len(raw))
	for name, payload := range raw {
		f, ok := constraint.FieldByName(name)
		if !ok {
			continue
		}

		c, err := constraintFromJSON(f, payload)
		if err != nil {
			return constraint.Set{}, fmt.Errorf("constraint %q: %w: %w", name, err, domain.ErrInvalidQuery)
		}
		cs = append(cs, c)
	}
	return constraint.NewSet(cs...), nil
}

func constraintFromJSON(f constraint.Field, payload json.RawMessage) (constraint.Constraint, error) {
	switch f {
	case constraint.FieldPriceMax, constraint.FieldDurationDays:
		var v float64
		if err := json.Unmarshal(payload, &v); err != nil {
			return constraint.Constraint{}, fmt.Errorf("expected a number")
		}
		return constraint.NewNumber(f, v)
	case constraint.FieldFamilyFriendly:
		var v bool
		if err := json.Unmarshal(payload, &v); err != nil {
			return constraint.Constraint{}, fmt.Errorf("expected a boolean")
		}
		return constraint.NewBool(f, v)
	case constraint.FieldAmenities:
		var v []string
		if err := json.Unmarshal(payload, &v); err != nil {
			return constraint.Constraint{}, fmt.Errorf("expected a list of strings")
		}
		return constraint.NewList(f, v)
	default:
		var v string
		if err := json.Unmarshal(payload, &v); err != nil {
			return constraint.Constraint{}, fmt.Errorf("expected a string")
		}
		return constraint.NewString(f, v)
	}
}

func searchResponseFromResult(resp *result.Response) searchResponse {
	items := make([]searchResultItem, resp.Total())
	for i, scored := range resp.Results() {
		c := scored.Candidate()
		items[i] = searchResultItem{
			ID:         c.ID(),
			Body:       c.Body(),
			Source:     c.Source(),
			Score:      scored.Score(),
			Similarity: c.Similarity(),
			Attributes: c.Attributes(),
		}
	}
	return searchResponse{
		Results:        items,
		TotalResults:   resp.Total(),
		ProcessingTime: resp.Elapsed().Seconds(),
	}
}

func statsResponseFromDomain(stats fragment.Stats) statsResponse {
	resp := statsResponse{
		TotalFragments: stats.TotalFragments,
		Categories:     stats.Categories,
		Destinations:   stats.Destinations,
	}
	if resp.Categories == nil {
		resp.Categories = []string{}
	}
	if resp.Destinations == nil {
		resp.Destinations = []string{}
	}
	return resp
}

func fragmentResponseFromDomain(frag *fragment.Fragment) fragmentResponse {
	attrs := frag.Attributes()
	if len(attrs) == 0 {
		attrs = nil
	}
	return fragmentResponse{
		ID:         frag.ID(),
		Body:       frag.Body(),
		Source:     frag.Source(),
		Attributes: attrs,
	}
}

func ingestItemsFromBatch(req batchUpsertRequest) []ingest.Item {
	items := make([]ingest.Item, len(req.Fragments))
	for i, f := range req.Fragments {
		items[i] = ingest.Item{
			ID:         f.ID,
			Body:       f.Body,
			Source:     f.Source,
			Attributes: f.Attributes,
		}
	}
	return items
}
