package candidate

import (
	"context"
	"fmt"
	"strings"

	"github.com/voyatic/tripdex/internal/db"
	"github.com/voyatic/tripdex/internal/domain"
	"github.com/voyatic/tripdex/internal/domain/constraint"
	domcand "github.com/voyatic/tripdex/internal/domain/search/candidate"
)

// store is the consumer interface for candidate retrieval (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements usecase/search.CandidateStore on top of the vector index.
type Repo struct {
	store store
}

// New creates a candidate repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Query runs a KNN search and maps index entries to domain candidates.
// The optional hard filter becomes a TAG equality predicate evaluated by
// the index before the vector scan.
func (r *Repo) Query(
	ctx context.Context, vector []float32, k int, hard *constraint.HardFilter,
) ([]domcand.Candidate, error) {
	q := &db.KNNQuery{
		IndexName: indexName(),
		Vector:    vector,
		K:         k,
	}
	if hard != nil {
		q.Filter = &db.TagFilter{Field: hard.Field.Name(), Value: hard.Value}
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	return parseEntries(sr), nil
}

// parseEntries converts db.SearchResult entries into domain candidates.
func parseEntries(sr *db.SearchResult) []domcand.Candidate {
	if sr == nil || sr.Total == 0 {
		return nil
	}

	prefix := keyPrefix()
	out := make([]domcand.Candidate, 0, len(sr.Entries))

	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, prefix)

		var body, source string
		attrs := make(map[string]string)
		for k, v := range entry.Fields {
			switch k {
			case "__content":
				body = v
			case "__source":
				source = v
			case "__vector":
				// not returned to scoring
			default:
				attrs[k] = v
			}
		}

		out = append(out, domcand.New(id, body, source, attrs, similarity(entry.Distance)))
	}

	return out
}

// similarity converts a vector distance into a similarity in (0, 1],
// where distance 0 maps to 1.
func similarity(distance float64) float64 {
	return 1.0 / (1.0 + distance)
}

func indexName() string {
	return domain.KeyPrefix + "fragment:idx"
}

func keyPrefix() string {
	return domain.KeyPrefix + "fragment:"
}
