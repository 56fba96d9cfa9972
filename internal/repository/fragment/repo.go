package fragment

import (
	"context"
	"fmt"
	"sort"

	"github.com/voyatic/tripdex/internal/db"
	"github.com/voyatic/tripdex/internal/domain"
	domfrag "github.com/voyatic/tripdex/internal/domain/fragment"
)

// statsPageSize bounds one FT.SEARCH page when folding tag values.
const statsPageSize = 1000

// store is the consumer interface for fragment persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	DelMulti(ctx context.Context, keys []string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements usecase/ingest.FragmentStore.
type Repo struct {
	store store
}

// New creates a fragment repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Upsert stores a fragment as a flat hash. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, frag *domfrag.Fragment) (bool, error) {
	key := fragmentKey(frag.ID())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	if err := r.store.HSet(ctx, key, buildHashFields(frag)); err != nil {
		return false, fmt.Errorf("hset %s: %w", key, err)
	}

	return !exists, nil
}

// UpsertBatch stores multiple fragments in one round-trip.
func (r *Repo) UpsertBatch(ctx context.Context, frags []domfrag.Fragment) error {
	if len(frags) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(frags))
	for i := range frags {
		items[i] = db.HashSetItem{
			Key:    fragmentKey(frags[i].ID()),
			Fields: buildHashFields(&frags[i]),
		}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset multi: %w", err)
	}
	return nil
}

// Get returns a fragment by ID.
func (r *Repo) Get(ctx context.Context, id string) (domfrag.Fragment, error) {
	key := fragmentKey(id)

	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domfrag.Fragment{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	// HGETALL on a missing key returns an empty map, not an error.
	if len(m) == 0 {
		return domfrag.Fragment{}, domain.ErrFragmentNotFound
	}

	return parseHashFields(id, m), nil
}

// Delete removes a fragment by ID.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := fragmentKey(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrFragmentNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// DeleteBySource removes every fragment ingested from the given source
// file. Returns the number of fragments deleted.
func (r *Repo) DeleteBySource(ctx context.Context, source string) (int, error) {
	query := db.TagQuery("__source", source)

	total, err := r.store.SearchCount(ctx, indexName(), query)
	if err != nil {
		return 0, fmt.Errorf("count by source %q: %w", source, err)
	}
	if total == 0 {
		return 0, nil
	}

	sr, err := r.store.SearchList(ctx, indexName(), query, 0, total, []string{"__source"})
	if err != nil {
		return 0, fmt.Errorf("list by source %q: %w", source, err)
	}

	keys := make([]string, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		keys = append(keys, entry.Key)
	}

	if err := r.store.DelMulti(ctx, keys); err != nil {
		return 0, fmt.Errorf("delete by source %q: %w", source, err)
	}
	return len(keys), nil
}

// Stats folds the whole index into corpus statistics: total fragment
// count plus distinct category and destination values.
func (r *Repo) Stats(ctx context.Context) (domfrag.Stats, error) {
	total, err := r.store.SearchCount(ctx, indexName(), "*")
	if err != nil {
		return domfrag.Stats{}, fmt.Errorf("count fragments: %w", err)
	}

	stats := domfrag.Stats{TotalFragments: total}
	if total == 0 {
		return stats, nil
	}

	categories := make(map[string]struct{})
	destinations := make(map[string]struct{})

	for offset := 0; offset < total; offset += statsPageSize {
		sr, err := r.store.SearchList(
			ctx, indexName(), "*", offset, statsPageSize,
			[]string{"category", "destination"},
		)
		if err != nil {
			return domfrag.Stats{}, fmt.Errorf("list fragments: %w", err)
		}
		if len(sr.Entries) == 0 {
			break
		}
		for _, entry := range sr.Entries {
			if v := entry.Fields["category"]; v != "" {
				categories[v] = struct{}{}
			}
			if v := entry.Fields["destination"]; v != "" {
				destinations[v] = struct{}{}
			}
		}
	}

	stats.Categories = sortedKeys(categories)
	stats.Destinations = sortedKeys(destinations)
	return stats, nil
}

// Clear removes every fragment. Returns the number of keys deleted.
func (r *Repo) Clear(ctx context.Context) (int, error) {
	keys, err := r.store.Scan(ctx, keyPrefix()+"*")
	if err != nil {
		return 0, fmt.Errorf("scan fragments: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	if err := r.store.DelMulti(ctx, keys); err != nil {
		return 0, fmt.Errorf("clear fragments: %w", err)
	}
	return len(keys), nil
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func fragmentKey(id string) string {
	return keyPrefix() + id
}

func keyPrefix() string {
	return domain.KeyPrefix + "fragment:"
}

func indexName() string {
	return domain.KeyPrefix + "fragment:idx"
}
