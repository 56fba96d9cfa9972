package ingest

import (
	"context"

	"github.com/voyatic/tripdex/internal/domain"
	"github.com/voyatic/tripdex/internal/domain/fragment"
)

// FragmentStore defines the storage contract for fragments.
type FragmentStore interface {
	Upsert(ctx context.Context, frag *fragment.Fragment) (created bool, err error)
	UpsertBatch(ctx context.Context, frags []fragment.Fragment) error
	Get(ctx context.Context, id string) (fragment.Fragment, error)
	Delete(ctx context.Context, id string) error
	DeleteBySource(ctx context.Context, source string) (deleted int, err error)
	Stats(ctx context.Context) (fragment.Stats, error)
	Clear(ctx context.Context) (deleted int, err error)
}

// Embedder vectorizes fragment bodies, singly and in batches.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}
