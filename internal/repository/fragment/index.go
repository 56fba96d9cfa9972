package fragment

import (
	"context"
	"errors"
	"fmt"

	"github.com/voyatic/tripdex/internal/db"
	"github.com/voyatic/tripdex/internal/domain/constraint"
)

// HNSWConfig HNSW index parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// indexStore is the consumer interface for index management (ISP).
type indexStore interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// EnsureIndex creates the fragment FT index if it does not exist yet.
// Creation racing another instance is fine; ErrIndexExists is ignored.
func EnsureIndex(ctx context.Context, s indexStore, vectorDim int, hnsw HNSWConfig) error {
	exists, err := s.IndexExists(ctx, indexName())
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		return nil
	}

	if err := s.CreateIndex(ctx, buildIndex(vectorDim, hnsw)); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// buildIndex defines the fragment index schema: one TAG field per
// categorical constraint, NUMERIC fields for the numeric ones, a TAG for
// the source file and the HNSW vector field. Amenities is a
// comma-separated tag list.
func buildIndex(vectorDim int, hnsw HNSWConfig) *db.IndexDefinition {
	tagFields := []constraint.Field{
		constraint.FieldDestination,
		constraint.FieldCategory,
		constraint.FieldSubcategory,
		constraint.FieldPriceRange,
		constraint.FieldSeason,
		constraint.FieldTravelMonth,
		constraint.FieldTransportType,
		constraint.FieldFamilyFriendly,
	}

	b := db.NewIndex(indexName()).Prefix(keyPrefix())
	for _, f := range tagFields {
		b.Tag(f.Name())
	}
	return b.
		TagWithOpts(constraint.FieldAmenities.Name(), ",", false).
		Numeric(constraint.FieldDurationDays.Name()).
		Tag("__source").
		VectorHNSW("__vector", vectorDim, db.DistanceCosine, hnsw.M, hnsw.EFConstruct).As("vector").
		MustBuild()
}
