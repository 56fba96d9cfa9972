package fragment

import (
	"fmt"
	"regexp"

	"github.com/voyatic/tripdex/internal/domain"
	"github.com/voyatic/tripdex/internal/domain/constraint"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxBodySize is the maximum fragment body size in bytes.
const MaxBodySize = 65536 // 64KB

// Fragment is an indexed piece of a travel document (immutable value object).
// Attributes use the constraint vocabulary; unknown attribute names are
// rejected at construction so the index schema stays closed.
type Fragment struct {
	id         string
	body       string
	source     string
	attributes map[string]string
	vector     []float32
}

// New validates and creates a Fragment. Attribute values are normalized
// per field (title-case destination, lower-case the rest). Validation
// failures wrap domain.ErrInvalidFragment.
func New(id, body, source string, attributes map[string]string) (Fragment, error) {
	if id == "" {
		return Fragment{}, fmt.Errorf("fragment ID is required: %w", domain.ErrInvalidFragment)
	}
	if len(id) > 256 {
		return Fragment{}, fmt.Errorf("fragment ID too long (max 256): %w", domain.ErrInvalidFragment)
	}
	if !idRegex.MatchString(id) {
		return Fragment{}, fmt.Errorf("fragment ID must be alphanumeric with underscores and hyphens: %w", domain.ErrInvalidFragment)
	}
	if body == "" {
		return Fragment{}, fmt.Errorf("body is required: %w", domain.ErrInvalidFragment)
	}
	if len(body) > MaxBodySize {
		return Fragment{}, fmt.Errorf("body too large (max %d bytes): %w", MaxBodySize, domain.ErrInvalidFragment)
	}
	if source == "" {
		return Fragment{}, fmt.Errorf("source is required: %w", domain.ErrInvalidFragment)
	}

	norm := make(map[string]string, len(attributes))
	for name, value := range attributes {
		f, ok := constraint.FieldByName(name)
		if !ok {
			return Fragment{}, fmt.Errorf("unknown attribute %q: %w", name, domain.ErrInvalidFragment)
		}
		if v := constraint.Normalize(f, value); v != "" {
			norm[f.Name()] = v
		}
	}

	return Fragment{id: id, body: body, source: source, attributes: norm}, nil
}

// Reconstruct creates a Fragment without validation (storage hydration).
func Reconstruct(id, body, source string, attributes map[string]string, vector []float32) Fragment {
	if attributes == nil {
		attributes = map[string]string{}
	}
	return Fragment{id: id, body: body, source: source, attributes: attributes, vector: vector}
}

// ID returns the fragment identifier.
func (f *Fragment) ID() string { return f.id }

// Body returns the fragment text.
func (f *Fragment) Body() string { return f.body }

// Source returns the originating document name.
func (f *Fragment) Source() string { return f.source }

// Attributes returns the normalized attribute map.
func (f *Fragment) Attributes() map[string]string { return f.attributes }

// Vector returns the embedding vector.
func (f *Fragment) Vector() []float32 { return f.vector }

// WithVector returns a copy with the given vector set.
func (f *Fragment) WithVector(v []float32) Fragment {
	return Fragment{id: f.id, body: f.body, source: f.source, attributes: f.attributes, vector: v}
}
