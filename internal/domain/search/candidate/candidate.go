// Package candidate models a raw ANN hit before soft scoring.
package candidate

// Candidate is one fragment returned by the candidate store, carrying its
// stored attributes as raw strings. Attribute parsing is deferred to the
// scoring engine, where a bad value degrades to a mismatch instead of an
// error.
type Candidate struct {
	id         string
	body       string
	source     string
	attributes map[string]string
	similarity float64
}

// New creates a candidate. The attributes map is taken as-is; callers must
// not mutate it afterwards.
func New(id, body, source string, attributes map[string]string, similarity float64) Candidate {
	if attributes == nil {
		attributes = map[string]string{}
	}
	return Candidate{
		id:         id,
		body:       body,
		source:     source,
		attributes: attributes,
		similarity: similarity,
	}
}

// ID returns the fragment identifier.
func (c *Candidate) ID() string { return c.id }

// Body returns the fragment text.
func (c *Candidate) Body() string { return c.body }

// Source returns the originating document name.
func (c *Candidate) Source() string { return c.source }

// Attribute returns the raw stored value for an attribute name.
// The second return is false when the attribute is absent.
func (c *Candidate) Attribute(name string) (string, bool) {
	v, ok := c.attributes[name]
	return v, ok
}

// Attributes returns the full raw attribute map.
func (c *Candidate) Attributes() map[string]string { return c.attributes }

// Similarity returns the base similarity derived from vector distance.
func (c *Candidate) Similarity() float64 { return c.similarity }
