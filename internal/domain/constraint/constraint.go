// Package constraint defines the fixed vocabulary of structured travel
// constraints a query may carry and the per-field penalty weights used by
// the soft-scoring engine.
package constraint

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Field identifies one attribute from the constraint vocabulary.
type Field int

const (
	FieldUnknown Field = iota
	FieldDestination
	FieldCategory
	FieldPriceRange
	FieldPriceMax
	FieldTravelMonth
	FieldSeason
	FieldDurationDays
	FieldFamilyFriendly
	FieldTransportType
	FieldAmenities
	FieldSubcategory
)

var fieldNames = map[Field]string{
	FieldDestination:    "destination",
	FieldCategory:       "category",
	FieldPriceRange:     "price_range",
	FieldPriceMax:       "price_max",
	FieldTravelMonth:    "travel_month",
	FieldSeason:         "season",
	FieldDurationDays:   "duration_days",
	FieldFamilyFriendly: "family_friendly",
	FieldTransportType:  "transport_type",
	FieldAmenities:      "amenities",
	FieldSubcategory:    "subcategory",
}

var fieldsByName = func() map[string]Field {
	m := make(map[string]Field, len(fieldNames))
	for f, n := range fieldNames {
		m[n] = f
	}
	return m
}()

// Name returns the canonical attribute name ("price_range" etc.).
func (f Field) Name() string { return fieldNames[f] }

// FieldByName resolves a canonical attribute name.
// Unknown names return (FieldUnknown, false) so callers can ignore them.
func FieldByName(name string) (Field, bool) {
	f, ok := fieldsByName[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// DefaultWeight applies to any field without an explicit weight entry.
const DefaultWeight = 0.1

var weights = map[Field]float64{
	FieldPriceRange:     0.9,
	FieldTravelMonth:    0.8,
	FieldDurationDays:   0.6,
	FieldCategory:       0.5,
	FieldFamilyFriendly: 0.3,
	FieldTransportType:  0.2,
}

// Weight returns the maximum fractional score loss for a full mismatch
// on this field.
func (f Field) Weight() float64 {
	if w, ok := weights[f]; ok {
		return w
	}
	return DefaultWeight
}

// HardFilterPrecedence lists the fields eligible to become the single
// equality pre-filter pushed into the candidate store, highest priority
// first. Destination and time-window constraints are near-mandatory;
// price/category mismatches are tolerable and stay in soft scoring.
var HardFilterPrecedence = []Field{
	FieldDestination,
	FieldTravelMonth,
	FieldSeason,
	FieldCategory,
	FieldPriceRange,
	FieldSubcategory,
}

// HardFilter is a single equality predicate applied before vector search.
// The value is already normalized.
type HardFilter struct {
	Field Field
	Value string
}

var titler = cases.Title(language.Und)

// Normalize canonicalizes a string value for the given field: destination
// is title-cased, everything else is lower-cased. Surrounding whitespace
// is trimmed.
func Normalize(f Field, value string) string {
	value = strings.TrimSpace(value)
	if f == FieldDestination {
		return titler.String(strings.ToLower(value))
	}
	return strings.ToLower(value)
}

var monthNumbers = map[string]int{
	"january":   1,
	"february":  2,
	"march":     3,
	"april":     4,
	"may":       5,
	"june":      6,
	"july":      7,
	"august":    8,
	"september": 9,
	"october":   10,
	"november":  11,
	"december":  12,
}

// MonthNumber maps an English month name to its 1..12 ordinal.
func MonthNumber(name string) (int, bool) {
	n, ok := monthNumbers[strings.ToLower(strings.TrimSpace(name))]
	return n, ok
}

var priceBands = map[string]float64{
	"budget":    150,
	"moderate":  350,
	"expensive": 600,
	"luxury":    1000,
}

// PriceBand maps a price range label to its representative numeric value.
func PriceBand(label string) (float64, bool) {
	v, ok := priceBands[strings.ToLower(strings.TrimSpace(label))]
	return v, ok
}

// Constraint is a tagged variant: exactly one value slot is meaningful,
// determined by the field kind.
type Constraint struct {
	field Field
	str   string
	num   float64
	flag  bool
	list  []string
}

// NewString creates a string-valued constraint after normalization.
// Empty values (after trimming) are rejected so presence checks stay simple.
func NewString(f Field, value string) (Constraint, error) {
	switch f {
	case FieldDestination, FieldCategory, FieldPriceRange, FieldTravelMonth,
		FieldSeason, FieldTransportType, FieldSubcategory:
	default:
		return Constraint{}, fmt.Errorf("field %q does not take a string value", f.Name())
	}
	norm := Normalize(f, value)
	if norm == "" {
		return Constraint{}, fmt.Errorf("empty value for field %q", f.Name())
	}
	if f == FieldTravelMonth {
		if _, ok := MonthNumber(norm); !ok {
			return Constraint{}, fmt.Errorf("unknown month %q", value)
		}
	}
	if f == FieldPriceRange {
		if _, ok := PriceBand(norm); !ok {
			return Constraint{}, fmt.Errorf("unknown price range %q", value)
		}
	}
	return Constraint{field: f, str: norm}, nil
}

// NewNumber creates a numeric constraint (price_max, duration_days).
func NewNumber(f Field, value float64) (Constraint, error) {
	switch f {
	case FieldPriceMax, FieldDurationDays:
	default:
		return Constraint{}, fmt.Errorf("field %q does not take a numeric value", f.Name())
	}
	if value <= 0 {
		return Constraint{}, fmt.Errorf("non-positive value for field %q", f.Name())
	}
	return Constraint{field: f, num: value}, nil
}

// NewBool creates a boolean constraint (family_friendly).
func NewBool(f Field, value bool) (Constraint, error) {
	if f != FieldFamilyFriendly {
		return Constraint{}, fmt.Errorf("field %q does not take a boolean value", f.Name())
	}
	return Constraint{field: f, flag: value}, nil
}

// NewList creates a list-valued constraint (amenities). Entries are
// lower-cased; empty entries are dropped; an all-empty list is rejected.
func NewList(f Field, values []string) (Constraint, error) {
	if f != FieldAmenities {
		return Constraint{}, fmt.Errorf("field %q does not take a list value", f.Name())
	}
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if norm := Normalize(f, v); norm != "" {
			kept = append(kept, norm)
		}
	}
	if len(kept) == 0 {
		return Constraint{}, fmt.Errorf("empty value for field %q", f.Name())
	}
	return Constraint{field: f, list: kept}, nil
}

// Field returns the constraint's field kind.
func (c Constraint) Field() Field { return c.field }

// Value returns the normalized string value (string-valued fields only).
func (c Constraint) Value() string { return c.str }

// Number returns the numeric value (price_max, duration_days).
func (c Constraint) Number() float64 { return c.num }

// Bool returns the boolean value (family_friendly).
func (c Constraint) Bool() bool { return c.flag }

// List returns the normalized list value (amenities).
func (c Constraint) List() []string { return c.list }

// FilterValue returns the value to push into the candidate store when this
// constraint is selected as the hard filter.
func (c Constraint) FilterValue() string { return c.str }

// Set is an immutable collection of constraints, at most one per field.
type Set struct {
	items map[Field]Constraint
	order []Field
}

// NewSet builds a set from constraints. A later constraint on the same
// field replaces the earlier one without changing its position.
func NewSet(cs ...Constraint) Set {
	s := Set{items: make(map[Field]Constraint, len(cs))}
	for _, c := range cs {
		if c.field == FieldUnknown {
			continue
		}
		if _, seen := s.items[c.field]; !seen {
			s.order = append(s.order, c.field)
		}
		s.items[c.field] = c
	}
	return s
}

// Get returns the constraint for a field, if present.
func (s Set) Get(f Field) (Constraint, bool) {
	c, ok := s.items[f]
	return c, ok
}

// Fields returns the constrained fields in insertion order.
func (s Set) Fields() []Field {
	out := make([]Field, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of constraints in the set.
func (s Set) Len() int { return len(s.items) }

// Empty reports whether the set holds no constraints.
func (s Set) Empty() bool { return len(s.items) == 0 }
