package search

import (
	"math"
	"strconv"
	"strings"

	"github.com/voyatic/tripdex/internal/domain/constraint"
	"github.com/voyatic/tripdex/internal/domain/search/candidate"
)

// penaltyFunc computes the fractional score loss in [0,1] for one
// constraint against a candidate. Penalty functions never fail: a missing
// or unparsable candidate value degrades to a full mismatch.
type penaltyFunc func(c constraint.Constraint, cand *candidate.Candidate) float64

var penaltyRegistry = map[constraint.Field]penaltyFunc{
	constraint.FieldDurationDays:   durationPenalty,
	constraint.FieldPriceRange:     pricePenalty,
	constraint.FieldPriceMax:       pricePenalty,
	constraint.FieldTravelMonth:    monthPenalty,
	constraint.FieldFamilyFriendly: boolPenalty,
	constraint.FieldAmenities:      amenitiesPenalty,
}

// penaltyFor dispatches to the field's penalty function. Fields without a
// dedicated rule use plain categorical matching at the field's weight.
func penaltyFor(c constraint.Constraint, cand *candidate.Candidate) float64 {
	if fn, ok := penaltyRegistry[c.Field()]; ok {
		return fn(c, cand)
	}
	return categoricalPenalty(c, cand)
}

// durationPenalty discounts by how many days the candidate misses the
// requested trip length.
func durationPenalty(c constraint.Constraint, cand *candidate.Candidate) float64 {
	w := c.Field().Weight()
	raw, ok := cand.Attribute(c.Field().Name())
	if !ok {
		return w
	}
	got, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return w
	}
	diff := math.Abs(c.Number() - got)
	switch {
	case diff == 0:
		return 0
	case diff <= 1:
		return w * 0.2
	case diff <= 2:
		return w * 0.5
	default:
		return w
	}
}

// pricePenalty compares representative numeric prices. Price range labels
// map to band values (budget=150, moderate=350, expensive=600,
// luxury=1000); price_max carries its own number. The relative difference
// is taken against the query price.
func pricePenalty(c constraint.Constraint, cand *candidate.Candidate) float64 {
	w := c.Field().Weight()

	var queryPrice float64
	if c.Field() == constraint.FieldPriceMax {
		queryPrice = c.Number()
	} else {
		queryPrice, _ = constraint.PriceBand(c.Value())
	}

	raw, ok := cand.Attribute(c.Field().Name())
	if !ok && c.Field() == constraint.FieldPriceMax {
		// Fragments carry a price band rather than an exact price.
		raw, ok = cand.Attribute(constraint.FieldPriceRange.Name())
	}
	if !ok {
		return w
	}
	candPrice, ok := priceValue(raw)
	if !ok {
		return w
	}

	if queryPrice == candPrice {
		return 0
	}
	rel := math.Abs(queryPrice-candPrice) / queryPrice
	switch {
	case rel <= 0.10:
		return w * 0.2
	case rel <= 0.25:
		return w * 0.5
	default:
		return w
	}
}

func priceValue(raw string) (float64, bool) {
	if v, ok := constraint.PriceBand(raw); ok {
		return v, true
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// monthPenalty scores calendar proximity on a linear 1..12 scale.
// December vs January is a full mismatch on purpose: the distance is
// intentionally not circular, pending product confirmation.
func monthPenalty(c constraint.Constraint, cand *candidate.Candidate) float64 {
	w := c.Field().Weight()
	want, _ := constraint.MonthNumber(c.Value())
	raw, ok := cand.Attribute(c.Field().Name())
	if !ok {
		return w
	}
	got, ok := constraint.MonthNumber(raw)
	if !ok {
		return w
	}
	switch dist := int(math.Abs(float64(want - got))); dist {
	case 0:
		return 0
	case 1:
		return w * 0.3
	case 2:
		return w * 0.6
	default:
		return w
	}
}

func boolPenalty(c constraint.Constraint, cand *candidate.Candidate) float64 {
	w := c.Field().Weight()
	raw, ok := cand.Attribute(c.Field().Name())
	if !ok {
		return w
	}
	got, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return w
	}
	if got == c.Bool() {
		return 0
	}
	return w
}

// amenitiesPenalty requires every requested amenity to be present in the
// candidate's comma-separated amenity list.
func amenitiesPenalty(c constraint.Constraint, cand *candidate.Candidate) float64 {
	w := c.Field().Weight()
	raw, ok := cand.Attribute(c.Field().Name())
	if !ok {
		return w
	}
	have := make(map[string]bool)
	for _, a := range strings.Split(raw, ",") {
		if a = strings.ToLower(strings.TrimSpace(a)); a != "" {
			have[a] = true
		}
	}
	for _, want := range c.List() {
		if !have[want] {
			return w
		}
	}
	return 0
}

func categoricalPenalty(c constraint.Constraint, cand *candidate.Candidate) float64 {
	w := c.Field().Weight()
	raw, ok := cand.Attribute(c.Field().Name())
	if !ok {
		return w
	}
	if strings.EqualFold(strings.TrimSpace(raw), c.Value()) {
		return 0
	}
	return w
}
