package constraint

import (
	"reflect"
	"testing"
)

func TestFieldByName(t *testing.T) {
	tests := []struct {
		name  string
		want  Field
		found bool
	}{
		{"destination", FieldDestination, true},
		{" Travel_Month ", FieldTravelMonth, true},
		{"price_range", FieldPriceRange, true},
		{"page_number", FieldUnknown, false},
		{"", FieldUnknown, false},
	}
	for _, tt := range tests {
		got, ok := FieldByName(tt.name)
		if got != tt.want || ok != tt.found {
			t.Errorf("FieldByName(%q) = (%v, %v), want (%v, %v)", tt.name, got, ok, tt.want, tt.found)
		}
	}
}

func TestFieldWeight(t *testing.T) {
	tests := []struct {
		field Field
		want  float64
	}{
		{FieldPriceRange, 0.9},
		{FieldTravelMonth, 0.8},
		{FieldDurationDays, 0.6},
		{FieldCategory, 0.5},
		{FieldFamilyFriendly, 0.3},
		{FieldTransportType, 0.2},
		{FieldSeason, DefaultWeight},
		{FieldDestination, DefaultWeight},
		{FieldPriceMax, DefaultWeight},
		{FieldAmenities, DefaultWeight},
	}
	for _, tt := range tests {
		if got := tt.field.Weight(); got != tt.want {
			t.Errorf("%s weight = %v, want %v", tt.field.Name(), got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(FieldDestination, "  rome "); got != "Rome" {
		t.Errorf("destination normalize = %q, want %q", got, "Rome")
	}
	if got := Normalize(FieldDestination, "new york"); got != "New York" {
		t.Errorf("destination normalize = %q, want %q", got, "New York")
	}
	if got := Normalize(FieldCategory, " Beach "); got != "beach" {
		t.Errorf("category normalize = %q, want %q", got, "beach")
	}
}

func TestMonthNumber(t *testing.T) {
	if n, ok := MonthNumber("August"); !ok || n != 8 {
		t.Errorf("MonthNumber(August) = (%d, %v)", n, ok)
	}
	if n, ok := MonthNumber("december"); !ok || n != 12 {
		t.Errorf("MonthNumber(december) = (%d, %v)", n, ok)
	}
	if _, ok := MonthNumber("smarch"); ok {
		t.Error("MonthNumber(smarch) should not resolve")
	}
}

func TestPriceBand(t *testing.T) {
	tests := []struct {
		label string
		want  float64
	}{
		{"budget", 150},
		{"moderate", 350},
		{"expensive", 600},
		{"Luxury", 1000},
	}
	for _, tt := range tests {
		got, ok := PriceBand(tt.label)
		if !ok || got != tt.want {
			t.Errorf("PriceBand(%q) = (%v, %v), want %v", tt.label, got, ok, tt.want)
		}
	}
	if _, ok := PriceBand("free"); ok {
		t.Error("PriceBand(free) should not resolve")
	}
}

func TestNewString(t *testing.T) {
	t.Run("normalizes value", func(t *testing.T) {
		c, err := NewString(FieldDestination, "  lisbon ")
		if err != nil {
			t.Fatalf("NewString: %v", err)
		}
		if c.Value() != "Lisbon" {
			t.Errorf("value = %q, want %q", c.Value(), "Lisbon")
		}
	})

	t.Run("rejects empty", func(t *testing.T) {
		if _, err := NewString(FieldCategory, "   "); err == nil {
			t.Error("expected error for blank value")
		}
	})

	t.Run("rejects unknown month", func(t *testing.T) {
		if _, err := NewString(FieldTravelMonth, "octember"); err == nil {
			t.Error("expected error for invalid month")
		}
	})

	t.Run("rejects numeric field", func(t *testing.T) {
		if _, err := NewString(FieldDurationDays, "5"); err == nil {
			t.Error("expected error for wrong value kind")
		}
	})
}

func TestNewNumber(t *testing.T) {
	c, err := NewNumber(FieldDurationDays, 5)
	if err != nil {
		t.Fatalf("NewNumber: %v", err)
	}
	if c.Number() != 5 {
		t.Errorf("number = %v, want 5", c.Number())
	}
	if _, err := NewNumber(FieldPriceMax, 0); err == nil {
		t.Error("expected error for non-positive value")
	}
	if _, err := NewNumber(FieldDestination, 1); err == nil {
		t.Error("expected error for wrong value kind")
	}
}

func TestNewList(t *testing.T) {
	c, err := NewList(FieldAmenities, []string{" Pool ", "WiFi", ""})
	if err != nil {
		t.Fatalf("NewList: %v", err)
	}
	if want := []string{"pool", "wifi"}; !reflect.DeepEqual(c.List(), want) {
		t.Errorf("list = %v, want %v", c.List(), want)
	}
	if _, err := NewList(FieldAmenities, []string{"", " "}); err == nil {
		t.Error("expected error for all-empty list")
	}
}

func TestSet(t *testing.T) {
	dest, _ := NewString(FieldDestination, "rome")
	cat, _ := NewString(FieldCategory, "food")
	cat2, _ := NewString(FieldCategory, "beach")

	s := NewSet(dest, cat, cat2)
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}

	got, ok := s.Get(FieldCategory)
	if !ok || got.Value() != "beach" {
		t.Errorf("Get(category) = (%q, %v), want later value to win", got.Value(), ok)
	}

	if want := []Field{FieldDestination, FieldCategory}; !reflect.DeepEqual(s.Fields(), want) {
		t.Errorf("fields = %v, want %v", s.Fields(), want)
	}

	if !NewSet().Empty() {
		t.Error("empty set should report Empty")
	}
}
