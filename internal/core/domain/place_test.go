package domain

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func f64(v float64) *float64 { return &v }
func intPtr(v int) *int      { return &v }

func newLoft(t *testing.T) *Place {
	t.Helper()
	p, err := NewPlace("Loft", "", 100, 40.0, -73.0, 2, "owner-1")
	if err != nil {
		t.Fatalf("NewPlace returned error: %v", err)
	}
	return p
}

func TestNewPlace_Success(t *testing.T) {
	p := newLoft(t)
	if p.Amenities == nil || len(p.Amenities) != 0 {
		t.Errorf("expected empty amenities, got %v", p.Amenities)
	}
	if p.Reviews == nil || len(p.Reviews) != 0 {
		t.Errorf("expected empty reviews, got %v", p.Reviews)
	}
	if p.OwnerID != "owner-1" {
		t.Errorf("unexpected owner: %s", p.OwnerID)
	}
}

func TestNewPlace_Bounds(t *testing.T) {
	cases := []struct {
		name            string
		title           string
		price, lat, lon float64
		maxPerson       int
		owner           string
		field           string
	}{
		{"empty title", "", 10, 0, 0, 1, "o", "title"},
		{"long title", strings.Repeat("t", 101), 10, 0, 0, 1, "o", "title"},
		{"negative price", "x", -0.01, 0, 0, 1, "o", "price"},
		{"nan price", "x", math.NaN(), 0, 0, 1, "o", "price"},
		{"lat too low", "x", 10, -90.1, 0, 1, "o", "latitude"},
		{"lat too high", "x", 10, 90.1, 0, 1, "o", "latitude"},
		{"lon too low", "x", 10, 0, -180.5, 1, "o", "longitude"},
		{"lon too high", "x", 10, 0, 181, 1, "o", "longitude"},
		{"zero guests", "x", 10, 0, 0, 0, "o", "max_person"},
		{"missing owner", "x", 10, 0, 0, 1, "", "owner_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPlace(tc.title, "", tc.price, tc.lat, tc.lon, tc.maxPerson, tc.owner)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, ve.Field)
			}
		})
	}

	if _, err := NewPlace("Edge", "", 0, -90, 180, 1, "o"); err != nil {
		t.Errorf("boundary values must be accepted: %v", err)
	}
}

func TestPlacePatch_InvalidPriceLeavesPlaceUnchanged(t *testing.T) {
	p := newLoft(t)
	updated := p.UpdatedAt

	err := PlacePatch{Title: strPtr("New title"), Price: f64(-5)}.Apply(p)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if p.Price != 100 || p.Title != "Loft" {
		t.Errorf("place mutated by failed patch: price=%v title=%q", p.Price, p.Title)
	}
	if !p.UpdatedAt.Equal(updated) {
		t.Error("updated_at must not move on a failed patch")
	}
}

func TestPlacePatch_Idempotent(t *testing.T) {
	p := newLoft(t)
	patch := PlacePatch{Price: f64(120), MaxPerson: intPtr(4)}

	if err := patch.Apply(p); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	first := p.UpdatedAt
	if err := patch.Apply(p); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if p.Price != 120 || p.MaxPerson != 4 {
		t.Errorf("unexpected values: price=%v max_person=%d", p.Price, p.MaxPerson)
	}
	if !p.UpdatedAt.After(first) {
		t.Error("updated_at must advance on every apply")
	}
}

func TestPlace_SetAmenitiesDeduplicates(t *testing.T) {
	p := newLoft(t)
	wifi, _ := NewAmenity("wifi")
	pool, _ := NewAmenity("pool")

	p.SetAmenities([]*Amenity{wifi, pool, wifi, nil})
	if len(p.Amenities) != 2 {
		t.Fatalf("expected 2 amenities, got %d", len(p.Amenities))
	}
	if !p.HasAmenity(wifi.ID) || !p.HasAmenity(pool.ID) {
		t.Error("missing amenity after SetAmenities")
	}

	empty := []*Amenity{}
	if err := (PlacePatch{Amenities: &empty}).Apply(p); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(p.Amenities) != 0 {
		t.Errorf("expected amenities cleared, got %d", len(p.Amenities))
	}
}

func TestPlace_RemoveAmenity(t *testing.T) {
	p := newLoft(t)
	wifi, _ := NewAmenity("wifi")
	pool, _ := NewAmenity("pool")
	p.SetAmenities([]*Amenity{wifi, pool})

	if !p.RemoveAmenity(wifi.ID) {
		t.Fatal("expected removal")
	}
	if p.RemoveAmenity(wifi.ID) {
		t.Error("second removal must report false")
	}
	if len(p.Amenities) != 1 || p.Amenities[0].ID != pool.ID {
		t.Errorf("unexpected amenities: %v", p.Amenities)
	}
}

func TestPlace_ReviewsOrderedByCreation(t *testing.T) {
	p := newLoft(t)
	older, _ := NewReview("first", 4, "u1", p.ID)
	newer, _ := NewReview("second", 5, "u2", p.ID)
	older.CreatedAt = newer.CreatedAt.Add(-time.Minute)

	p.AddReview(newer)
	p.AddReview(older)

	if p.Reviews[0].ID != older.ID || p.Reviews[1].ID != newer.ID {
		t.Error("reviews not ordered by creation")
	}
	if !p.RemoveReview(older.ID) || len(p.Reviews) != 1 {
		t.Error("RemoveReview failed")
	}
}

func TestEnsureIdentity(t *testing.T) {
	p := newLoft(t)
	if err := EnsureIdentity(p.ID, p); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := EnsureIdentity("other", p); !errors.Is(err, ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestTouch_StepsAtTimestampPrecision(t *testing.T) {
	frozen := time.Date(2025, 3, 1, 10, 0, 0, 400_000, time.UTC)
	restore := now
	now = func() time.Time { return frozen.Truncate(TimestampPrecision) }
	t.Cleanup(func() { now = restore })

	p := newLoft(t)
	prev := p.UpdatedAt
	for i := 0; i < 3; i++ {
		p.touch()
		if !p.UpdatedAt.After(prev) {
			t.Fatalf("touch %d: %v is not after %v", i, p.UpdatedAt, prev)
		}
		if !p.UpdatedAt.Equal(p.UpdatedAt.Truncate(TimestampPrecision)) {
			t.Fatalf("touch %d: %v is finer than the timestamp precision", i, p.UpdatedAt)
		}
		prev = p.UpdatedAt
	}
}

func TestPlace_RelationshipEditsAdvanceUpdatedAt(t *testing.T) {
	p := newLoft(t)
	wifi, _ := NewAmenity("wifi")
	p.SetAmenities([]*Amenity{wifi})
	review, _ := NewReview("Nice", 4, "u2", p.ID)

	steps := []struct {
		name string
		edit func()
	}{
		{"add review", func() { p.AddReview(review) }},
		{"remove review", func() { p.RemoveReview(review.ID) }},
		{"remove amenity", func() { p.RemoveAmenity(wifi.ID) }},
	}
	for _, step := range steps {
		before := p.UpdatedAt
		step.edit()
		if !p.UpdatedAt.After(before) {
			t.Errorf("%s: updated_at did not advance", step.name)
		}
	}

	before := p.UpdatedAt
	if p.RemoveAmenity("missing") || p.RemoveReview("missing") {
		t.Fatal("removing an unknown id must report false")
	}
	if !p.UpdatedAt.Equal(before) {
		t.Error("a no-op removal must not advance updated_at")
	}
}
