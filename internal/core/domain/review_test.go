package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNewReview(t *testing.T) {
	r, err := NewReview(" Great ", 5, "u1", "p1")
	if err != nil {
		t.Fatalf("NewReview returned error: %v", err)
	}
	if r.Text != "Great" || r.Rating != 5 || r.UserID != "u1" || r.PlaceID != "p1" {
		t.Errorf("unexpected review: %+v", r)
	}
}

func TestNewReview_Validation(t *testing.T) {
	cases := []struct {
		name        string
		text        string
		rating      int
		user, place string
		field       string
	}{
		{"empty text", "", 3, "u", "p", "text"},
		{"blank text", "   ", 3, "u", "p", "text"},
		{"long text", strings.Repeat("x", 301), 3, "u", "p", "text"},
		{"rating zero", "ok", 0, "u", "p", "rating"},
		{"rating six", "ok", 6, "u", "p", "rating"},
		{"missing user", "ok", 3, "", "p", "user_id"},
		{"missing place", "ok", 3, "u", "", "place_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewReview(tc.text, tc.rating, tc.user, tc.place)
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field != tc.field {
				t.Fatalf("expected ValidationError on %q, got %v", tc.field, err)
			}
		})
	}
}

func TestReviewPatch(t *testing.T) {
	r, _ := NewReview("Nice", 4, "u1", "p1")

	if err := (ReviewPatch{Rating: intPtr(9)}).Apply(r); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if r.Rating != 4 {
		t.Errorf("rating changed by failed patch: %d", r.Rating)
	}
	if err := (ReviewPatch{Text: strPtr("")}).Apply(r); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for empty text, got %v", err)
	}

	if err := (ReviewPatch{Text: strPtr("Very nice"), Rating: intPtr(5)}).Apply(r); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if r.Text != "Very nice" || r.Rating != 5 {
		t.Errorf("unexpected review after patch: %+v", r)
	}
}

func TestErrorClasses(t *testing.T) {
	if !errors.Is(ErrSelfReview, ErrBusinessRule) || !errors.Is(ErrDuplicateReview, ErrBusinessRule) {
		t.Error("review rules must be business-rule errors")
	}
	if !errors.Is(ErrEmailTaken, ErrBusinessRule) {
		t.Error("email uniqueness must be a business-rule error")
	}
	if !errors.Is(NotFound(KindPlace, "x"), ErrNotFound) {
		t.Error("NotFound must match ErrNotFound")
	}
	if !errors.Is(&RelationError{Field: "owner", ID: "x"}, ErrRelationship) {
		t.Error("RelationError must match ErrRelationship")
	}
	if errors.Is(NotFound(KindPlace, "x"), ErrValidation) {
		t.Error("lookup failure must not be a validation error")
	}
}
