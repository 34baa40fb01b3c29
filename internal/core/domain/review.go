package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	maxReviewTextLen = 300
	minRating        = 1
	maxRating        = 5
)

// Review is a rating left by a user on someone else's place. Author and
// subject are fixed at construction.
type Review struct {
	Base
	Text    string `json:"text"`
	Rating  int    `json:"rating"`
	UserID  string `json:"user_id"`
	PlaceID string `json:"place_id"`
}

func NewReview(text string, rating int, userID, placeID string) (*Review, error) {
	text = strings.TrimSpace(text)
	if err := validateReviewText(text); err != nil {
		return nil, err
	}
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, invalid("user_id", "is required")
	}
	if placeID == "" {
		return nil, invalid("place_id", "is required")
	}
	return &Review{
		Base:    newBase(),
		Text:    text,
		Rating:  rating,
		UserID:  userID,
		PlaceID: placeID,
	}, nil
}

func (r *Review) Attribute(name string) (any, bool) {
	switch name {
	case "text":
		return r.Text, true
	case "rating":
		return r.Rating, true
	case "user_id":
		return r.UserID, true
	case "place_id":
		return r.PlaceID, true
	}
	return r.attribute(name)
}

// ReviewPatch is a partial update of a Review.
type ReviewPatch struct {
	Text   *string
	Rating *int
}

func (p ReviewPatch) Validate() error {
	if p.Text != nil {
		if err := validateReviewText(strings.TrimSpace(*p.Text)); err != nil {
			return err
		}
	}
	if p.Rating != nil {
		if err := validateRating(*p.Rating); err != nil {
			return err
		}
	}
	return nil
}

func (p ReviewPatch) Apply(r *Review) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Text != nil {
		r.Text = strings.TrimSpace(*p.Text)
	}
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
	r.touch()
	return nil
}

func validateReviewText(text string) error {
	if text == "" {
		return invalid("text", "is required")
	}
	if utf8.RuneCountInString(text) > maxReviewTextLen {
		return invalid("text", "must be at most %d characters", maxReviewTextLen)
	}
	return nil
}

func validateRating(rating int) error {
	if rating < minRating || rating > maxRating {
		return invalid("rating", "must be between %d and %d", minRating, maxRating)
	}
	return nil
}
