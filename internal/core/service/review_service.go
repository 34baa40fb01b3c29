package service

import (
	"context"
	"errors"

	"github.com/hbnb/rental-api/internal/core/domain"
	"github.com/hbnb/rental-api/internal/core/ports"
)

// CreateReview records a review by authorID. The author may not review their
// own place, and may review a given place only once. The review is stored and
// attached to the place's review collection.
func (f *Facade) CreateReview(ctx context.Context, in ports.ReviewInput, authorID string) (*domain.Review, error) {
	if _, err := f.users.Get(ctx, authorID); err != nil {
		return nil, relation(err, "user", authorID)
	}
	if in.PlaceID == "" {
		return nil, required("place_id")
	}
	place, err := f.places.Get(ctx, in.PlaceID)
	if err != nil {
		return nil, relation(err, "place", in.PlaceID)
	}

	if place.OwnerID == authorID {
		return nil, domain.ErrSelfReview
	}
	existing, err := f.reviews.GetByAttribute(ctx, "place_id", place.ID)
	if err != nil {
		return nil, err
	}
	for _, r := range existing {
		if r.UserID == authorID {
			return nil, domain.ErrDuplicateReview
		}
	}

	review, err := domain.NewReview(in.Text, in.Rating, authorID, place.ID)
	if err != nil {
		return nil, err
	}
	if err := f.reviews.Add(ctx, review); err != nil {
		f.logger.Error().Err(err).Str("place_id", place.ID).Msg("failed to store review")
		return nil, err
	}
	place.AddReview(review)
	if err := f.places.Replace(ctx, place.ID, place); err != nil {
		f.logger.Error().Err(err).Str("review_id", review.ID).Msg("failed to attach review to place")
		return nil, err
	}

	f.logger.Info().Str("review_id", review.ID).Str("place_id", place.ID).Int("rating", review.Rating).Msg("review created")
	return review, nil
}

func (f *Facade) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	return f.reviews.Get(ctx, id)
}

func (f *Facade) GetAllReviews(ctx context.Context) ([]*domain.Review, error) {
	return f.reviews.GetAll(ctx)
}

// GetReviewsByPlace returns the place's own review collection, not a fresh scan.
func (f *Facade) GetReviewsByPlace(ctx context.Context, placeID string) ([]*domain.Review, error) {
	place, err := f.places.Get(ctx, placeID)
	if err != nil {
		return nil, err
	}
	return place.Reviews, nil
}

// GetReviewsByUser derives a user's reviews from the reviews' author reference.
func (f *Facade) GetReviewsByUser(ctx context.Context, userID string) ([]*domain.Review, error) {
	if _, err := f.users.Get(ctx, userID); err != nil {
		return nil, err
	}
	reviews, err := f.reviews.GetByAttribute(ctx, "user_id", userID)
	if err != nil {
		return nil, err
	}
	domain.SortReviews(reviews)
	return reviews, nil
}

// UpdateReview changes text or rating. Author and place never change.
func (f *Facade) UpdateReview(ctx context.Context, id string, patch domain.ReviewPatch) (*domain.Review, error) {
	return f.reviews.Update(ctx, id, patch)
}

// DeleteReview detaches the review from its place and removes it.
func (f *Facade) DeleteReview(ctx context.Context, id string) error {
	review, err := f.reviews.Get(ctx, id)
	if err != nil {
		return err
	}

	place, err := f.places.Get(ctx, review.PlaceID)
	switch {
	case err == nil:
		if place.RemoveReview(id) {
			if err := f.places.Replace(ctx, place.ID, place); err != nil {
				return err
			}
		}
	case !errors.Is(err, domain.ErrNotFound):
		return err
	}

	removed, err := f.reviews.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return domain.NotFound(domain.KindReview, id)
	}
	f.logger.Info().Str("review_id", id).Str("place_id", review.PlaceID).Msg("review deleted")
	return nil
}

// AuthorizeReviewChange allows the author of the review or an admin.
func (f *Facade) AuthorizeReviewChange(ctx context.Context, reviewID string, actor ports.Actor) error {
	review, err := f.reviews.Get(ctx, reviewID)
	if err != nil {
		return err
	}
	if actor.IsAdmin || review.UserID == actor.UserID {
		return nil
	}
	return domain.ErrForbidden
}
