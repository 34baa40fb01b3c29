package ports

import (
	"context"

	"github.com/hbnb/rental-api/internal/core/domain"
)

// UserInput carries the fields needed to register a user.
type UserInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	IsAdmin   bool
}

// AmenityRef points at an amenity either by id or by name. A name ref is a
// find-or-create request against the normalized name. ID wins when both are set.
type AmenityRef struct {
	ID   string
	Name string
}

// PlaceInput carries the fields for a new place. Pointer fields are required
// and reported as missing when nil; Description is optional.
type PlaceInput struct {
	Title       *string
	Description *string
	Price       *float64
	Latitude    *float64
	Longitude   *float64
	MaxPerson   *int
	Amenities   []AmenityRef
}

// PlaceUpdate is a partial place update. A nil Amenities leaves the
// association alone; a non-nil one, even empty, replaces it.
type PlaceUpdate struct {
	Title       *string
	Description *string
	Price       *float64
	Latitude    *float64
	Longitude   *float64
	MaxPerson   *int
	Amenities   []AmenityRef
}

// ReviewInput carries a new review. The author comes from the caller identity.
type ReviewInput struct {
	Text    string
	Rating  int
	PlaceID string
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID  string
	IsAdmin bool
}

type UserService interface {
	CreateUser(ctx context.Context, in UserInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetAllUsers(ctx context.Context) ([]*domain.User, error)
	UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type AmenityService interface {
	CreateAmenity(ctx context.Context, name string) (*domain.Amenity, error)
	GetAmenity(ctx context.Context, id string) (*domain.Amenity, error)
	GetAmenityByName(ctx context.Context, name string) (*domain.Amenity, error)
	GetAllAmenities(ctx context.Context) ([]*domain.Amenity, error)
	UpdateAmenity(ctx context.Context, id string, patch domain.AmenityPatch) (*domain.Amenity, error)
	DeleteAmenity(ctx context.Context, id string) error
}

type PlaceService interface {
	CreatePlace(ctx context.Context, in PlaceInput, ownerID string) (*domain.Place, error)
	GetPlace(ctx context.Context, id string) (*domain.Place, error)
	GetAllPlaces(ctx context.Context) ([]*domain.Place, error)
	GetPlacesByOwner(ctx context.Context, ownerID string) ([]*domain.Place, error)
	UpdatePlace(ctx context.Context, id string, upd PlaceUpdate) (*domain.Place, error)
	DeletePlace(ctx context.Context, id string) error
	AuthorizePlaceChange(ctx context.Context, placeID string, actor Actor) error
}

type ReviewService interface {
	CreateReview(ctx context.Context, in ReviewInput, authorID string) (*domain.Review, error)
	GetReview(ctx context.Context, id string) (*domain.Review, error)
	GetAllReviews(ctx context.Context) ([]*domain.Review, error)
	GetReviewsByPlace(ctx context.Context, placeID string) ([]*domain.Review, error)
	GetReviewsByUser(ctx context.Context, userID string) ([]*domain.Review, error)
	UpdateReview(ctx context.Context, id string, patch domain.ReviewPatch) (*domain.Review, error)
	DeleteReview(ctx context.Context, id string) error
	AuthorizeReviewChange(ctx context.Context, reviewID string, actor Actor) error
}
