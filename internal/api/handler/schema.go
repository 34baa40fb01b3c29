package handler

import (
	"time"

	"github.com/hbnb/rental-api/internal/core/domain"
	"github.com/hbnb/rental-api/internal/core/ports"
)

// --- Request types ---

type createUserRequest struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	IsAdmin   bool   `json:"is_admin"`
}

type updateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	IsAdmin   *bool   `json:"is_admin"`
}

type amenityRequest struct {
	Name string `json:"name" validate:"required"`
}

// placeRequest is shared by create and update. Amenities are names resolved
// with find-or-create; AmenityIDs must point at existing amenities.
type placeRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	MaxPerson   *int     `json:"max_person"`
	OwnerID     *string  `json:"owner_id"`
	Amenities   []string `json:"amenities" validate:"omitempty,dive,required"`
	AmenityIDs  []string `json:"amenity_ids" validate:"omitempty,dive,required"`
}

type createReviewRequest struct {
	Text    string `json:"text"`
	Rating  int    `json:"rating"`
	PlaceID string `json:"place_id"`
}

type updateReviewRequest struct {
	Text    *string `json:"text"`
	Rating  *int    `json:"rating"`
	UserID  *string `json:"user_id"`
	PlaceID *string `json:"place_id"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// --- Response types ---

type placeSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *domain.User `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Request → service input ---

func (r createUserRequest) toInput() ports.UserInput {
	return ports.UserInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Password:  r.Password,
		IsAdmin:   r.IsAdmin,
	}
}

func (r updateUserRequest) toPatch() domain.UserPatch {
	return domain.UserPatch{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Password:  r.Password,
		IsAdmin:   r.IsAdmin,
	}
}

// amenityRefs returns nil when the request names no amenities at all, so an
// update leaves the association untouched.
func (r placeRequest) amenityRefs() []ports.AmenityRef {
	if r.Amenities == nil && r.AmenityIDs == nil {
		return nil
	}
	refs := make([]ports.AmenityRef, 0, len(r.Amenities)+len(r.AmenityIDs))
	for _, id := range r.AmenityIDs {
		refs = append(refs, ports.AmenityRef{ID: id})
	}
	for _, name := range r.Amenities {
		refs = append(refs, ports.AmenityRef{Name: name})
	}
	return refs
}

func (r placeRequest) toInput() ports.PlaceInput {
	return ports.PlaceInput{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		MaxPerson:   r.MaxPerson,
		Amenities:   r.amenityRefs(),
	}
}

func (r placeRequest) toUpdate() ports.PlaceUpdate {
	return ports.PlaceUpdate{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		MaxPerson:   r.MaxPerson,
		Amenities:   r.amenityRefs(),
	}
}

func (r createReviewRequest) toInput() ports.ReviewInput {
	return ports.ReviewInput{Text: r.Text, Rating: r.Rating, PlaceID: r.PlaceID}
}

func (r updateReviewRequest) toPatch() domain.ReviewPatch {
	return domain.ReviewPatch{Text: r.Text, Rating: r.Rating}
}

// --- Service result → HTTP response ---

func toPlaceSummaries(places []*domain.Place) []placeSummary {
	out := make([]placeSummary, 0, len(places))
	for _, p := range places {
		out = append(out, placeSummary{
			ID:        p.ID,
			Title:     p.Title,
			Price:     p.Price,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			OwnerID:   p.OwnerID,
			CreatedAt: p.CreatedAt,
		})
	}
	return out
}
