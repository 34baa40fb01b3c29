package ports

import (
	"context"

	"github.com/hbnb/rental-api/internal/core/domain"
)

// Repository is the storage-agnostic contract shared by every backend.
//
// Get and Update report a missing id with an error matching domain.ErrNotFound;
// any other error is a storage fault. GetByAttribute returns an empty slice
// when nothing matches and domain.ErrUnknownAttribute for a name the entity
// does not expose.
type Repository[E domain.Entity] interface {
	// Add stores entity by id, silently overwriting an existing one.
	Add(ctx context.Context, entity E) error
	Get(ctx context.Context, id string) (E, error)
	// GetAll returns every stored entity in no particular order.
	GetAll(ctx context.Context) ([]E, error)
	// Update merges a partial update onto the stored entity and returns it.
	Update(ctx context.Context, id string, patch domain.Patch[E]) (E, error)
	// Replace overwrites the entity stored under id with a full replacement.
	Replace(ctx context.Context, id string, entity E) error
	// Delete removes id and reports whether anything was removed.
	Delete(ctx context.Context, id string) (bool, error)
	GetByAttribute(ctx context.Context, name string, value any) ([]E, error)
}

type (
	UserRepository    = Repository[*domain.User]
	PlaceRepository   = Repository[*domain.Place]
	AmenityRepository = Repository[*domain.Amenity]
	ReviewRepository  = Repository[*domain.Review]
)

// Repositories bundles one repository per entity. All four must come from
// the same backend.
type Repositories struct {
	Users     UserRepository
	Places    PlaceRepository
	Amenities AmenityRepository
	Reviews   ReviewRepository
}
