package service

import (
	"context"
	"errors"

	"github.com/hbnb/rental-api/internal/core/domain"
	"github.com/hbnb/rental-api/internal/core/ports"
)

// CreatePlace validates the listing, resolves its owner and attaches the
// requested amenities. Amenity refs that cannot be resolved are skipped.
func (f *Facade) CreatePlace(ctx context.Context, in ports.PlaceInput, ownerID string) (*domain.Place, error) {
	switch {
	case in.Title == nil:
		return nil, required("title")
	case in.Price == nil:
		return nil, required("price")
	case in.Latitude == nil:
		return nil, required("latitude")
	case in.Longitude == nil:
		return nil, required("longitude")
	case in.MaxPerson == nil:
		return nil, required("max_person")
	}
	description := ""
	if in.Description != nil {
		description = *in.Description
	}

	place, err := domain.NewPlace(*in.Title, description, *in.Price, *in.Latitude, *in.Longitude, *in.MaxPerson, ownerID)
	if err != nil {
		return nil, err
	}

	owner, err := f.users.Get(ctx, ownerID)
	if err != nil {
		return nil, relation(err, "owner", ownerID)
	}

	amenities, err := f.resolveAmenities(ctx, in.Amenities)
	if err != nil {
		return nil, err
	}
	place.SetAmenities(amenities)

	if err := f.places.Add(ctx, place); err != nil {
		f.logger.Error().Err(err).Str("owner_id", ownerID).Msg("failed to store place")
		return nil, err
	}
	f.logger.Info().Str("place_id", place.ID).Str("owner_id", ownerID).Int("amenities", len(place.Amenities)).Msg("place created")
	return ownedCopy(place, owner), nil
}

// GetPlace returns the place with its owner, amenities and reviews populated.
func (f *Facade) GetPlace(ctx context.Context, id string) (*domain.Place, error) {
	place, err := f.places.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return f.withOwner(ctx, place)
}

func (f *Facade) GetAllPlaces(ctx context.Context) ([]*domain.Place, error) {
	places, err := f.places.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Place, 0, len(places))
	for _, p := range places {
		hydrated, err := f.withOwner(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, hydrated)
	}
	return out, nil
}

// GetPlacesByOwner derives a user's listings from the places' owner reference.
func (f *Facade) GetPlacesByOwner(ctx context.Context, ownerID string) ([]*domain.Place, error) {
	owner, err := f.users.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	places, err := f.places.GetByAttribute(ctx, "owner_id", ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Place, 0, len(places))
	for _, p := range places {
		out = append(out, ownedCopy(p, owner))
	}
	return out, nil
}

// UpdatePlace validates only the fields present in upd. A non-nil Amenities
// replaces the association wholesale.
func (f *Facade) UpdatePlace(ctx context.Context, id string, upd ports.PlaceUpdate) (*domain.Place, error) {
	if _, err := f.places.Get(ctx, id); err != nil {
		return nil, err
	}

	patch := domain.PlacePatch{
		Title:       upd.Title,
		Description: upd.Description,
		Price:       upd.Price,
		Latitude:    upd.Latitude,
		Longitude:   upd.Longitude,
		MaxPerson:   upd.MaxPerson,
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if upd.Amenities != nil {
		amenities, err := f.resolveAmenities(ctx, upd.Amenities)
		if err != nil {
			return nil, err
		}
		patch.Amenities = &amenities
	}

	place, err := f.places.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return f.withOwner(ctx, place)
}

// DeletePlace removes the place and every review written about it.
func (f *Facade) DeletePlace(ctx context.Context, id string) error {
	if _, err := f.places.Get(ctx, id); err != nil {
		return err
	}

	reviews, err := f.reviews.GetByAttribute(ctx, "place_id", id)
	if err != nil {
		return err
	}
	for _, r := range reviews {
		if _, err := f.reviews.Delete(ctx, r.ID); err != nil {
			return err
		}
	}

	removed, err := f.places.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return domain.NotFound(domain.KindPlace, id)
	}
	f.logger.Info().Str("place_id", id).Int("reviews", len(reviews)).Msg("place deleted")
	return nil
}

// AuthorizePlaceChange allows the owner of the place or an admin.
func (f *Facade) AuthorizePlaceChange(ctx context.Context, placeID string, actor ports.Actor) error {
	place, err := f.places.Get(ctx, placeID)
	if err != nil {
		return err
	}
	if actor.IsAdmin || place.OwnerID == actor.UserID {
		return nil
	}
	return domain.ErrForbidden
}

// resolveAmenities turns refs into stored amenities. An id ref must exist; a
// name ref is found or created by normalized name. Refs that are invalid or
// point nowhere are skipped, storage failures are returned.
func (f *Facade) resolveAmenities(ctx context.Context, refs []ports.AmenityRef) ([]*domain.Amenity, error) {
	out := make([]*domain.Amenity, 0, len(refs))
	for _, ref := range refs {
		var (
			amenity *domain.Amenity
			err     error
		)
		switch {
		case ref.ID != "":
			amenity, err = f.amenities.Get(ctx, ref.ID)
		case ref.Name != "":
			amenity, err = f.FindOrCreateAmenity(ctx, ref.Name)
		default:
			continue
		}
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
				f.logger.Debug().Err(err).Str("id", ref.ID).Str("name", ref.Name).Msg("skipping unresolvable amenity")
				continue
			}
			return nil, err
		}
		out = append(out, amenity)
	}
	return out, nil
}

// withOwner returns a copy of place with Owner populated. The stored entity
// is never written, so concurrent readers do not race. A dangling owner
// reference is logged and left nil.
func (f *Facade) withOwner(ctx context.Context, place *domain.Place) (*domain.Place, error) {
	owner, err := f.users.Get(ctx, place.OwnerID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		f.logger.Warn().Str("place_id", place.ID).Str("owner_id", place.OwnerID).Msg("place owner missing")
		owner = nil
	}
	return ownedCopy(place, owner), nil
}

// ownedCopy is a shallow copy of place carrying owner. Amenity and review
// slices are shared with the original and must be treated as read-only.
func ownedCopy(place *domain.Place, owner *domain.User) *domain.Place {
	cp := *place
	cp.Owner = owner
	return &cp
}
