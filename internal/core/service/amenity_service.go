package service

import (
	"context"
	"errors"

	"github.com/hbnb/rental-api/internal/core/domain"
)

// CreateAmenity stores a new amenity under its normalized name. A name that is
// already taken is a business-rule error.
func (f *Facade) CreateAmenity(ctx context.Context, name string) (*domain.Amenity, error) {
	amenity, err := domain.NewAmenity(name)
	if err != nil {
		return nil, err
	}

	f.amenityMu.Lock()
	defer f.amenityMu.Unlock()

	existing, err := f.amenities.GetByAttribute(ctx, "name", amenity.Name)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, domain.ErrAmenityExists
	}

	if err := f.amenities.Add(ctx, amenity); err != nil {
		f.logger.Error().Err(err).Str("name", amenity.Name).Msg("failed to store amenity")
		return nil, err
	}
	f.logger.Info().Str("amenity_id", amenity.ID).Str("name", amenity.Name).Msg("amenity created")
	return amenity, nil
}

func (f *Facade) GetAmenity(ctx context.Context, id string) (*domain.Amenity, error) {
	return f.amenities.Get(ctx, id)
}

// GetAmenityByName looks an amenity up by the normalized form of name.
func (f *Facade) GetAmenityByName(ctx context.Context, name string) (*domain.Amenity, error) {
	name = domain.NormalizeAmenityName(name)
	matches, err := f.amenities.GetByAttribute(ctx, "name", name)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, domain.NotFound(domain.KindAmenity, name)
	}
	return matches[0], nil
}

func (f *Facade) GetAllAmenities(ctx context.Context) ([]*domain.Amenity, error) {
	return f.amenities.GetAll(ctx)
}

// FindOrCreateAmenity returns the amenity whose normalized name matches,
// creating it first when absent. Losing an insert race against another
// writer resolves to the amenity that writer stored.
func (f *Facade) FindOrCreateAmenity(ctx context.Context, name string) (*domain.Amenity, error) {
	amenity, err := domain.NewAmenity(name)
	if err != nil {
		return nil, err
	}

	f.amenityMu.Lock()
	defer f.amenityMu.Unlock()

	existing, err := f.amenities.GetByAttribute(ctx, "name", amenity.Name)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing[0], nil
	}
	if err := f.amenities.Add(ctx, amenity); err != nil {
		if !errors.Is(err, domain.ErrAmenityExists) {
			return nil, err
		}
		existing, lookupErr := f.amenities.GetByAttribute(ctx, "name", amenity.Name)
		if lookupErr != nil {
			return nil, lookupErr
		}
		if len(existing) == 0 {
			return nil, err
		}
		return existing[0], nil
	}
	f.logger.Info().Str("amenity_id", amenity.ID).Str("name", amenity.Name).Msg("amenity created on demand")
	return amenity, nil
}

func (f *Facade) UpdateAmenity(ctx context.Context, id string, patch domain.AmenityPatch) (*domain.Amenity, error) {
	if _, err := f.amenities.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.Name != nil {
		f.amenityMu.Lock()
		defer f.amenityMu.Unlock()

		matches, err := f.amenities.GetByAttribute(ctx, "name", domain.NormalizeAmenityName(*patch.Name))
		if err != nil {
			return nil, err
		}
		for _, a := range matches {
			if a.ID != id {
				return nil, domain.ErrAmenityExists
			}
		}
	}
	return f.amenities.Update(ctx, id, patch)
}

// DeleteAmenity detaches the amenity from every place offering it, then removes it.
func (f *Facade) DeleteAmenity(ctx context.Context, id string) error {
	if _, err := f.amenities.Get(ctx, id); err != nil {
		return err
	}

	places, err := f.places.GetAll(ctx)
	if err != nil {
		return err
	}
	detached := 0
	for _, p := range places {
		if !p.RemoveAmenity(id) {
			continue
		}
		if err := f.places.Replace(ctx, p.ID, p); err != nil {
			return err
		}
		detached++
	}

	removed, err := f.amenities.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return domain.NotFound(domain.KindAmenity, id)
	}
	f.logger.Info().Str("amenity_id", id).Int("places", detached).Msg("amenity deleted")
	return nil
}
