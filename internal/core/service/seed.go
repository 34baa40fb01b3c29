package service

import (
	"context"
	"errors"

	"github.com/hbnb/rental-api/internal/core/domain"
	"github.com/hbnb/rental-api/internal/core/ports"
)

// DefaultAmenities is the catalogue seeded into an empty store.
var DefaultAmenities = []string{"WiFi", "Air Conditioning", "Parking", "Swimming Pool", "Kitchen"}

// SeedAmenities creates names when the store holds no amenity at all and
// reports how many were created.
func (f *Facade) SeedAmenities(ctx context.Context, names []string) (int, error) {
	existing, err := f.amenities.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		f.logger.Debug().Int("existing", len(existing)).Msg("amenities already seeded")
		return 0, nil
	}

	created := 0
	for _, name := range names {
		if _, err := f.CreateAmenity(ctx, name); err != nil {
			if errors.Is(err, domain.ErrAmenityExists) {
				continue
			}
			return created, err
		}
		created++
	}
	return created, nil
}

// EnsureAdmin returns the user registered under in.Email, creating it as an
// administrator when absent.
func (f *Facade) EnsureAdmin(ctx context.Context, in ports.UserInput) (*domain.User, error) {
	user, err := f.GetUserByEmail(ctx, in.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	in.IsAdmin = true
	return f.CreateUser(ctx, in)
}
