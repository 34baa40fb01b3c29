package service

import (
	"context"

	"github.com/hbnb/rental-api/internal/core/domain"
	"github.com/hbnb/rental-api/internal/core/ports"
)

// CreateUser registers a user. Uniqueness is checked against the repository's
// email index; the constructor still validates format and length.
func (f *Facade) CreateUser(ctx context.Context, in ports.UserInput) (*domain.User, error) {
	email := domain.NormalizeEmail(in.Email)
	if err := f.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}

	user, err := domain.NewUser(in.FirstName, in.LastName, email, in.Password, in.IsAdmin)
	if err != nil {
		return nil, err
	}
	if err := f.users.Add(ctx, user); err != nil {
		f.logger.Error().Err(err).Str("email", email).Msg("failed to store user")
		return nil, err
	}

	f.logger.Info().Str("user_id", user.ID).Bool("is_admin", user.IsAdmin).Msg("user created")
	return user, nil
}

func (f *Facade) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return f.users.Get(ctx, id)
}

func (f *Facade) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	matches, err := f.users.GetByAttribute(ctx, "email", email)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, domain.NotFound(domain.KindUser, email)
	}
	return matches[0], nil
}

func (f *Facade) GetAllUsers(ctx context.Context) ([]*domain.User, error) {
	return f.users.GetAll(ctx)
}

// UpdateUser applies patch. A changed email is re-checked for uniqueness
// against every other user.
func (f *Facade) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	if _, err := f.users.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if patch.Email != nil {
		if err := f.ensureEmailFree(ctx, domain.NormalizeEmail(*patch.Email), id); err != nil {
			return nil, err
		}
	}
	return f.users.Update(ctx, id, patch)
}

// DeleteUser removes the user together with the reviews they wrote and the
// places they own.
func (f *Facade) DeleteUser(ctx context.Context, id string) error {
	if _, err := f.users.Get(ctx, id); err != nil {
		return err
	}

	written, err := f.reviews.GetByAttribute(ctx, "user_id", id)
	if err != nil {
		return err
	}
	for _, r := range written {
		if err := f.DeleteReview(ctx, r.ID); err != nil {
			return err
		}
	}

	owned, err := f.places.GetByAttribute(ctx, "owner_id", id)
	if err != nil {
		return err
	}
	for _, p := range owned {
		if err := f.DeletePlace(ctx, p.ID); err != nil {
			return err
		}
	}

	removed, err := f.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return domain.NotFound(domain.KindUser, id)
	}

	f.logger.Info().Str("user_id", id).Int("reviews", len(written)).Int("places", len(owned)).Msg("user deleted")
	return nil
}

func (f *Facade) ensureEmailFree(ctx context.Context, email, selfID string) error {
	matches, err := f.users.GetByAttribute(ctx, "email", email)
	if err != nil {
		return err
	}
	for _, u := range matches {
		if u.ID != selfID {
			return domain.ErrEmailTaken
		}
	}
	return nil
}
