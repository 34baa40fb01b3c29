package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hbnb/rental-api/internal/core/domain"
)

func init() {
	domain.PasswordCost = bcrypt.MinCost
}

func newAmenity(t *testing.T, name string) *domain.Amenity {
	t.Helper()
	a, err := domain.NewAmenity(name)
	require.NoError(t, err)
	return a
}

func TestRepository_AddGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository[*domain.Amenity](domain.KindAmenity)
	wifi := newAmenity(t, "wifi")

	require.NoError(t, repo.Add(ctx, wifi))

	got, err := repo.Get(ctx, wifi.ID)
	require.NoError(t, err)
	assert.Same(t, wifi, got)

	removed, err := repo.Delete(ctx, wifi.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, wifi.ID)
	require.NoError(t, err)
	assert.False(t, removed, "second delete must report nothing removed")

	_, err = repo.Get(ctx, wifi.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRepository_AddOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository[*domain.Amenity](domain.KindAmenity)
	first := newAmenity(t, "pool")
	second := *first
	second.Name = "Hot Tub"

	require.NoError(t, repo.Add(ctx, first))
	require.NoError(t, repo.Add(ctx, &second))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Hot Tub", all[0].Name)
}

func TestRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository[*domain.Amenity](domain.KindAmenity)
	a := newAmenity(t, "parking")
	require.NoError(t, repo.Add(ctx, a))
	before := a.UpdatedAt

	name := "garage parking"
	updated, err := repo.Update(ctx, a.ID, domain.AmenityPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Garage Parking", updated.Name)
	assert.True(t, updated.UpdatedAt.After(before))

	_, err = repo.Update(ctx, "missing", domain.AmenityPatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	blank := "  "
	_, err = repo.Update(ctx, a.ID, domain.AmenityPatch{Name: &blank})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Garage Parking", a.Name)
}

func TestRepository_Replace(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository[*domain.Amenity](domain.KindAmenity)
	a := newAmenity(t, "kitchen")
	require.NoError(t, repo.Add(ctx, a))

	other := newAmenity(t, "sauna")
	assert.ErrorIs(t, repo.Replace(ctx, a.ID, other), domain.ErrValidation)

	replacement := *a
	replacement.Name = "Full Kitchen"
	require.NoError(t, repo.Replace(ctx, a.ID, &replacement))

	got, err := repo.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Full Kitchen", got.Name)
}

func TestRepository_GetByAttribute(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository[*domain.Review](domain.KindReview)

	r1, _ := domain.NewReview("Nice", 4, "u1", "p1")
	r2, _ := domain.NewReview("Great", 5, "u2", "p1")
	r3, _ := domain.NewReview("Meh", 4, "u1", "p2")
	for _, r := range []*domain.Review{r1, r2, r3} {
		require.NoError(t, repo.Add(ctx, r))
	}

	byPlace, err := repo.GetByAttribute(ctx, "place_id", "p1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []*domain.Review{r1, r2}, byPlace)

	byRating, err := repo.GetByAttribute(ctx, "rating", 4)
	require.NoError(t, err)
	assert.ElementsMatch(t, []*domain.Review{r1, r3}, byRating)

	byCreated, err := repo.GetByAttribute(ctx, "created_at", r2.CreatedAt.In(time.FixedZone("x", 3600)))
	require.NoError(t, err)
	assert.Contains(t, byCreated, r2)

	none, err := repo.GetByAttribute(ctx, "user_id", "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = repo.GetByAttribute(ctx, "stars", 4)
	assert.ErrorIs(t, err, domain.ErrUnknownAttribute)
}

func TestRepository_UnknownAttributeOnEmptyStore(t *testing.T) {
	repo := NewRepository[*domain.User](domain.KindUser)
	_, err := repo.GetByAttribute(context.Background(), "password", "x")
	assert.ErrorIs(t, err, domain.ErrUnknownAttribute)
}

func TestRepository_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository[*domain.Amenity](domain.KindAmenity)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 50; j++ {
				a, err := domain.NewAmenity("x")
				if err != nil {
					return
				}
				_ = repo.Add(ctx, a)
				_, _ = repo.GetAll(ctx)
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 400)
}
