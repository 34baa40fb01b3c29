package relational

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hbnb/rental-api/internal/core/domain"
)

func setupStore(t *testing.T, dialect string) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return New(db, dialect), mock
}

func TestRepository_GetMissingIsNotFound(t *testing.T) {
	store, mock := setupStore(t, DialectPostgres)
	repo := NewRepository(store, userTable)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE \("id" = \$1\)`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(userTable.columns))
	mock.ExpectRollback()

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_AddDuplicateEmail(t *testing.T) {
	store, mock := setupStore(t, DialectPostgres)
	repo := NewRepository(store, userTable)
	user := &domain.User{FirstName: "Ana", LastName: "Lee", Email: "ana@example.com"}
	user.ID = "u1"

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "users" .* ON CONFLICT .* DO UPDATE SET`).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := repo.Add(context.Background(), user)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_MySQLDuplicateAmenity(t *testing.T) {
	store, mock := setupStore(t, DialectMySQL)
	repo := NewRepository(store, amenityTable)
	a, err := domain.NewAmenity("wifi")
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `amenities` .* ON DUPLICATE KEY UPDATE").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	err = repo.Add(context.Background(), a)
	assert.ErrorIs(t, err, domain.ErrAmenityExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_AddPlaceSyncsAmenities(t *testing.T) {
	store, mock := setupStore(t, DialectPostgres)
	repo := NewRepository(store, placeTable)

	place, err := domain.NewPlace("Loft", "", 100, 40, -73, 2, "owner-1")
	require.NoError(t, err)
	wifi, _ := domain.NewAmenity("wifi")
	pool, _ := domain.NewAmenity("pool")
	place.SetAmenities([]*domain.Amenity{wifi, pool})

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "places"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "place_amenity" WHERE \("place_id" = \$1\)`).
		WithArgs(place.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "place_amenity" .* VALUES \(\$1, \$2\), \(\$3, \$4\)`).
		WithArgs(wifi.ID, place.ID, pool.ID, place.ID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.Add(context.Background(), place))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetPlaceLoadsRelations(t *testing.T) {
	store, mock := setupStore(t, DialectPostgres)
	repo := NewRepository(store, placeTable)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "places" WHERE \("id" = \$1\)`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(placeTable.columns).
			AddRow("p1", now, now, "Loft", "", 100.0, 40.0, -73.0, int64(2), "owner-1"))
	mock.ExpectQuery(`SELECT "pa"."place_id", "a"."id", .* FROM "place_amenity" AS "pa" INNER JOIN "amenities" AS "a"`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"place_id", "id", "created_at", "updated_at", "name"}).
			AddRow("p1", "a1", now, now, "Wifi"))
	mock.ExpectQuery(`SELECT .* FROM "reviews" WHERE \("place_id" IN \(\$1\)\) ORDER BY "created_at" ASC`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(reviewTable.columns).
			AddRow("r1", now, now, "Nice", int64(4), "u2", "p1").
			AddRow("r2", now.Add(time.Hour), now.Add(time.Hour), "Great", int64(5), "u3", "p1"))
	mock.ExpectCommit()

	place, err := repo.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Loft", place.Title)
	assert.Equal(t, 2, place.MaxPerson)
	require.Len(t, place.Amenities, 1)
	assert.Equal(t, "Wifi", place.Amenities[0].Name)
	require.Len(t, place.Reviews, 2)
	assert.Equal(t, "r1", place.Reviews[0].ID)
	assert.True(t, place.CreatedAt.Equal(now))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateAppliesPatchInOneTransaction(t *testing.T) {
	store, mock := setupStore(t, DialectPostgres)
	repo := NewRepository(store, reviewTable)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "reviews" WHERE \("id" = \$1\) FOR UPDATE`).
		WithArgs("r1").
		WillReturnRows(sqlmock.NewRows(reviewTable.columns).AddRow("r1", now, now, "Nice", int64(4), "u2", "p1"))
	mock.ExpectExec(`UPDATE "reviews" SET .* WHERE \("id" = \$\d+\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rating := 5
	review, err := repo.Update(context.Background(), "r1", domain.ReviewPatch{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
	assert.True(t, review.UpdatedAt.After(now))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateInvalidPatchRollsBack(t *testing.T) {
	store, mock := setupStore(t, DialectPostgres)
	repo := NewRepository(store, reviewTable)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "reviews" .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(reviewTable.columns).AddRow("r1", now, now, "Nice", int64(4), "u2", "p1"))
	mock.ExpectRollback()

	rating := 0
	_, err := repo.Update(context.Background(), "r1", domain.ReviewPatch{Rating: &rating})
	assert.ErrorIs(t, err, domain.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	store, mock := setupStore(t, DialectPostgres)
	repo := NewRepository(store, amenityTable)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "amenities" WHERE \("id" = \$1\)`).
		WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "amenities"`).
		WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	removed, err := repo.Delete(context.Background(), "a1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(context.Background(), "a1")
	require.NoError(t, err)
	assert.False(t, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByAttribute(t *testing.T) {
	store, mock := setupStore(t, DialectPostgres)
	repo := NewRepository(store, userTable)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE \("email" = \$1\)`).
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows(userTable.columns).
			AddRow("u1", now, now, "Ana", "Lee", "ana@example.com", "$2a$hash", true))
	mock.ExpectCommit()

	users, err := repo.GetByAttribute(context.Background(), "email", "ana@example.com")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.True(t, users[0].IsAdmin)

	_, err = repo.GetByAttribute(context.Background(), "password", "x")
	assert.ErrorIs(t, err, domain.ErrUnknownAttribute)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ReplaceRejectsForeignID(t *testing.T) {
	store, mock := setupStore(t, DialectPostgres)
	repo := NewRepository(store, amenityTable)
	a, _ := domain.NewAmenity("wifi")

	err := repo.Replace(context.Background(), "other", a)
	assert.ErrorIs(t, err, domain.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Migrate(t *testing.T) {
	for _, tc := range []struct {
		dialect string
		stmts   []string
	}{
		{DialectPostgres, postgresSchema},
		{DialectMySQL, mysqlSchema},
	} {
		t.Run(tc.dialect, func(t *testing.T) {
			store, mock := setupStore(t, tc.dialect)
			mock.ExpectBegin()
			for range tc.stmts {
				mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
			}
			mock.ExpectCommit()

			require.NoError(t, store.Migrate(context.Background()))
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.True(t, isUniqueViolation(&mysql.MySQLError{Number: 1062}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}
