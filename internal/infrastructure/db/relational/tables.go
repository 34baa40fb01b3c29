package relational

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/hbnb/rental-api/internal/core/domain"
)

type scanner interface {
	Scan(dest ...any) error
}

// table describes how one entity maps onto its table. Column names equal the
// entity's attribute names so GetByAttribute can filter on them directly.
type table[E domain.Entity] struct {
	kind    domain.Kind
	name    string
	columns []string
	record  func(E) goqu.Record
	scan    func(scanner) (E, error)
	// unique is returned in place of a duplicate-key failure.
	unique error
	// afterWrite runs inside the writing transaction, after the row is stored.
	afterWrite func(ctx context.Context, s *Store, tx *sql.Tx, e E) error
	// load populates relationship fields of freshly scanned entities.
	load func(ctx context.Context, s *Store, tx *sql.Tx, es []E) error
}

func (t table[E]) selectColumns() []any {
	cols := make([]any, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c
	}
	return cols
}

func utc(t time.Time) time.Time { return t.UTC() }

var userTable = table[*domain.User]{
	kind:    domain.KindUser,
	name:    "users",
	columns: []string{"id", "created_at", "updated_at", "first_name", "last_name", "email", "password", "is_admin"},
	unique:  domain.ErrEmailTaken,
	record: func(u *domain.User) goqu.Record {
		return goqu.Record{
			"id":         u.ID,
			"created_at": u.CreatedAt,
			"updated_at": u.UpdatedAt,
			"first_name": u.FirstName,
			"last_name":  u.LastName,
			"email":      u.Email,
			"password":   u.Password,
			"is_admin":   u.IsAdmin,
		}
	},
	scan: func(row scanner) (*domain.User, error) {
		u := &domain.User{}
		if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.FirstName, &u.LastName, &u.Email, &u.Password, &u.IsAdmin); err != nil {
			return nil, err
		}
		u.CreatedAt, u.UpdatedAt = utc(u.CreatedAt), utc(u.UpdatedAt)
		return u, nil
	},
}

var amenityTable = table[*domain.Amenity]{
	kind:    domain.KindAmenity,
	name:    "amenities",
	columns: []string{"id", "created_at", "updated_at", "name"},
	unique:  domain.ErrAmenityExists,
	record: func(a *domain.Amenity) goqu.Record {
		return goqu.Record{
			"id":         a.ID,
			"created_at": a.CreatedAt,
			"updated_at": a.UpdatedAt,
			"name":       a.Name,
		}
	},
	scan: scanAmenity,
}

func scanAmenity(row scanner) (*domain.Amenity, error) {
	a := &domain.Amenity{}
	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt, &a.Name); err != nil {
		return nil, err
	}
	a.CreatedAt, a.UpdatedAt = utc(a.CreatedAt), utc(a.UpdatedAt)
	return a, nil
}

var reviewTable = table[*domain.Review]{
	kind:    domain.KindReview,
	name:    "reviews",
	columns: []string{"id", "created_at", "updated_at", "text", "rating", "user_id", "place_id"},
	unique:  domain.ErrDuplicateReview,
	record: func(r *domain.Review) goqu.Record {
		return goqu.Record{
			"id":         r.ID,
			"created_at": r.CreatedAt,
			"updated_at": r.UpdatedAt,
			"text":       r.Text,
			"rating":     r.Rating,
			"user_id":    r.UserID,
			"place_id":   r.PlaceID,
		}
	},
	scan: scanReview,
}

func scanReview(row scanner) (*domain.Review, error) {
	r := &domain.Review{}
	if err := row.Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt, &r.Text, &r.Rating, &r.UserID, &r.PlaceID); err != nil {
		return nil, err
	}
	r.CreatedAt, r.UpdatedAt = utc(r.CreatedAt), utc(r.UpdatedAt)
	return r, nil
}

var placeTable = table[*domain.Place]{
	kind:    domain.KindPlace,
	name:    "places",
	columns: []string{"id", "created_at", "updated_at", "title", "description", "price", "latitude", "longitude", "max_person", "owner_id"},
	record: func(p *domain.Place) goqu.Record {
		return goqu.Record{
			"id":          p.ID,
			"created_at":  p.CreatedAt,
			"updated_at":  p.UpdatedAt,
			"title":       p.Title,
			"description": p.Description,
			"price":       p.Price,
			"latitude":    p.Latitude,
			"longitude":   p.Longitude,
			"max_person":  p.MaxPerson,
			"owner_id":    p.OwnerID,
		}
	},
	scan: func(row scanner) (*domain.Place, error) {
		p := &domain.Place{Amenities: []*domain.Amenity{}, Reviews: []*domain.Review{}}
		if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.Title, &p.Description, &p.Price,
			&p.Latitude, &p.Longitude, &p.MaxPerson, &p.OwnerID); err != nil {
			return nil, err
		}
		p.CreatedAt, p.UpdatedAt = utc(p.CreatedAt), utc(p.UpdatedAt)
		return p, nil
	},
	afterWrite: syncPlaceAmenities,
	load:       loadPlaceRelations,
}

// syncPlaceAmenities rewrites the association rows of p to match p.Amenities.
func syncPlaceAmenities(ctx context.Context, s *Store, tx *sql.Tx, p *domain.Place) error {
	del := s.dialect.Delete("place_amenity").Prepared(true).Where(goqu.Ex{"place_id": p.ID})
	if _, err := s.exec(ctx, tx, del); err != nil {
		return fmt.Errorf("place_amenity: delete: %w", err)
	}
	if len(p.Amenities) == 0 {
		return nil
	}

	rows := make([]any, 0, len(p.Amenities))
	for _, a := range p.Amenities {
		rows = append(rows, goqu.Record{"place_id": p.ID, "amenity_id": a.ID})
	}
	ins := s.dialect.Insert("place_amenity").Prepared(true).Rows(rows...)
	if _, err := s.exec(ctx, tx, ins); err != nil {
		return fmt.Errorf("place_amenity: insert: %w", err)
	}
	return nil
}

// loadPlaceRelations fills Amenities through place_amenity and Reviews from
// the reviews table, ordered by creation.
func loadPlaceRelations(ctx context.Context, s *Store, tx *sql.Tx, places []*domain.Place) error {
	if len(places) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Place, len(places))
	ids := make([]string, 0, len(places))
	for _, p := range places {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	amenities := s.dialect.From(goqu.T("place_amenity").As("pa")).Prepared(true).
		Join(goqu.T("amenities").As("a"), goqu.On(goqu.I("a.id").Eq(goqu.I("pa.amenity_id")))).
		Select(goqu.I("pa.place_id"), goqu.I("a.id"), goqu.I("a.created_at"), goqu.I("a.updated_at"), goqu.I("a.name")).
		Where(goqu.I("pa.place_id").In(ids)).
		Order(goqu.I("a.name").Asc())
	rows, err := s.query(ctx, tx, amenities)
	if err != nil {
		return fmt.Errorf("place_amenity: select: %w", err)
	}
	err = eachRow(rows, func(row scanner) error {
		var (
			placeID string
			a       = &domain.Amenity{}
		)
		if err := row.Scan(&placeID, &a.ID, &a.CreatedAt, &a.UpdatedAt, &a.Name); err != nil {
			return err
		}
		a.CreatedAt, a.UpdatedAt = utc(a.CreatedAt), utc(a.UpdatedAt)
		if p, ok := byID[placeID]; ok {
			p.Amenities = append(p.Amenities, a)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("place_amenity: scan: %w", err)
	}

	reviews := s.dialect.From(reviewTable.name).Prepared(true).
		Select(reviewTable.selectColumns()...).
		Where(goqu.Ex{"place_id": ids}).
		Order(goqu.I("created_at").Asc())
	rows, err = s.query(ctx, tx, reviews)
	if err != nil {
		return fmt.Errorf("reviews: select: %w", err)
	}
	err = eachRow(rows, func(row scanner) error {
		r, err := scanReview(row)
		if err != nil {
			return err
		}
		if p, ok := byID[r.PlaceID]; ok {
			p.Reviews = append(p.Reviews, r)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reviews: scan: %w", err)
	}
	return nil
}

func eachRow(rows *sql.Rows, fn func(scanner) error) error {
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
