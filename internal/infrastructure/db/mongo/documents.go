package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hbnb/rental-api/internal/core/domain"
)

// collection describes how an entity maps onto documents of type D.
type collection[E domain.Entity, D any] struct {
	kind    domain.Kind
	name    string
	toDoc   func(E) D
	fromDoc func(D) E
	// unique is returned in place of a duplicate-key failure.
	unique error
	// load populates relationship fields of freshly decoded entities.
	load func(ctx context.Context, db *mongo.Database, es []E) error
}

type userDoc struct {
	ID        string    `bson:"_id"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
	FirstName string    `bson:"first_name"`
	LastName  string    `bson:"last_name"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password"`
	IsAdmin   bool      `bson:"is_admin"`
}

type amenityDoc struct {
	ID        string    `bson:"_id"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
	Name      string    `bson:"name"`
}

type placeDoc struct {
	ID          string    `bson:"_id"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Price       float64   `bson:"price"`
	Latitude    float64   `bson:"latitude"`
	Longitude   float64   `bson:"longitude"`
	MaxPerson   int       `bson:"max_person"`
	OwnerID     string    `bson:"owner_id"`
	AmenityIDs  []string  `bson:"amenity_ids"`
}

type reviewDoc struct {
	ID        string    `bson:"_id"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
	Text      string    `bson:"text"`
	Rating    int       `bson:"rating"`
	UserID    string    `bson:"user_id"`
	PlaceID   string    `bson:"place_id"`
}

func base(id string, created, updated time.Time) domain.Base {
	return domain.Base{ID: id, CreatedAt: created.UTC(), UpdatedAt: updated.UTC()}
}

var userCollection = collection[*domain.User, userDoc]{
	kind:   domain.KindUser,
	name:   "users",
	unique: domain.ErrEmailTaken,
	toDoc: func(u *domain.User) userDoc {
		return userDoc{
			ID:        u.ID,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Password:  u.Password,
			IsAdmin:   u.IsAdmin,
		}
	},
	fromDoc: func(d userDoc) *domain.User {
		return &domain.User{
			Base:      base(d.ID, d.CreatedAt, d.UpdatedAt),
			FirstName: d.FirstName,
			LastName:  d.LastName,
			Email:     d.Email,
			Password:  d.Password,
			IsAdmin:   d.IsAdmin,
		}
	},
}

var amenityCollection = collection[*domain.Amenity, amenityDoc]{
	kind:   domain.KindAmenity,
	name:   "amenities",
	unique: domain.ErrAmenityExists,
	toDoc: func(a *domain.Amenity) amenityDoc {
		return amenityDoc{ID: a.ID, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt, Name: a.Name}
	},
	fromDoc: func(d amenityDoc) *domain.Amenity {
		return &domain.Amenity{Base: base(d.ID, d.CreatedAt, d.UpdatedAt), Name: d.Name}
	},
}

var reviewCollection = collection[*domain.Review, reviewDoc]{
	kind:   domain.KindReview,
	name:   "reviews",
	unique: domain.ErrDuplicateReview,
	toDoc: func(r *domain.Review) reviewDoc {
		return reviewDoc{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			Text:      r.Text,
			Rating:    r.Rating,
			UserID:    r.UserID,
			PlaceID:   r.PlaceID,
		}
	},
	fromDoc: func(d reviewDoc) *domain.Review {
		return &domain.Review{
			Base:    base(d.ID, d.CreatedAt, d.UpdatedAt),
			Text:    d.Text,
			Rating:  d.Rating,
			UserID:  d.UserID,
			PlaceID: d.PlaceID,
		}
	},
}

var placeCollection = collection[*domain.Place, placeDoc]{
	kind: domain.KindPlace,
	name: "places",
	toDoc: func(p *domain.Place) placeDoc {
		ids := make([]string, 0, len(p.Amenities))
		for _, a := range p.Amenities {
			ids = append(ids, a.ID)
		}
		return placeDoc{
			ID:          p.ID,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
			Title:       p.Title,
			Description: p.Description,
			Price:       p.Price,
			Latitude:    p.Latitude,
			Longitude:   p.Longitude,
			MaxPerson:   p.MaxPerson,
			OwnerID:     p.OwnerID,
			AmenityIDs:  ids,
		}
	},
	fromDoc: func(d placeDoc) *domain.Place {
		p := &domain.Place{
			Base:        base(d.ID, d.CreatedAt, d.UpdatedAt),
			Title:       d.Title,
			Description: d.Description,
			Price:       d.Price,
			Latitude:    d.Latitude,
			Longitude:   d.Longitude,
			MaxPerson:   d.MaxPerson,
			OwnerID:     d.OwnerID,
			Amenities:   make([]*domain.Amenity, 0, len(d.AmenityIDs)),
			Reviews:     []*domain.Review{},
		}
		// Placeholders keep the stored order until loadPlaceRelations
		// swaps in the full amenity.
		for _, id := range d.AmenityIDs {
			p.Amenities = append(p.Amenities, &domain.Amenity{Base: domain.Base{ID: id}})
		}
		return p
	},
	load: loadPlaceRelations,
}

// loadPlaceRelations resolves amenity ids and attaches reviews ordered by
// creation. Ids of amenities that no longer exist are dropped.
func loadPlaceRelations(ctx context.Context, db *mongo.Database, places []*domain.Place) error {
	if len(places) == 0 {
		return nil
	}
	placeIDs := make([]string, 0, len(places))
	amenityIDs := []string{}
	byID := make(map[string]*domain.Place, len(places))
	for _, p := range places {
		placeIDs = append(placeIDs, p.ID)
		byID[p.ID] = p
		for _, a := range p.Amenities {
			amenityIDs = append(amenityIDs, a.ID)
		}
	}

	amenities := map[string]*domain.Amenity{}
	if len(amenityIDs) > 0 {
		var docs []amenityDoc
		if err := findAll(ctx, db.Collection(amenityCollection.name), bson.M{"_id": bson.M{"$in": amenityIDs}}, nil, &docs); err != nil {
			return fmt.Errorf("amenities: %w", err)
		}
		for _, d := range docs {
			amenities[d.ID] = amenityCollection.fromDoc(d)
		}
	}
	for _, p := range places {
		resolved := make([]*domain.Amenity, 0, len(p.Amenities))
		for _, a := range p.Amenities {
			if full, ok := amenities[a.ID]; ok {
				resolved = append(resolved, full)
			}
		}
		p.Amenities = resolved
	}

	var reviews []reviewDoc
	byCreation := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if err := findAll(ctx, db.Collection(reviewCollection.name), bson.M{"place_id": bson.M{"$in": placeIDs}}, byCreation, &reviews); err != nil {
		return fmt.Errorf("reviews: %w", err)
	}
	for _, d := range reviews {
		if p, ok := byID[d.PlaceID]; ok {
			p.Reviews = append(p.Reviews, reviewCollection.fromDoc(d))
		}
	}
	return nil
}

func findAll(ctx context.Context, col *mongo.Collection, filter any, opts *options.FindOptions, out any) error {
	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}
	cur, err := col.Find(ctx, filter, findOpts...)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}
