package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hbnb/rental-api/internal/core/domain"
	"github.com/hbnb/rental-api/internal/core/ports"
)

// Repository is a ports.Repository over one collection. Single-document
// writes are atomic; Update is a read, apply, replace sequence.
type Repository[E domain.Entity, D any] struct {
	db  *mongo.Database
	col *mongo.Collection
	c   collection[E, D]
}

var _ ports.UserRepository = (*Repository[*domain.User, userDoc])(nil)

func NewRepository[E domain.Entity, D any](db *mongo.Database, c collection[E, D]) *Repository[E, D] {
	return &Repository[E, D]{db: db, col: db.Collection(c.name), c: c}
}

// Add upserts the document keyed by the entity id.
func (r *Repository[E, D]) Add(ctx context.Context, entity E) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.upsert(ctx, entity)
}

func (r *Repository[E, D]) Get(ctx context.Context, id string) (E, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.findOne(ctx, id)
}

func (r *Repository[E, D]) GetAll(ctx context.Context) ([]E, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.find(ctx, bson.M{})
}

func (r *Repository[E, D]) Update(ctx context.Context, id string, patch domain.Patch[E]) (E, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var zero E
	e, err := r.findOne(ctx, id)
	if err != nil {
		return zero, err
	}
	if err := patch.Apply(e); err != nil {
		return zero, err
	}
	if err := r.upsert(ctx, e); err != nil {
		return zero, err
	}
	return e, nil
}

func (r *Repository[E, D]) Replace(ctx context.Context, id string, entity E) error {
	if err := domain.EnsureIdentity(id, entity); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.upsert(ctx, entity)
}

func (r *Repository[E, D]) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("%s: delete: %w", r.c.name, err)
	}
	return res.DeletedCount > 0, nil
}

func (r *Repository[E, D]) GetByAttribute(ctx context.Context, name string, value any) ([]E, error) {
	if !r.c.kind.HasAttribute(name) {
		return nil, domain.ErrUnknownAttribute
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.find(ctx, bson.M{fieldName(name): value})
}

// fieldName maps an attribute name onto its document field.
func fieldName(attr string) string {
	if attr == "id" {
		return "_id"
	}
	return attr
}

func (r *Repository[E, D]) upsert(ctx context.Context, entity E) error {
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": entity.GetID()}, r.c.toDoc(entity), options.Replace().SetUpsert(true))
	if err != nil {
		if r.c.unique != nil && mongo.IsDuplicateKeyError(err) {
			return r.c.unique
		}
		return fmt.Errorf("%s: upsert: %w", r.c.name, err)
	}
	return nil
}

func (r *Repository[E, D]) findOne(ctx context.Context, id string) (E, error) {
	var (
		zero E
		doc  D
	)
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, domain.NotFound(r.c.kind, id)
		}
		return zero, fmt.Errorf("%s: find: %w", r.c.name, err)
	}
	e := r.c.fromDoc(doc)
	if r.c.load != nil {
		if err := r.c.load(ctx, r.db, []E{e}); err != nil {
			return zero, err
		}
	}
	return e, nil
}

func (r *Repository[E, D]) find(ctx context.Context, filter bson.M) ([]E, error) {
	var docs []D
	if err := findAll(ctx, r.col, filter, nil, &docs); err != nil {
		return nil, fmt.Errorf("%s: find: %w", r.c.name, err)
	}
	out := make([]E, 0, len(docs))
	for _, d := range docs {
		out = append(out, r.c.fromDoc(d))
	}
	if r.c.load != nil {
		if err := r.c.load(ctx, r.db, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// EnsureIndexes creates the unique indexes that back email, amenity name and
// one-review-per-place rules, plus lookup indexes on foreign references.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	specs := map[string][]mongo.IndexModel{
		userCollection.name: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		amenityCollection.name: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		placeCollection.name: {
			{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		},
		reviewCollection.name: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "place_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "place_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
	}
	for name, indexes := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("%s: create indexes: %w", name, err)
		}
	}
	return nil
}
