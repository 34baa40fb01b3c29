package domain

import (
	"time"

	"github.com/google/uuid"
)

// Kind names an entity type. It is used in lookup errors and to resolve the
// attribute names a repository may filter on.
type Kind string

const (
	KindUser    Kind = "user"
	KindPlace   Kind = "place"
	KindAmenity Kind = "amenity"
	KindReview  Kind = "review"
)

var baseAttributes = []string{"id", "created_at", "updated_at"}

var kindAttributes = map[Kind][]string{
	KindUser:    {"first_name", "last_name", "email", "is_admin"},
	KindPlace:   {"title", "description", "price", "latitude", "longitude", "max_person", "owner_id"},
	KindAmenity: {"name"},
	KindReview:  {"text", "rating", "user_id", "place_id"},
}

// HasAttribute reports whether name is a filterable attribute of k.
func (k Kind) HasAttribute(name string) bool {
	for _, a := range baseAttributes {
		if a == name {
			return true
		}
	}
	for _, a := range kindAttributes[k] {
		if a == name {
			return true
		}
	}
	return false
}

// Entity is implemented by every stored record.
type Entity interface {
	GetID() string
	// Attribute returns the current value of a named attribute, as used by
	// repository attribute scans.
	Attribute(name string) (any, bool)
}

// Patch is a typed partial update for an entity. Apply validates every
// present field before mutating anything.
type Patch[E Entity] interface {
	Apply(E) error
}

// EnsureIdentity rejects a full replacement whose entity does not carry id.
func EnsureIdentity(id string, e Entity) error {
	if e.GetID() != id {
		return invalid("id", "replacement entity has id %q, expected %q", e.GetID(), id)
	}
	return nil
}

// TimestampPrecision is the resolution of every entity timestamp. It matches
// the coarsest supported store (BSON datetimes) so a value written by any
// backend reads back unchanged.
const TimestampPrecision = time.Millisecond

var now = func() time.Time {
	return time.Now().UTC().Truncate(TimestampPrecision)
}

// Base carries identity and timestamps shared by all entities.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newBase() Base {
	t := now()
	return Base{ID: uuid.NewString(), CreatedAt: t, UpdatedAt: t}
}

func (b *Base) GetID() string { return b.ID }

// touch advances UpdatedAt, strictly and by at least one TimestampPrecision
// step, even when the clock has not moved.
func (b *Base) touch() {
	t := now()
	if !t.After(b.UpdatedAt.Truncate(TimestampPrecision)) {
		t = b.UpdatedAt.Truncate(TimestampPrecision).Add(TimestampPrecision)
	}
	b.UpdatedAt = t
}

func (b *Base) attribute(name string) (any, bool) {
	switch name {
	case "id":
		return b.ID, true
	case "created_at":
		return b.CreatedAt, true
	case "updated_at":
		return b.UpdatedAt, true
	}
	return nil, false
}
