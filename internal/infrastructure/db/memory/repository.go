// Package memory holds process-local implementations of the storage ports.
// Entities are stored by pointer: a value returned by Get is the stored
// entity itself, as in any in-process object table.
package memory

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/hbnb/rental-api/internal/core/domain"
	"github.com/hbnb/rental-api/internal/core/ports"
)

// Repository is a map-backed ports.Repository. The mutex guards the map
// itself; two callers mutating the same entity are not isolated from each
// other and the last write wins.
type Repository[E domain.Entity] struct {
	kind  domain.Kind
	mu    sync.RWMutex
	items map[string]E
}

var _ ports.Repository[*domain.User] = (*Repository[*domain.User])(nil)

func NewRepository[E domain.Entity](kind domain.Kind) *Repository[E] {
	return &Repository[E]{kind: kind, items: make(map[string]E)}
}

// NewRepositories returns one empty repository per entity.
func NewRepositories() ports.Repositories {
	return ports.Repositories{
		Users:     NewRepository[*domain.User](domain.KindUser),
		Places:    NewRepository[*domain.Place](domain.KindPlace),
		Amenities: NewRepository[*domain.Amenity](domain.KindAmenity),
		Reviews:   NewRepository[*domain.Review](domain.KindReview),
	}
}

func (r *Repository[E]) Add(_ context.Context, entity E) error {
	r.mu.Lock()
	r.items[entity.GetID()] = entity
	r.mu.Unlock()
	return nil
}

func (r *Repository[E]) Get(_ context.Context, id string) (E, error) {
	r.mu.RLock()
	e, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		var zero E
		return zero, domain.NotFound(r.kind, id)
	}
	return e, nil
}

func (r *Repository[E]) GetAll(_ context.Context) ([]E, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]E, 0, len(r.items))
	for _, e := range r.items {
		out = append(out, e)
	}
	return out, nil
}

// Update applies patch to the stored entity in place.
func (r *Repository[E]) Update(_ context.Context, id string, patch domain.Patch[E]) (E, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[id]
	if !ok {
		var zero E
		return zero, domain.NotFound(r.kind, id)
	}
	if err := patch.Apply(e); err != nil {
		var zero E
		return zero, err
	}
	return e, nil
}

func (r *Repository[E]) Replace(_ context.Context, id string, entity E) error {
	if err := domain.EnsureIdentity(id, entity); err != nil {
		return err
	}
	r.mu.Lock()
	r.items[id] = entity
	r.mu.Unlock()
	return nil
}

func (r *Repository[E]) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

// GetByAttribute scans every entity.
func (r *Repository[E]) GetByAttribute(_ context.Context, name string, value any) ([]E, error) {
	if !r.kind.HasAttribute(name) {
		return nil, domain.ErrUnknownAttribute
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []E{}
	for _, e := range r.items {
		if v, ok := e.Attribute(name); ok && attributeEqual(v, value) {
			out = append(out, e)
		}
	}
	return out, nil
}

func attributeEqual(stored, want any) bool {
	if t, ok := stored.(time.Time); ok {
		w, ok := want.(time.Time)
		return ok && t.Equal(w)
	}
	return reflect.DeepEqual(stored, want)
}
