package service

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hbnb/rental-api/internal/core/domain"
	"github.com/hbnb/rental-api/internal/core/ports"
)

// Facade is the single entry point the transport layer talks to. It owns the
// cross-entity rules: email uniqueness, ownership, review eligibility and
// relationship resolution.
//
// Operations that touch several repositories are not atomic. A failure part
// way through leaves the earlier steps persisted; every step is a complete
// unit of work on its own backend.
type Facade struct {
	users     ports.UserRepository
	places    ports.PlaceRepository
	amenities ports.AmenityRepository
	reviews   ports.ReviewRepository
	logger    zerolog.Logger

	// amenityMu serializes the name check and insert of amenities within
	// this process. Stores with a unique index also reject duplicates
	// written by other processes.
	amenityMu sync.Mutex
}

var (
	_ ports.UserService    = (*Facade)(nil)
	_ ports.AmenityService = (*Facade)(nil)
	_ ports.PlaceService   = (*Facade)(nil)
	_ ports.ReviewService  = (*Facade)(nil)
)

func NewFacade(repos ports.Repositories, logger zerolog.Logger) *Facade {
	return &Facade{
		users:     repos.Users,
		places:    repos.Places,
		amenities: repos.Amenities,
		reviews:   repos.Reviews,
		logger:    logger,
	}
}

// relation turns a lookup failure on a referenced entity into a relationship
// error. Other errors pass through.
func relation(err error, field, id string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.RelationError{Field: field, ID: id}
	}
	return err
}

func required(field string) error {
	return &domain.ValidationError{Field: field, Constraint: "is required"}
}
