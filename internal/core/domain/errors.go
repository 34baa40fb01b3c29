package domain

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by the core matches exactly one of
// these through errors.Is.
var (
	ErrValidation       = errors.New("validation failed")
	ErrRelationship     = errors.New("invalid relationship")
	ErrBusinessRule     = errors.New("business rule violated")
	ErrNotFound         = errors.New("not found")
	ErrUnknownAttribute = errors.New("unknown attribute")
)

var (
	ErrEmailTaken      = fmt.Errorf("%w: email already registered", ErrBusinessRule)
	ErrSelfReview      = fmt.Errorf("%w: you cannot review your own place", ErrBusinessRule)
	ErrDuplicateReview = fmt.Errorf("%w: you have already reviewed this place", ErrBusinessRule)
	ErrAmenityExists   = fmt.Errorf("%w: amenity already exists", ErrBusinessRule)
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrTokenRevoked       = errors.New("token revoked")
)

// ValidationError reports a single field that failed a format, length or
// range check.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Constraint)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Constraint: fmt.Sprintf(format, args...)}
}

// NotFoundError is a lookup failure on an identifier.
type NotFoundError struct {
	Entity Kind
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound builds a lookup failure for the given entity kind.
func NotFound(kind Kind, id string) error {
	return &NotFoundError{Entity: kind, ID: id}
}

// RelationError reports a reference (owner, place, user, amenity) that does
// not resolve to an existing entity.
type RelationError struct {
	Field string
	ID    string
}

func (e *RelationError) Error() string {
	return fmt.Sprintf("%s not found: %q", e.Field, e.ID)
}

func (e *RelationError) Is(target error) bool { return target == ErrRelationship }
