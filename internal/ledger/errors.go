package ledger

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrIntegrity  = errors.New("integrity violation")
)

// Entity names the kind of record an error is about.
type Entity string

const (
	EntityTopic        Entity = "topic"
	EntityCampaign     Entity = "campaign"
	EntityContribution Entity = "contribution"
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type NotFoundError struct {
	Entity Entity
	ID     uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type ConflictError struct {
	Entity Entity
	ID     uuid.UUID
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Entity, e.ID, e.Reason)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// IntegrityError reports a foreign-key violation raised by the store.
type IntegrityError struct {
	Entity Entity
	ID     uuid.UUID
	Err    error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s %s: integrity violation: %v", e.Entity, e.ID, e.Err)
}

func (e *IntegrityError) Is(target error) bool { return target == ErrIntegrity }

func (e *IntegrityError) Unwrap() error { return e.Err }
