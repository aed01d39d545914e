package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound signals that the referenced plant does not exist. Callers can
// tell it apart from a transient datastore failure with errors.Is.
var ErrNotFound = errors.New("plant not found")

// ValidationError reports bad input. It is always returned before any write
// starts, so a validation failure never leaves partial state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError reports a uniqueness violation, in practice a duplicate slug.
type ConflictError struct {
	Field string
	Value string
	Err   error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// PersistenceError wraps any other datastore failure, tagged with the
// operation that was attempted. No retries happen here; retry policy is the
// caller's business.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// translateDBError maps raw gorm/driver errors into the service taxonomy.
// Duplicate-key detection covers both the gorm translated error and the
// raw driver messages, since the unique-slug pre-check races with
// concurrent creates and the constraint is the real arbiter.
func translateDBError(op string, err error) error {
	if err == nil {
		return nil
	}
	// Taxonomy errors surfaced from inside a transaction pass through.
	var vErr *ValidationError
	var cErr *ConflictError
	if errors.Is(err, ErrNotFound) || errors.As(err, &vErr) || errors.As(err, &cErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isDuplicateKey(err) {
		return &ConflictError{Field: "slug", Err: err}
	}
	return &PersistenceError{Op: op, Err: err}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value violates unique constraint") // postgres
}
