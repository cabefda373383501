// Package apperr defines the error values shared by the record store, the
// bingo engine and the HTTP layer. Handlers translate these into status
// codes; repositories translate driver errors into them.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced event, card, profile or
	// record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the actor is known but lacks the role or
	// ownership required for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthenticated is returned when an operation requires an actor and
	// none was supplied.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidState is returned when an operation would violate an entity
	// invariant, e.g. toggling the free space.
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict signals a uniqueness violation or a lost optimistic
	// concurrency race.
	ErrConflict = errors.New("conflict")

	// ErrStore is the sentinel matched by every StoreError.
	ErrStore = errors.New("store failure")
)

// StoreError wraps an error returned by the underlying database so callers
// can tell an I/O failure apart from absence.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

// Is reports true for ErrStore so errors.Is(err, ErrStore) matches any
// wrapped store failure.
func (e *StoreError) Is(target error) bool { return target == ErrStore }

// Store wraps err as a StoreError for operation op. A nil err stays nil.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// Invalid returns an ErrInvalidState carrying a human readable reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}
