package store

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across all components and backend implementations.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrDuplicateUser    = errors.New("user already exists")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidLimit     = errors.New("invalid limit")
	ErrInvalidUsername  = errors.New("invalid username")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError names the offending field and the constraint it broke.
// It unwraps to one of the Err* sentinels so callers can use errors.Is.
type ValidationError struct {
	Field      string
	Constraint string
	Err        error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Err, e.Field, e.Constraint)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(sentinel error, field, constraint string) error {
	return &ValidationError{Field: field, Constraint: constraint, Err: sentinel}
}

// UnavailableError wraps a backend failure. Its message never includes the
// cause, which stays reachable through Cause for logging.
type UnavailableError struct {
	Op  string
	err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %s", ErrStoreUnavailable, e.Op)
}

func (e *UnavailableError) Unwrap() error {
	return ErrStoreUnavailable
}

// Cause returns the underlying backend error.
func (e *UnavailableError) Cause() error {
	return e.err
}

// Unavailable wraps err as a StoreUnavailable condition for operation op.
// Errors that already carry a store sentinel are returned unchanged.
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if isDomainError(err) {
		return err
	}
	return &UnavailableError{Op: op, err: err}
}

func isDomainError(err error) bool {
	for _, sentinel := range []error{
		ErrUserNotFound, ErrDuplicateUser, ErrInvalidAmount, ErrInvalidCategory,
		ErrInvalidDate, ErrInvalidLimit, ErrInvalidUsername, ErrStoreUnavailable,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
