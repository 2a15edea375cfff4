// Package apperr defines the error kinds shared by the auth and attendance
// packages. Callers classify failures with errors.As / errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed or missing input. It is always raised
// before any write is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Invalid is shorthand for &ValidationError{Field: field, Reason: reason}.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// AuthFailure is returned for any failed credential check. Message is the
// only text a caller may show to the user.
type AuthFailure struct {
	Message string
}

func (e *AuthFailure) Error() string {
	return e.Message
}

// StorageError wraps a fault raised by the datastore. Its message names the
// operation only; the wrapped error is for logs.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: failed to %s", e.Op)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storage wraps err as a StorageError unless it is nil or already one.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsAuthFailure(err error) bool {
	var af *AuthFailure
	return errors.As(err, &af)
}

func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
