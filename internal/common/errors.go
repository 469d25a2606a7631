// Package common defines the sentinel errors of the account lifecycle.
// There is exactly one error per failure category: callers match them with
// errors.Is and must not try to recover the underlying cause.
package common

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// ErrConflict is returned when an account with the same email exists in any state.
	ErrConflict = errors.New("account already exists")

	// ErrLinkInvalid covers every verification/reset link failure: decoding,
	// lookup and integrity mismatch are deliberately indistinguishable.
	ErrLinkInvalid = errors.New("link has expired or invalid")

	// ErrInvalidCredential covers bad logins and bad/expired bearer tokens.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrorForbidden is an authorization denial.
	ErrorForbidden = errors.New("permission denied")

	ErrValidation  = errors.New("validation error")
	ErrPersistence = errors.New("persistence error")
)

// ValidationError carries per-field messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// PersistenceError wraps an unexpected store failure. The cause is kept for
// logs only; the HTTP layer never renders it.
type PersistenceError struct {
	Op  string
	Err error
}

// NewPersistenceError wraps err, returning nil for a nil err.
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
