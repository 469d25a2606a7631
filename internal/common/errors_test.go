package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_IsAndMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"password": "too short",
		"email":    "must be a valid email address",
	}}

	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "validation error: email: must be a valid email address; password: too short", err.Error())

	var ve *ValidationError
	wrapped := fmt.Errorf("register: %w", err)
	assert.True(t, errors.As(wrapped, &ve))
	assert.Equal(t, "too short", ve.Fields["password"])
}

func TestPersistenceError_WrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewPersistenceError("create account", cause)

	assert.True(t, errors.Is(err, ErrPersistence))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "create account: connection reset", err.Error())
	assert.NoError(t, NewPersistenceError("noop", nil))
}

func TestSentinels_AreDistinct(t *testing.T) {
	all := []error{ErrorNotFound, ErrConflict, ErrLinkInvalid, ErrInvalidCredential, ErrorForbidden, ErrValidation, ErrPersistence}
	for i := range all {
		for j := range all {
			if i != j {
				assert.False(t, errors.Is(all[i], all[j]), "%v must not match %v", all[i], all[j])
			}
		}
	}
}
