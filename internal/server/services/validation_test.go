package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/profilely/internal/common"
	"github.com/dmitrijs2005/profilely/internal/server/models"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		ok       bool
	}{
		{"abcdefg1", true},
		{"пароль123", true},
		{"abc1", false},
		{"abcdefgh", false},
		{"12345678", false},
		{"", false},
		{strings.Repeat("a", 127) + "1", true},
		{strings.Repeat("a", 128) + "1", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := validatePassword(tt.password)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var ve *common.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Contains(t, ve.Fields, "password")
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, validateEmail("a@b.io"))
	assert.ErrorIs(t, validateEmail(""), common.ErrValidation)
	assert.ErrorIs(t, validateEmail("plainaddress"), common.ErrValidation)
	assert.ErrorIs(t, validateEmail(strings.Repeat("a", 125)+"@b.io"), common.ErrValidation)
}

func TestValidateAccountInput_CollectsAllFields(t *testing.T) {
	in := models.AccountInput{Email: "bad"}
	err := validateAccountInput(&in)

	var ve *common.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Fields, 4)
	for _, f := range []string{"first_name", "last_name", "email", "password"} {
		assert.Contains(t, ve.Fields, f)
	}
}

func TestValidateProfileUpdate(t *testing.T) {
	s := func(v string) *string { return &v }

	assert.NoError(t, validateProfileUpdate(&models.ProfileUpdate{Bio: s("")}))
	assert.NoError(t, validateProfileUpdate(&models.ProfileUpdate{FirstName: s("Ann")}))
	assert.ErrorIs(t, validateProfileUpdate(&models.ProfileUpdate{FirstName: s("")}), common.ErrValidation)
	assert.ErrorIs(t, validateProfileUpdate(&models.ProfileUpdate{LastName: s("\t")}), common.ErrValidation)
	assert.ErrorIs(t, validateProfileUpdate(&models.ProfileUpdate{LastName: s(strings.Repeat("x", 65))}), common.ErrValidation)
}
