package services

import (
	"errors"
	"regexp"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/dmitrijs2005/profilely/internal/common"
	"github.com/dmitrijs2005/profilely/internal/server/models"
)

// Field limits mirror the users table.
const (
	maxNameLength     = 64
	maxEmailLength    = 128
	minPasswordLength = 8
	maxPasswordLength = 128
)

var notBlank = regexp.MustCompile(`\S`)

var passwordRules = []validation.Rule{
	validation.Required,
	validation.RuneLength(minPasswordLength, maxPasswordLength),
	validation.By(letterAndDigit),
}

func letterAndDigit(value interface{}) error {
	s, _ := value.(string)
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return errors.New("must contain at least one letter and one digit")
	}
	return nil
}

func nameRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Match(notBlank).Error("cannot be blank"),
		validation.RuneLength(1, maxNameLength),
	}
}

func emailRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		validation.Length(3, maxEmailLength),
		is.Email,
	}
}

func validateAccountInput(in *models.AccountInput) error {
	return toValidationError(validation.ValidateStruct(in,
		validation.Field(&in.FirstName, nameRules()...),
		validation.Field(&in.LastName, nameRules()...),
		validation.Field(&in.Email, emailRules()...),
		validation.Field(&in.Password, passwordRules...),
	))
}

func validateProfileUpdate(upd *models.ProfileUpdate) error {
	// nil pointers are skipped by the rules, so only supplied fields count
	return toValidationError(validation.ValidateStruct(upd,
		validation.Field(&upd.FirstName, validation.NilOrNotEmpty, validation.Match(notBlank).Error("cannot be blank"), validation.RuneLength(1, maxNameLength)),
		validation.Field(&upd.LastName, validation.NilOrNotEmpty, validation.Match(notBlank).Error("cannot be blank"), validation.RuneLength(1, maxNameLength)),
	))
}

func validatePassword(password string) error {
	return toValidationError(validation.Errors{
		"password": validation.Validate(password, passwordRules...),
	}.Filter())
}

func validateEmail(email string) error {
	return toValidationError(validation.Errors{
		"email": validation.Validate(email, emailRules()...),
	}.Filter())
}

// toValidationError converts ozzo errors into the domain validation error.
// Internal rule failures are returned unchanged.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}
	ve := &common.ValidationError{Fields: make(map[string]string, len(errs))}
	for field, e := range errs {
		ve.Fields[field] = e.Error()
	}
	return ve
}
