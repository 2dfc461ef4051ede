package validationx

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var ErrInvalidCodeFormat = validation.NewError(
	"validation_is_verification_code",
	"must be a 6-digit code",
)

// Codes never start with 0; see randcode.
var codeRegex = regexp.MustCompile(`^[1-9][0-9]{5}$`)

var purposeRegex = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

var IsVerificationCode = validation.By(func(value any) error {
	s, ok := value.(string)
	if !ok {
		return errors.New("value is not a string")
	}
	if s == "" {
		return nil // Let Required handle emptiness
	}
	if !codeRegex.MatchString(s) {
		return ErrInvalidCodeFormat
	}
	return nil
})

var IsPurpose = validation.By(func(value any) error {
	s, ok := value.(string)
	if !ok {
		return errors.New("value is not a string")
	}
	if s == "" {
		return nil
	}
	if !purposeRegex.MatchString(s) {
		return errors.New("must be a lowercase snake_case tag")
	}
	return nil
})

var (
	EmailRules = []validation.Rule{
		validation.Required,
		is.EmailFormat,
		validation.Length(5, 254),
	}

	CodeRules = []validation.Rule{
		validation.Required,
		validation.Length(6, 6),
		IsVerificationCode,
	}

	PurposeRules = []validation.Rule{
		validation.Length(1, 64),
		IsPurpose,
	}
)
