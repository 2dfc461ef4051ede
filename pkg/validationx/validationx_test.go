package validationx

import (
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
)

func TestCodeRules(t *testing.T) {
	t.Parallel()

	valid := []string{"100000", "999999", "654321"}
	for _, code := range valid {
		assert.NoError(t, validation.Validate(code, CodeRules...), code)
	}

	invalid := []string{"", "12345", "1234567", "012345", "12a456", "abcdef"}
	for _, code := range invalid {
		assert.Error(t, validation.Validate(code, CodeRules...), code)
	}
}

func TestPurposeRules(t *testing.T) {
	t.Parallel()

	valid := []string{"email_verification", "signup", "password_reset", "x2"}
	for _, p := range valid {
		assert.NoError(t, validation.Validate(p, PurposeRules...), p)
	}

	invalid := []string{"Email", "has space", "-leading", "_leading"}
	for _, p := range invalid {
		assert.Error(t, validation.Validate(p, PurposeRules...), p)
	}
}
