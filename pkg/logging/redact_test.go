package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"typical", "attendee@tixoraa.com", "at****@tixoraa.com"},
		{"short local kept", "ab@tixoraa.com", "ab@tixoraa.com"},
		{"empty", "", ""},
		{"no at", "not-an-email", "not-an-email"},
		{"at at end", "user@", "user@"},
		{"at at start", "@tixoraa.com", "@tixoraa.com"},
		{"unicode local", "áéíóú@tixoraa.com", "áé****@tixoraa.com"},
		{"trimmed", "  attendee@tixoraa.com  ", "at****@tixoraa.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, RedactEmail(tt.in))
		})
	}
}

func TestRedactCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "****56", RedactCode("123456"))
	assert.Equal(t, "**", RedactCode("12"))
	assert.Equal(t, "", RedactCode(""))
}
