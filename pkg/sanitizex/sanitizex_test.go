package sanitizex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanSingleLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "attendee@tixoraa.com", "attendee@tixoraa.com"},
		{"trims", "  123456  ", "123456"},
		{"collapses whitespace", "a \t b\nc", "a b c"},
		{"strips control chars", "12\x0034\x7f56", "12 34 56"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CleanSingleLine(tt.in))
		})
	}
}
