package verification

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tixoraa/tixoraa-backend/pkg/env"
)

var codeRx = regexp.MustCompile(`^[1-9][0-9]{5}$`)

func TestNewCode(t *testing.T) {
	t.Parallel()

	v, err := NewCode(NewCodeArgs{Email: "attendee@tixoraa.com"}, env.Test)
	require.NoError(t, err)

	assert.Equal(t, "attendee@tixoraa.com", v.Email())
	assert.Regexp(t, codeRx, v.Code())
	assert.Equal(t, PurposeEmailVerification, v.Purpose())
	assert.False(t, v.IsUsed())
	assert.True(t, v.IsRedeemable())
	assert.WithinDuration(t, time.Now().UTC().Add(DefaultTTL), v.ExpiresAt(), 5*time.Second)

	events := v.GetUncommittedEvents()
	require.Len(t, events, 1)
	issued, ok := events[0].(*CodeIssued)
	require.True(t, ok)
	assert.Equal(t, v.Email(), issued.Email)
	assert.Equal(t, v.Code(), issued.Code)
}

func TestNewCode_CustomArgs(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	v, err := NewCode(NewCodeArgs{
		Email:    "attendee@tixoraa.com",
		UserID:   userID,
		Purpose:  PurposePasswordReset,
		Metadata: `{"event":"summer-fest"}`,
		TTL:      30 * time.Minute,
	}, env.Test)
	require.NoError(t, err)

	assert.Equal(t, userID, v.UserID())
	assert.Equal(t, PurposePasswordReset, v.Purpose())
	assert.Equal(t, `{"event":"summer-fest"}`, v.Metadata())
	assert.WithinDuration(t, time.Now().UTC().Add(30*time.Minute), v.ExpiresAt(), 5*time.Second)
}

func TestNewCode_InvalidEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		email string
		mode  env.Mode
	}{
		{"empty", "", env.Test},
		{"no at", "not-an-email", env.Test},
		{"too short", "a@b", env.Test},
		{"no TLD in prod", "user@localhost", env.Prod},
		{"internal domain in dev", "user@tixoraa.internal", env.Dev},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewCode(NewCodeArgs{Email: tt.email}, tt.mode)
			require.Error(t, err)
		})
	}
}

func TestNewCode_LocalDomainAllowedInTestMode(t *testing.T) {
	t.Parallel()

	_, err := NewCode(NewCodeArgs{Email: "user@tixoraa.internal"}, env.Test)
	require.NoError(t, err)
}

func TestNewCode_DomainNeedNotResolve(t *testing.T) {
	t.Parallel()

	// Email checks are syntax and public-suffix only. Issuing a code must
	// never depend on the address's domain resolving in DNS.
	v, err := NewCode(NewCodeArgs{Email: "attendee@no-such-host-482913.example.com"}, env.Prod)
	require.NoError(t, err)
	assert.Regexp(t, codeRx, v.Code())
}

func TestVerificationCode_MarkAsUsed(t *testing.T) {
	t.Parallel()

	v, err := NewCode(NewCodeArgs{Email: "attendee@tixoraa.com"}, env.Test)
	require.NoError(t, err)
	v.MarkEventsAsCommitted()

	require.NoError(t, v.MarkAsUsed())
	assert.True(t, v.IsUsed())
	assert.False(t, v.IsRedeemable())
	require.Len(t, v.GetUncommittedEvents(), 1)

	// second call is a no-op, no error, no extra event
	require.NoError(t, v.MarkAsUsed())
	assert.True(t, v.IsUsed())
	assert.Len(t, v.GetUncommittedEvents(), 1)
}

func TestVerificationCode_MarkAsUsed_Expired(t *testing.T) {
	t.Parallel()

	v := Rehydrate(RehydrateArgs{
		ID:        1,
		Email:     "attendee@tixoraa.com",
		Code:      "654321",
		Purpose:   PurposeEmailVerification,
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
		CreatedAt: time.Now().UTC().Add(-20 * time.Minute),
	})

	require.False(t, v.IsRedeemable())
	require.Error(t, v.MarkAsUsed())
	assert.False(t, v.IsUsed())
}

func TestVerificationCode_Resend(t *testing.T) {
	t.Parallel()

	v := Rehydrate(RehydrateArgs{
		ID:            7,
		Email:         "attendee@tixoraa.com",
		Code:          "654321",
		Purpose:       PurposeSignup,
		ResendTimeout: time.Now().UTC().Add(-time.Second),
		ExpiresAt:     time.Now().UTC().Add(5 * time.Minute),
		CreatedAt:     time.Now().UTC().Add(-2 * time.Minute),
	})

	require.NoError(t, v.Resend())
	assert.NotEqual(t, "654321", v.Code())
	assert.Regexp(t, codeRx, v.Code())
	assert.False(t, v.IsUsed())
	assert.True(t, v.ExpiresAt().After(time.Now().Add(10*time.Minute)))

	events := v.GetUncommittedEvents()
	require.Len(t, events, 1)
	resent, ok := events[0].(*CodeResent)
	require.True(t, ok)
	assert.Equal(t, v.Code(), resent.Code)
	assert.Equal(t, int64(7), resent.CodeID)
}

func TestVerificationCode_Resend_TooSoon(t *testing.T) {
	t.Parallel()

	v, err := NewCode(NewCodeArgs{Email: "attendee@tixoraa.com"}, env.Test)
	require.NoError(t, err)

	err = v.Resend()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResendTooSoon)
}

func TestVerificationCode_Resend_Used(t *testing.T) {
	t.Parallel()

	v := Rehydrate(RehydrateArgs{
		ID:            3,
		Email:         "attendee@tixoraa.com",
		Code:          "654321",
		IsUsed:        true,
		ResendTimeout: time.Now().UTC().Add(-time.Minute),
		ExpiresAt:     time.Now().UTC().Add(5 * time.Minute),
	})

	err := v.Resend()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyUsed)
}

func TestVerificationCode_AssignID(t *testing.T) {
	t.Parallel()

	v, err := NewCode(NewCodeArgs{Email: "attendee@tixoraa.com"}, env.Test)
	require.NoError(t, err)
	require.Zero(t, v.ID())

	v.AssignID(42)
	assert.Equal(t, int64(42), v.ID())

	v.AssignID(43)
	assert.Equal(t, int64(42), v.ID())
}

func TestVerificationCode_AssignID_StampsPendingIssuedEvent(t *testing.T) {
	t.Parallel()

	v, err := NewCode(NewCodeArgs{Email: "attendee@tixoraa.com"}, env.Test)
	require.NoError(t, err)

	events := v.GetUncommittedEvents()
	require.Len(t, events, 1)
	issued, ok := events[0].(*CodeIssued)
	require.True(t, ok)
	require.Zero(t, issued.CodeID)

	v.AssignID(42)
	assert.Equal(t, int64(42), issued.CodeID)
}
