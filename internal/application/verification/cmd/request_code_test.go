package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tixoraa/tixoraa-backend/internal/domain/verification"
	"github.com/tixoraa/tixoraa-backend/pkg/env"
	"github.com/tixoraa/tixoraa-backend/tests/mocks"
)

type RequestCodeSuite struct {
	Handler  *RequestCodeHandler
	MockRepo *mocks.VerificationCodeRepo
}

func NewRequestCodeSuite() *RequestCodeSuite {
	mockRepo := mocks.NewVerificationCodeRepo()
	handler := NewRequestCodeHandler(RequestCodeHandlerArgs{
		Mode: env.Test,
		Repo: mockRepo,
	})

	return &RequestCodeSuite{
		Handler:  handler,
		MockRepo: mockRepo,
	}
}

func TestRequestCodeHandler_HappyPath(t *testing.T) {
	t.Parallel()

	s := NewRequestCodeSuite()

	err := s.Handler.Handle(t.Context(), RequestCode{Email: "attendee@tixoraa.com"})
	require.NoError(t, err)

	s.MockRepo.AssertEventCount(t, 1)
	e := mocks.RequireEventExists(t, s.MockRepo, &verification.CodeIssued{})
	assert.Equal(t, "attendee@tixoraa.com", e.Email)
	assert.Regexp(t, `^[1-9][0-9]{5}$`, e.Code)

	v := s.MockRepo.GetByID(t, 1)
	assert.Equal(t, e.Code, v.Code())
	assert.True(t, v.IsRedeemable())
}

func TestRequestCodeHandler_ActiveCodeRotated(t *testing.T) {
	t.Parallel()

	s := NewRequestCodeSuite()
	existing := verification.Rehydrate(verification.RehydrateArgs{
		ID:            1,
		Email:         "attendee@tixoraa.com",
		Code:          "654321",
		Purpose:       verification.PurposeEmailVerification,
		ResendTimeout: time.Now().UTC().Add(-time.Minute),
		ExpiresAt:     time.Now().UTC().Add(5 * time.Minute),
		CreatedAt:     time.Now().UTC().Add(-5 * time.Minute),
	})
	s.MockRepo.SeedCode(t, existing)

	err := s.Handler.Handle(t.Context(), RequestCode{Email: "attendee@tixoraa.com"})
	require.NoError(t, err)

	s.MockRepo.AssertEventCount(t, 1)
	e := mocks.RequireEventExists(t, s.MockRepo, &verification.CodeResent{})
	assert.NotEqual(t, "654321", e.Code)

	v := s.MockRepo.GetByID(t, 1)
	assert.Equal(t, e.Code, v.Code())
}

func TestRequestCodeHandler_WithinCooldown_ShouldReturnError(t *testing.T) {
	t.Parallel()

	s := NewRequestCodeSuite()
	existing := verification.Rehydrate(verification.RehydrateArgs{
		ID:            1,
		Email:         "attendee@tixoraa.com",
		Code:          "654321",
		Purpose:       verification.PurposeEmailVerification,
		ResendTimeout: time.Now().UTC().Add(30 * time.Second),
		ExpiresAt:     time.Now().UTC().Add(14 * time.Minute),
		CreatedAt:     time.Now().UTC(),
	})
	s.MockRepo.SeedCode(t, existing)

	err := s.Handler.Handle(t.Context(), RequestCode{Email: "attendee@tixoraa.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, verification.ErrResendTooSoon)

	s.MockRepo.AssertEventCount(t, 0)
}

func TestRequestCodeHandler_InvalidEmail_ShouldReturnError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		email string
	}{
		{"empty", ""},
		{"no at sign", "not-an-email"},
		{"bare domain", "@tixoraa.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := NewRequestCodeSuite()
			err := s.Handler.Handle(t.Context(), RequestCode{Email: tt.email})
			require.Error(t, err)

			s.MockRepo.AssertEventCount(t, 0)
		})
	}
}
