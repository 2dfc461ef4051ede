package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tixoraa/tixoraa-backend/internal/domain/verification"
	"github.com/tixoraa/tixoraa-backend/pkg/errorx"
	"github.com/tixoraa/tixoraa-backend/tests/mocks"
)

type ResendCodeSuite struct {
	Handler  *ResendCodeHandler
	MockRepo *mocks.VerificationCodeRepo
}

func NewResendCodeSuite() *ResendCodeSuite {
	mockRepo := mocks.NewVerificationCodeRepo()
	handler := NewResendCodeHandler(ResendCodeHandlerArgs{
		Repo: mockRepo,
	})

	return &ResendCodeSuite{
		Handler:  handler,
		MockRepo: mockRepo,
	}
}

func TestResendCodeHandler_HappyPath(t *testing.T) {
	t.Parallel()

	s := NewResendCodeSuite()
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

	err := s.Handler.Handle(t.Context(), ResendCode{Email: "attendee@tixoraa.com"})
	require.NoError(t, err)

	v := s.MockRepo.GetByID(t, 1)
	assert.NotEqual(t, "654321", v.Code())
	assert.True(t, v.IsRedeemable())

	s.MockRepo.AssertEventCount(t, 1)
	e := mocks.RequireEventExists(t, s.MockRepo, &verification.CodeResent{})
	assert.Equal(t, v.Code(), e.Code)
}

func TestResendCodeHandler_NoActiveCode_ShouldReturnError(t *testing.T) {
	t.Parallel()

	s := NewResendCodeSuite()

	err := s.Handler.Handle(t.Context(), ResendCode{Email: "nobody@tixoraa.com"})
	require.Error(t, err)
	assert.True(t, errorx.IsNotFound(err))
}

func TestResendCodeHandler_WithinCooldown_ShouldReturnError(t *testing.T) {
	t.Parallel()

	s := NewResendCodeSuite()
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

	err := s.Handler.Handle(t.Context(), ResendCode{Email: "attendee@tixoraa.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, verification.ErrResendTooSoon)

	assert.Equal(t, "654321", s.MockRepo.GetByID(t, 1).Code())
	s.MockRepo.AssertEventCount(t, 0)
}
