package cmd

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tixoraa/tixoraa-backend/internal/domain/verification"
	"github.com/tixoraa/tixoraa-backend/pkg/env"
	"github.com/tixoraa/tixoraa-backend/tests/mocks"
)

type RedeemSuite struct {
	Handler  *RedeemHandler
	MockRepo *mocks.VerificationCodeRepo
}

func NewRedeemSuite() *RedeemSuite {
	mockRepo := mocks.NewVerificationCodeRepo()
	handler := NewRedeemHandler(RedeemHandlerArgs{
		Repo: mockRepo,
	})

	return &RedeemSuite{
		Handler:  handler,
		MockRepo: mockRepo,
	}
}

func seedActiveCode(t *testing.T, repo *mocks.VerificationCodeRepo, email string) *verification.VerificationCode {
	t.Helper()

	v, err := verification.NewCode(verification.NewCodeArgs{Email: email}, env.Test)
	require.NoError(t, err)
	repo.SeedCode(t, v)
	return v
}

func TestRedeemHandler_HappyPath(t *testing.T) {
	t.Parallel()

	s := NewRedeemSuite()
	v := seedActiveCode(t, s.MockRepo, "attendee@tixoraa.com")

	err := s.Handler.Handle(t.Context(), Redeem{
		Email: v.Email(),
		Code:  v.Code(),
	})
	require.NoError(t, err)

	assert.True(t, s.MockRepo.GetByID(t, v.ID()).IsUsed())

	s.MockRepo.AssertEventCount(t, 1)
	e := mocks.RequireEventExists(t, s.MockRepo, &verification.CodeRedeemed{})
	assert.Equal(t, v.ID(), e.CodeID)
	assert.Equal(t, v.Email(), e.Email)
}

func TestRedeemHandler_WrongCode_ShouldReturnError(t *testing.T) {
	t.Parallel()

	s := NewRedeemSuite()
	v := seedActiveCode(t, s.MockRepo, "attendee@tixoraa.com")

	wrong := "111111"
	if v.Code() == wrong {
		wrong = "222222"
	}

	err := s.Handler.Handle(t.Context(), Redeem{Email: v.Email(), Code: wrong})
	require.Error(t, err)
	assert.ErrorIs(t, err, verification.ErrCodeNotRedeemable)

	assert.False(t, s.MockRepo.GetByID(t, v.ID()).IsUsed())
	s.MockRepo.AssertEventCount(t, 0)
}

func TestRedeemHandler_UnknownEmail_ShouldReturnError(t *testing.T) {
	t.Parallel()

	s := NewRedeemSuite()

	err := s.Handler.Handle(t.Context(), Redeem{Email: "nobody@tixoraa.com", Code: "123456"})
	require.Error(t, err)
	assert.ErrorIs(t, err, verification.ErrCodeNotRedeemable)
}

func TestRedeemHandler_ExpiredCode_ShouldReturnError(t *testing.T) {
	t.Parallel()

	s := NewRedeemSuite()
	expired := verification.Rehydrate(verification.RehydrateArgs{
		ID:        1,
		Email:     "attendee@tixoraa.com",
		Code:      "654321",
		Purpose:   verification.PurposeEmailVerification,
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
		CreatedAt: time.Now().UTC().Add(-20 * time.Minute),
	})
	s.MockRepo.SeedCode(t, expired)

	err := s.Handler.Handle(t.Context(), Redeem{Email: "attendee@tixoraa.com", Code: "654321"})
	require.Error(t, err)
	assert.ErrorIs(t, err, verification.ErrCodeNotRedeemable)
}

func TestRedeemHandler_SecondRedeem_ShouldReturnError(t *testing.T) {
	t.Parallel()

	s := NewRedeemSuite()
	v := seedActiveCode(t, s.MockRepo, "attendee@tixoraa.com")

	require.NoError(t, s.Handler.Handle(t.Context(), Redeem{Email: v.Email(), Code: v.Code()}))

	err := s.Handler.Handle(t.Context(), Redeem{Email: v.Email(), Code: v.Code()})
	require.Error(t, err)
	assert.ErrorIs(t, err, verification.ErrCodeNotRedeemable)

	s.MockRepo.AssertEventCount(t, 1)
}

func TestRedeemHandler_ConcurrentRedeems_ExactlyOneWins(t *testing.T) {
	t.Parallel()

	s := NewRedeemSuite()
	v := seedActiveCode(t, s.MockRepo, "attendee@tixoraa.com")

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.Handler.Handle(t.Context(), Redeem{Email: v.Email(), Code: v.Code()})
		}()
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, verification.ErrCodeNotRedeemable)
		}
	}
	assert.Equal(t, 1, succeeded)
	s.MockRepo.AssertEventCount(t, 1)
}
