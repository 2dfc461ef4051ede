package verification

import (
	"errors"

	"github.com/tixoraa/tixoraa-backend/pkg/errorx"
)

var (
	ErrNilCode = errors.New("verification code is nil")

	ErrInvalidEmail          = errorx.NewValidationFailed().WithCause(errors.New("invalid email address"))
	ErrEmailDomainNotAllowed = errorx.NewValidationFailed().WithCause(errors.New("email domain has no real top-level domain"))

	// ErrCodeNotRedeemable is the unified redemption rejection: callers never
	// learn whether the code was wrong, expired, or already used.
	ErrCodeNotRedeemable = errorx.NewCodeNotRedeemable()

	ErrAlreadyUsed   = errorx.NewAlreadyProcessed()
	ErrResendTooSoon = errorx.NewResendTooSoon()
)
