package verification

import (
	"net/mail"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	"github.com/tixoraa/tixoraa-backend/internal/domain/event"
	"github.com/tixoraa/tixoraa-backend/pkg/env"
	"github.com/tixoraa/tixoraa-backend/pkg/errorx"
	"github.com/tixoraa/tixoraa-backend/pkg/randcode"
)

const (
	CodeLength     = 6
	MaxEmailLength = 254

	DefaultTTL    = 15 * time.Minute
	ResendTimeout = 1 * time.Minute
)

// Purpose discriminates concurrent codes for the same address. Free-form
// snake_case tags are allowed; these are the ones Tixoraa issues itself.
type Purpose string

const (
	PurposeEmailVerification Purpose = "email_verification"
	PurposeSignup            Purpose = "signup"
	PurposePasswordReset     Purpose = "password_reset"
)

func (p Purpose) String() string {
	return string(p)
}

// VerificationCode is a single-use, time-boxed numeric secret tied to an
// email address. Email is the canonical lookup key; UserID is a denormalized
// convenience for flows where an account already exists.
type VerificationCode struct {
	event.Recorder
	id            int64
	userID        uuid.UUID
	email         string
	code          string
	purpose       Purpose
	metadata      string
	isUsed        bool
	resendTimeout time.Time
	expiresAt     time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

type NewCodeArgs struct {
	Email    string
	UserID   uuid.UUID
	Purpose  Purpose
	Metadata string
	TTL      time.Duration
}

func NewCode(args NewCodeArgs, mode env.Mode) (*VerificationCode, error) {
	const op = "verification.NewCode"

	if err := validateEmail(args.Email, mode); err != nil {
		return nil, errorx.Wrap(err, op)
	}

	purpose := args.Purpose
	if purpose == "" {
		purpose = PurposeEmailVerification
	}

	ttl := args.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	code, err := randcode.GenerateNumericCode()
	if err != nil {
		return nil, errorx.Wrap(err, op)
	}

	now := time.Now().UTC()

	v := &VerificationCode{
		userID:        args.UserID,
		email:         args.Email,
		code:          code,
		purpose:       purpose,
		metadata:      args.Metadata,
		isUsed:        false,
		resendTimeout: now.Add(ResendTimeout),
		expiresAt:     now.Add(ttl),
		createdAt:     now,
		updatedAt:     now,
	}

	v.AddEvent(&CodeIssued{
		Header:    event.NewEventHeader(),
		Email:     v.email,
		Code:      v.code,
		Purpose:   v.purpose,
		ExpiresAt: v.expiresAt,
	})

	return v, nil
}

type RehydrateArgs struct {
	ID            int64
	UserID        uuid.UUID
	Email         string
	Code          string
	Purpose       Purpose
	Metadata      string
	IsUsed        bool
	ResendTimeout time.Time
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func Rehydrate(args RehydrateArgs) *VerificationCode {
	return &VerificationCode{
		id:            args.ID,
		userID:        args.UserID,
		email:         args.Email,
		code:          args.Code,
		purpose:       args.Purpose,
		metadata:      args.Metadata,
		isUsed:        args.IsUsed,
		resendTimeout: args.ResendTimeout,
		expiresAt:     args.ExpiresAt,
		createdAt:     args.CreatedAt,
		updatedAt:     args.UpdatedAt,
	}
}

// AssignID is called by the store once, after the insert returns the
// surrogate key. Reassignment is a no-op.
func (v *VerificationCode) AssignID(id int64) {
	if v == nil || v.id != 0 {
		return
	}
	v.id = id

	// The issued event is recorded before the store hands out the key, so the
	// pending event has to pick the id up here.
	for _, e := range v.GetUncommittedEvents() {
		if issued, ok := e.(*CodeIssued); ok && issued.CodeID == 0 {
			issued.CodeID = id
		}
	}
}

func (v *VerificationCode) ID() int64 {
	if v == nil {
		return 0
	}
	return v.id
}

func (v *VerificationCode) UserID() uuid.UUID {
	if v == nil {
		return uuid.Nil
	}
	return v.userID
}

func (v *VerificationCode) Email() string {
	if v == nil {
		return ""
	}
	return v.email
}

func (v *VerificationCode) Code() string {
	if v == nil {
		return ""
	}
	return v.code
}

func (v *VerificationCode) Purpose() Purpose {
	if v == nil {
		return ""
	}
	return v.purpose
}

func (v *VerificationCode) Metadata() string {
	if v == nil {
		return ""
	}
	return v.metadata
}

func (v *VerificationCode) IsUsed() bool {
	if v == nil {
		return false
	}
	return v.isUsed
}

func (v *VerificationCode) ResendTimeout() time.Time {
	if v == nil {
		return time.Time{}
	}
	return v.resendTimeout
}

func (v *VerificationCode) ExpiresAt() time.Time {
	if v == nil {
		return time.Time{}
	}
	return v.expiresAt
}

func (v *VerificationCode) CreatedAt() time.Time {
	if v == nil {
		return time.Time{}
	}
	return v.createdAt
}

func (v *VerificationCode) UpdatedAt() time.Time {
	if v == nil {
		return time.Time{}
	}
	return v.updatedAt
}

func (v *VerificationCode) IsExpired() bool {
	if v == nil || v.expiresAt.IsZero() {
		return true
	}
	return !time.Now().Before(v.expiresAt)
}

// IsRedeemable reports whether a redemption attempt with a matching code
// would succeed right now.
func (v *VerificationCode) IsRedeemable() bool {
	return v != nil && !v.isUsed && !v.IsExpired()
}

func (v *VerificationCode) Matches(code string) bool {
	return v != nil && v.code == code
}

func (v *VerificationCode) CanResend() bool {
	if v == nil || v.resendTimeout.IsZero() {
		return false
	}
	return time.Now().After(v.resendTimeout)
}

// MarkAsUsed flips the single-use flag. Calling it on an already-used code
// is a no-op, not an error: delivery-layer retries may duplicate the call.
func (v *VerificationCode) MarkAsUsed() error {
	const op = "verification.VerificationCode.MarkAsUsed"
	if v == nil {
		return errorx.Wrap(ErrNilCode, op)
	}
	if v.isUsed {
		return nil
	}
	if v.IsExpired() {
		return errorx.Wrap(ErrCodeNotRedeemable, op)
	}

	v.isUsed = true
	v.updatedAt = time.Now().UTC()

	v.AddEvent(&CodeRedeemed{
		Header:  event.NewEventHeader(),
		CodeID:  v.id,
		Email:   v.email,
		Purpose: v.purpose,
	})

	return nil
}

// Resend replaces the code with a fresh one and restarts the clock. A resend
// is a new secret, never a replay of the old row's value.
func (v *VerificationCode) Resend() error {
	const op = "verification.VerificationCode.Resend"
	if v == nil {
		return errorx.Wrap(ErrNilCode, op)
	}
	if v.isUsed {
		return errorx.Wrap(ErrAlreadyUsed, op)
	}
	if !v.CanResend() {
		return errorx.Wrap(ErrResendTooSoon, op)
	}

	code, err := randcode.GenerateNumericCode()
	if err != nil {
		return errorx.Wrap(err, op)
	}

	now := time.Now().UTC()
	v.code = code
	v.resendTimeout = now.Add(ResendTimeout)
	v.expiresAt = now.Add(DefaultTTL)
	v.updatedAt = now

	v.AddEvent(&CodeResent{
		Header:    event.NewEventHeader(),
		CodeID:    v.id,
		Email:     v.email,
		Code:      v.code,
		Purpose:   v.purpose,
		ExpiresAt: v.expiresAt,
	})

	return nil
}

func validateEmail(email string, mode env.Mode) error {
	if err := validation.Validate(email, validation.Required, validation.Length(5, MaxEmailLength), is.EmailFormat); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	if (mode == env.Dev || mode == env.Prod) && !hasRealTLD(email) {
		return ErrEmailDomainNotAllowed
	}

	return nil
}

func hasRealTLD(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return false
	}

	at := strings.LastIndexByte(parsed.Address, '@')
	domain := parsed.Address[at+1:]

	suffix, icann := publicsuffix.PublicSuffix(domain)

	// If the suffix is the whole domain there is no registrable part, which
	// rules out "localhost", "internal" and friends.
	return icann && suffix != domain
}
