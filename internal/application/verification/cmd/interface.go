package cmd

import (
	"context"

	"github.com/tixoraa/tixoraa-backend/internal/domain/verification"
)

type Repo interface {
	SaveCode(ctx context.Context, v *verification.VerificationCode) error
	GetLatestByEmail(ctx context.Context, email string) (*verification.VerificationCode, error)
	ConsumeByEmailAndCode(ctx context.Context, email, code string) (*verification.VerificationCode, error)
	UpdateCode(ctx context.Context, v *verification.VerificationCode) error
}
