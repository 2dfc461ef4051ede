package postgres

import (
	"time"

	"github.com/google/uuid"

	"github.com/tixoraa/tixoraa-backend/internal/domain/verification"
)

type VerificationCodeDTO struct {
	ID            int64
	UserID        uuid.NullUUID
	Email         string
	Code          string
	Purpose       string
	Metadata      string
	IsUsed        bool
	ResendTimeout time.Time
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func DomainToVerificationCodeDTO(v *verification.VerificationCode) VerificationCodeDTO {
	return VerificationCodeDTO{
		ID:            v.ID(),
		UserID:        uuid.NullUUID{UUID: v.UserID(), Valid: v.UserID() != uuid.Nil},
		Email:         v.Email(),
		Code:          v.Code(),
		Purpose:       v.Purpose().String(),
		Metadata:      v.Metadata(),
		IsUsed:        v.IsUsed(),
		ResendTimeout: v.ResendTimeout(),
		ExpiresAt:     v.ExpiresAt(),
		CreatedAt:     v.CreatedAt(),
		UpdatedAt:     v.UpdatedAt(),
	}
}

func VerificationCodeToDomain(dto VerificationCodeDTO) *verification.VerificationCode {
	return verification.Rehydrate(verification.RehydrateArgs{
		ID:            dto.ID,
		UserID:        dto.UserID.UUID,
		Email:         dto.Email,
		Code:          dto.Code,
		Purpose:       verification.Purpose(dto.Purpose),
		Metadata:      dto.Metadata,
		IsUsed:        dto.IsUsed,
		ResendTimeout: dto.ResendTimeout,
		ExpiresAt:     dto.ExpiresAt,
		CreatedAt:     dto.CreatedAt,
		UpdatedAt:     dto.UpdatedAt,
	})
}
