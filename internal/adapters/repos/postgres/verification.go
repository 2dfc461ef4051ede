package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/trace"

	"github.com/tixoraa/tixoraa-backend/internal/domain/verification"
	"github.com/tixoraa/tixoraa-backend/pkg/errorx"
	"github.com/tixoraa/tixoraa-backend/pkg/otelx"
	"github.com/tixoraa/tixoraa-backend/pkg/postgres"
	"github.com/tixoraa/tixoraa-backend/pkg/watermillx"
)

const verificationCodeColumns = `id, user_id, email, code, purpose, metadata, is_used, resend_timeout, expires_at, created_at, updated_at`

type VerificationCodeRepo struct {
	tracer  trace.Tracer
	logger  *slog.Logger
	pool    *pgxpool.Pool
	wlogger watermill.LoggerAdapter
}

// NewVerificationCodeRepo creates a new instance of VerificationCodeRepo.
// It also sets default tracer and logger if they are nil.
//
//	WARNING; panics if pool is nil
func NewVerificationCodeRepo(pool *pgxpool.Pool, t trace.Tracer, l *slog.Logger) *VerificationCodeRepo {
	if pool == nil {
		panic("pgxpool.Pool cannot be nil")
	}
	if t == nil {
		t = tracer
	}
	if l == nil {
		l = logger
	}

	return &VerificationCodeRepo{
		tracer:  t,
		logger:  l,
		pool:    pool,
		wlogger: watermill.NewSlogLogger(l),
	}
}

// SaveCode inserts a fresh code and publishes its recorded events in the same
// transaction. The generated surrogate key is assigned back to the aggregate.
func (r *VerificationCodeRepo) SaveCode(ctx context.Context, v *verification.VerificationCode) error {
	ctx, span := r.tracer.Start(ctx, "VerificationCodeRepo.SaveCode")
	defer span.End()

	if v == nil {
		otelx.RecordSpanError(span, ErrNilCode, "nil verification code")
		return ErrNilCode
	}

	dto := DomainToVerificationCodeDTO(v)

	query := `
        INSERT INTO verification_codes (user_id, email, code, purpose, metadata, is_used, resend_timeout, expires_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id;
    `

	return postgres.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		var id int64
		err := tx.QueryRow(ctx, query,
			dto.UserID, dto.Email, dto.Code, dto.Purpose, dto.Metadata,
			dto.IsUsed, dto.ResendTimeout, dto.ExpiresAt, dto.CreatedAt, dto.UpdatedAt,
		).Scan(&id)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to insert verification code")
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return errorx.NewConflict().WithCause(err)
			}
			return err
		}

		v.AssignID(id)

		if events := v.GetUncommittedEvents(); len(events) > 0 {
			if err := watermillx.Publish(ctx, tx, r.wlogger, events...); err != nil {
				otelx.RecordSpanError(span, err, "failed to publish events")
				return err
			}
			v.MarkEventsAsCommitted()
		}
		return nil
	})
}

// GetLatestByEmail returns the newest redeemable code for the address,
// regardless of its value. Used by the resend flow and the dev inspector.
func (r *VerificationCodeRepo) GetLatestByEmail(ctx context.Context, email string) (*verification.VerificationCode, error) {
	ctx, span := r.tracer.Start(ctx, "VerificationCodeRepo.GetLatestByEmail")
	defer span.End()

	query := fmt.Sprintf(`
        SELECT %s
        FROM verification_codes
        WHERE email = $1 AND is_used = FALSE AND expires_at > now()
        ORDER BY created_at DESC
        LIMIT 1;
    `, verificationCodeColumns)

	var dto VerificationCodeDTO
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&dto.ID, &dto.UserID, &dto.Email, &dto.Code, &dto.Purpose, &dto.Metadata,
		&dto.IsUsed, &dto.ResendTimeout, &dto.ExpiresAt, &dto.CreatedAt, &dto.UpdatedAt,
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get latest code by email")
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorx.NewNotFound().WithCause(err)
		}
		return nil, err
	}

	return VerificationCodeToDomain(dto), nil
}

// GetByEmailAndCode returns the newest redeemable row matching both the
// address and the submitted code value.
func (r *VerificationCodeRepo) GetByEmailAndCode(ctx context.Context, email, code string) (*verification.VerificationCode, error) {
	ctx, span := r.tracer.Start(ctx, "VerificationCodeRepo.GetByEmailAndCode")
	defer span.End()

	query := fmt.Sprintf(`
        SELECT %s
        FROM verification_codes
        WHERE email = $1 AND code = $2 AND is_used = FALSE AND expires_at > now()
        ORDER BY created_at DESC
        LIMIT 1;
    `, verificationCodeColumns)

	var dto VerificationCodeDTO
	err := r.pool.QueryRow(ctx, query, email, code).Scan(
		&dto.ID, &dto.UserID, &dto.Email, &dto.Code, &dto.Purpose, &dto.Metadata,
		&dto.IsUsed, &dto.ResendTimeout, &dto.ExpiresAt, &dto.CreatedAt, &dto.UpdatedAt,
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get code by email and code")
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorx.NewNotFound().WithCause(err)
		}
		return nil, err
	}

	return VerificationCodeToDomain(dto), nil
}

// GetByUserAndCode is the account-scoped variant for flows where the caller
// is already authenticated.
func (r *VerificationCodeRepo) GetByUserAndCode(ctx context.Context, userID uuid.UUID, code string) (*verification.VerificationCode, error) {
	ctx, span := r.tracer.Start(ctx, "VerificationCodeRepo.GetByUserAndCode")
	defer span.End()

	query := fmt.Sprintf(`
        SELECT %s
        FROM verification_codes
        WHERE user_id = $1 AND code = $2 AND is_used = FALSE AND expires_at > now()
        ORDER BY created_at DESC
        LIMIT 1;
    `, verificationCodeColumns)

	var dto VerificationCodeDTO
	err := r.pool.QueryRow(ctx, query, userID, code).Scan(
		&dto.ID, &dto.UserID, &dto.Email, &dto.Code, &dto.Purpose, &dto.Metadata,
		&dto.IsUsed, &dto.ResendTimeout, &dto.ExpiresAt, &dto.CreatedAt, &dto.UpdatedAt,
	)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to get code by user and code")
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorx.NewNotFound().WithCause(err)
		}
		return nil, err
	}

	return VerificationCodeToDomain(dto), nil
}

// ListByEmail returns every code ever issued to the address, newest first.
func (r *VerificationCodeRepo) ListByEmail(ctx context.Context, email string) ([]*verification.VerificationCode, error) {
	ctx, span := r.tracer.Start(ctx, "VerificationCodeRepo.ListByEmail")
	defer span.End()

	query := fmt.Sprintf(`
        SELECT %s
        FROM verification_codes
        WHERE email = $1
        ORDER BY created_at DESC;
    `, verificationCodeColumns)

	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to list codes by email")
		return nil, err
	}
	defer rows.Close()

	var codes []*verification.VerificationCode
	for rows.Next() {
		var dto VerificationCodeDTO
		err := rows.Scan(
			&dto.ID, &dto.UserID, &dto.Email, &dto.Code, &dto.Purpose, &dto.Metadata,
			&dto.IsUsed, &dto.ResendTimeout, &dto.ExpiresAt, &dto.CreatedAt, &dto.UpdatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to scan code row")
			return nil, err
		}
		codes = append(codes, VerificationCodeToDomain(dto))
	}
	if err := rows.Err(); err != nil {
		otelx.RecordSpanError(span, err, "failed to iterate code rows")
		return nil, err
	}

	return codes, nil
}

// ConsumeByEmailAndCode atomically redeems the newest matching code. The
// conditional UPDATE is the single point of consumption: of any number of
// concurrent attempts with the same code, exactly one sees a row and every
// other caller gets the unified not-redeemable rejection.
func (r *VerificationCodeRepo) ConsumeByEmailAndCode(ctx context.Context, email, code string) (*verification.VerificationCode, error) {
	ctx, span := r.tracer.Start(ctx, "VerificationCodeRepo.ConsumeByEmailAndCode")
	defer span.End()

	query := fmt.Sprintf(`
        UPDATE verification_codes
        SET is_used = TRUE, updated_at = now()
        WHERE id = (
            SELECT id FROM verification_codes
            WHERE email = $1 AND code = $2 AND is_used = FALSE AND expires_at > now()
            ORDER BY created_at DESC
            LIMIT 1
        ) AND is_used = FALSE
        RETURNING %s;
    `, verificationCodeColumns)

	var consumed *verification.VerificationCode
	err := postgres.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		var dto VerificationCodeDTO
		err := tx.QueryRow(ctx, query, email, code).Scan(
			&dto.ID, &dto.UserID, &dto.Email, &dto.Code, &dto.Purpose, &dto.Metadata,
			&dto.IsUsed, &dto.ResendTimeout, &dto.ExpiresAt, &dto.CreatedAt, &dto.UpdatedAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// Wrong code, expired, already used or never issued: one
				// indistinguishable answer for all of them.
				return verification.ErrCodeNotRedeemable
			}
			otelx.RecordSpanError(span, err, "failed to consume verification code")
			return err
		}

		// Rehydrate the pre-update image so MarkAsUsed records the
		// redemption event alongside the row flip.
		dto.IsUsed = false
		v := VerificationCodeToDomain(dto)
		if err := v.MarkAsUsed(); err != nil {
			otelx.RecordSpanError(span, err, "failed to mark consumed code as used")
			return err
		}

		if events := v.GetUncommittedEvents(); len(events) > 0 {
			if err := watermillx.Publish(ctx, tx, r.wlogger, events...); err != nil {
				otelx.RecordSpanError(span, err, "failed to publish events")
				return err
			}
			v.MarkEventsAsCommitted()
		}

		consumed = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	return consumed, nil
}

// MarkUsed flips a single code to used by id. Flipping an already used code
// is a no-op; an unknown id is a not-found.
func (r *VerificationCodeRepo) MarkUsed(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "VerificationCodeRepo.MarkUsed")
	defer span.End()

	query := `
        UPDATE verification_codes
        SET is_used = TRUE, updated_at = now()
        WHERE id = $1 AND is_used = FALSE;
    `

	res, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to mark verification code as used")
		return err
	}
	if res.RowsAffected() == 0 {
		var exists bool
		err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM verification_codes WHERE id = $1);`, id).Scan(&exists)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to check verification code existence")
			return err
		}
		if !exists {
			return errorx.NewNotFound()
		}
	}
	return nil
}

// UpdateCode persists the aggregate's current state by id and publishes its
// recorded events in the same transaction. Used by the resend flow.
func (r *VerificationCodeRepo) UpdateCode(ctx context.Context, v *verification.VerificationCode) error {
	ctx, span := r.tracer.Start(ctx, "VerificationCodeRepo.UpdateCode")
	defer span.End()

	if v == nil {
		otelx.RecordSpanError(span, ErrNilCode, "nil verification code")
		return ErrNilCode
	}

	dto := DomainToVerificationCodeDTO(v)

	query := `
        UPDATE verification_codes
        SET code = $2, is_used = $3, resend_timeout = $4, expires_at = $5, updated_at = $6
        WHERE id = $1;
    `

	return postgres.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		res, err := tx.Exec(ctx, query,
			dto.ID, dto.Code, dto.IsUsed, dto.ResendTimeout, dto.ExpiresAt, dto.UpdatedAt,
		)
		if err != nil {
			otelx.RecordSpanError(span, err, "failed to update verification code")
			return err
		}
		if res.RowsAffected() == 0 {
			otelx.RecordSpanError(span, ErrNoRowsAffected, "no rows affected when updating verification code")
			return fmt.Errorf("failed to update verification code: %w", ErrNoRowsAffected)
		}

		if events := v.GetUncommittedEvents(); len(events) > 0 {
			if err := watermillx.Publish(ctx, tx, r.wlogger, events...); err != nil {
				otelx.RecordSpanError(span, err, "failed to publish events")
				return err
			}
			v.MarkEventsAsCommitted()
		}
		return nil
	})
}

// DeleteExpiredBefore removes rows whose expiry is older than the cutoff.
// Redemption never depends on this; it only keeps the table from growing.
func (r *VerificationCodeRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "VerificationCodeRepo.DeleteExpiredBefore")
	defer span.End()

	query := `
        DELETE FROM verification_codes
        WHERE expires_at < $1;
    `

	res, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to delete expired verification codes")
		return 0, err
	}

	return res.RowsAffected(), nil
}
