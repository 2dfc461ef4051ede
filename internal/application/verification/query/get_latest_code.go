package query

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tixoraa/tixoraa-backend/pkg/errorx"
)

type GetLatestCodeHandler struct {
	pool *pgxpool.Pool
}

func NewGetLatestCodeHandler(pool *pgxpool.Pool) *GetLatestCodeHandler {
	return &GetLatestCodeHandler{
		pool: pool,
	}
}

func (h *GetLatestCodeHandler) Handle(ctx context.Context, email string) (string, error) {
	var code string
	err := h.pool.QueryRow(ctx, `
        SELECT code
        FROM verification_codes
        WHERE email = $1
        ORDER BY created_at DESC
        LIMIT 1
    `, email).Scan(&code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errorx.NewNotFound().WithCause(err)
		}
		return "", err
	}
	return code, nil
}
