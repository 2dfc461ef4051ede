package query

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CodeView is the dev inspector's projection of a code row. It exposes the
// raw secret on purpose; the HTTP port only mounts it outside prod.
type CodeView struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	Purpose   string    `json:"purpose"`
	IsUsed    bool      `json:"is_used"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type ListCodesHandler struct {
	pool *pgxpool.Pool
}

func NewListCodesHandler(pool *pgxpool.Pool) *ListCodesHandler {
	return &ListCodesHandler{
		pool: pool,
	}
}

func (h *ListCodesHandler) Handle(ctx context.Context, email string) ([]CodeView, error) {
	rows, err := h.pool.Query(ctx, `
        SELECT id, email, code, purpose, is_used, expires_at, created_at
        FROM verification_codes
        WHERE email = $1
        ORDER BY created_at DESC
    `, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []CodeView
	for rows.Next() {
		var v CodeView
		if err := rows.Scan(&v.ID, &v.Email, &v.Code, &v.Purpose, &v.IsUsed, &v.ExpiresAt, &v.CreatedAt); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return views, nil
}
