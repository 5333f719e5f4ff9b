package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/chirpylabs/chirpy/internal/domain/auth"
)

var _ auth.TokenStorage = (*RefreshTokenRepo)(nil)

type RefreshTokenRepo struct {
	db *DB
}

func NewRefreshTokenRepo(db *DB) *RefreshTokenRepo { return &RefreshTokenRepo{db: db} }

const (
	qRTInsert = `
INSERT INTO refresh_tokens (token, user_id, expires_at)
VALUES ($1, $2, $3)
RETURNING token, user_id, expires_at, revoked_at, created_at, updated_at;`

	qRTByToken = `
SELECT token, user_id, expires_at, revoked_at, created_at, updated_at
FROM refresh_tokens
WHERE token = $1;`

	// revoked_at is set-once: the WHERE clause leaves an already-revoked row
	// untouched so the original revocation timestamp survives repeated calls.
	qRTRevoke = `
UPDATE refresh_tokens
SET revoked_at = $2,
    updated_at = $2
WHERE token = $1 AND revoked_at IS NULL;`
)

func (r *RefreshTokenRepo) Insert(ctx context.Context, t *auth.RefreshToken) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if err := r.db.Pool.QueryRow(ctx, qRTInsert, t.Token, t.UserID, t.ExpiresAt).
		Scan(&t.Token, &t.UserID, &t.ExpiresAt, &t.RevokedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return fmt.Errorf("refresh token insert: %w", err)
	}
	return nil
}

func (r *RefreshTokenRepo) GetByToken(ctx context.Context, token string) (*auth.RefreshToken, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var t auth.RefreshToken
	if err := r.db.Pool.QueryRow(ctx, qRTByToken, token).
		Scan(&t.Token, &t.UserID, &t.ExpiresAt, &t.RevokedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, fmt.Errorf("refresh token by token: %w", err)
	}
	return &t, nil
}

func (r *RefreshTokenRepo) SetRevoked(ctx context.Context, token string, at time.Time) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if _, err := r.db.Pool.Exec(ctx, qRTRevoke, token, at); err != nil {
		return fmt.Errorf("refresh token revoke: %w", err)
	}
	return nil
}
