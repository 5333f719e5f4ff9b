package auth

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by GetByToken when no row matches the token.
var ErrNotFound = errors.New("refresh token not found")

// TokenStorage is the narrow persistence contract required by the refresh
// token store. Implementations must make each operation atomic per row: a
// concurrent GetByToken and SetRevoked on the same token observe either the
// pre- or post-revoke state, never a partial write.
type TokenStorage interface {
	Insert(ctx context.Context, t *RefreshToken) error
	GetByToken(ctx context.Context, token string) (*RefreshToken, error)
	SetRevoked(ctx context.Context, token string, at time.Time) error
}
