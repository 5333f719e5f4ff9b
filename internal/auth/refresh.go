package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "github.com/chirpylabs/chirpy/internal/domain/auth"
)

// RefreshTokenStore issues and tracks opaque refresh tokens. Unlike access
// tokens these are stateful: every Resolve round-trips to storage so that
// revocation and expiry are always observed, and no validity is cached.
type RefreshTokenStore struct {
	storage domain.TokenStorage
	now     func() time.Time
}

func NewRefreshTokenStore(storage domain.TokenStorage, now func() time.Time) *RefreshTokenStore {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &RefreshTokenStore{storage: storage, now: now}
}

// Issue mints a 256-bit random token, hex-encoded, and persists it with a
// fixed expiry. With 256 bits of entropy the collision probability is treated
// as zero; there is no uniqueness retry loop.
func (s *RefreshTokenStore) Issue(ctx context.Context, userID uuid.UUID, ttl time.Duration) (*domain.RefreshToken, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	now := s.now()
	t := &domain.RefreshToken{
		Token:     hex.EncodeToString(raw),
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.Insert(ctx, t); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}
	return t, nil
}

// Resolve looks the token up and checks, in order, existence, expiry and
// revocation. On success it returns the owning user id.
func (s *RefreshTokenStore) Resolve(ctx context.Context, token string) (uuid.UUID, *domain.RefreshToken, error) {
	t, err := s.storage.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return uuid.Nil, nil, ErrTokenNotFound
		}
		return uuid.Nil, nil, fmt.Errorf("load refresh token: %w", err)
	}
	if t.Expired(s.now()) {
		return uuid.Nil, nil, ErrTokenExpired
	}
	if t.Revoked() {
		return uuid.Nil, nil, ErrTokenRevoked
	}
	return t.UserID, t, nil
}

// Revoke marks the token revoked. Revoking an unknown or already-revoked
// token is not an error; logout is best effort.
func (s *RefreshTokenStore) Revoke(ctx context.Context, token string) error {
	if err := s.storage.SetRevoked(ctx, token, s.now()); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}
