package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chirpylabs/chirpy/internal/auth"
	"github.com/chirpylabs/chirpy/internal/domain/user"
	pg "github.com/chirpylabs/chirpy/internal/repository/postgres"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password; the two are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrUnauthenticated is the uniform refresh-path failure. Whether the
	// presented token was unknown, expired or revoked is logged but never
	// reported back.
	ErrUnauthenticated = errors.New("not authenticated")
)

type Config struct {
	JWTSecret  []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Usecase orchestrates login, access-token refresh and refresh-token
// revocation on top of the auth primitives.
type Usecase struct {
	users  user.Repo
	tokens *auth.RefreshTokenStore
	cfg    Config
	log    *zap.Logger
}

func New(users user.Repo, tokens *auth.RefreshTokenStore, cfg Config, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{users: users, tokens: tokens, cfg: cfg, log: log}
}

// Login verifies the password and, on success, returns the user together
// with a fresh access token and a newly persisted refresh token. If the
// refresh token cannot be persisted the whole login fails; the access token
// computed along the way is discarded rather than returned partially.
func (u *Usecase) Login(ctx context.Context, email, password string) (*user.User, string, string, error) {
	rec, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pg.ErrNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", fmt.Errorf("look up user: %w", err)
	}
	if !auth.CheckPasswordHash(password, rec.HashedPassword) {
		return nil, "", "", ErrInvalidCredentials
	}

	access, err := auth.MakeJWT(rec.ID.String(), u.cfg.JWTSecret, u.cfg.AccessTTL)
	if err != nil {
		return nil, "", "", fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := u.tokens.Issue(ctx, rec.ID, u.cfg.RefreshTTL)
	if err != nil {
		return nil, "", "", err
	}

	u.log.Info("session.login", zap.String("user_id", rec.ID.String()))
	return rec, access, refresh.Token, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated. Every resolution failure collapses
// into ErrUnauthenticated; storage faults pass through as server errors.
func (u *Usecase) Refresh(ctx context.Context, rawToken string) (string, error) {
	userID, _, err := u.tokens.Resolve(ctx, rawToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenNotFound) ||
			errors.Is(err, auth.ErrTokenExpired) ||
			errors.Is(err, auth.ErrTokenRevoked) {
			u.log.Info("session.refresh rejected", zap.String("reason", err.Error()))
			return "", ErrUnauthenticated
		}
		return "", err
	}

	access, err := auth.MakeJWT(userID.String(), u.cfg.JWTSecret, u.cfg.AccessTTL)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return access, nil
}

// Revoke invalidates a refresh token. Idempotent: unknown and
// already-revoked tokens succeed silently.
func (u *Usecase) Revoke(ctx context.Context, rawToken string) error {
	return u.tokens.Revoke(ctx, rawToken)
}
