package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/chirpylabs/chirpy/internal/auth"
	"github.com/chirpylabs/chirpy/internal/domain/user"
	pg "github.com/chirpylabs/chirpy/internal/repository/postgres"
)

var (
	ErrEmailTaken = errors.New("email already registered")
	ErrNotFound   = errors.New("user not found")
)

type Usecase struct {
	repo user.Repo
}

func New(repo user.Repo) *Usecase { return &Usecase{repo: repo} }

func (u *Usecase) Create(ctx context.Context, email, password string) (*user.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	rec := &user.User{Email: email, HashedPassword: hash}
	if err := u.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, pg.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return rec, nil
}

// Update replaces the email and password of an authenticated user.
func (u *Usecase) Update(ctx context.Context, id uuid.UUID, email, password string) (*user.User, error) {
	rec, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pg.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	rec.Email = email
	rec.HashedPassword = hash
	if err := u.repo.Update(ctx, rec); err != nil {
		if errors.Is(err, pg.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return rec, nil
}

// UpgradeToRed flips the Chirpy Red flag. Called from the payment webhook.
func (u *Usecase) UpgradeToRed(ctx context.Context, id uuid.UUID) (*user.User, error) {
	rec, err := u.repo.UpgradeToRed(ctx, id)
	if err != nil {
		if errors.Is(err, pg.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Reset wipes all users (chirps and refresh tokens cascade). Dev only; the
// HTTP layer gates it on the configured platform.
func (u *Usecase) Reset(ctx context.Context) error {
	return u.repo.DeleteAll(ctx)
}
