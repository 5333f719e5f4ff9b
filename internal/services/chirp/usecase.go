package chirp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/chirpylabs/chirpy/internal/domain/chirp"
	pg "github.com/chirpylabs/chirpy/internal/repository/postgres"
)

const maxChirpLength = 140

var (
	ErrTooLong   = errors.New("chirp is too long, max length is 140")
	ErrNotFound  = errors.New("chirp not found")
	ErrForbidden = errors.New("not the author of this chirp")
)

// Words replaced with **** regardless of case. Punctuation-attached
// occurrences are left alone, matching the word-by-word original behavior.
var profanities = map[string]struct{}{
	"kerfuffle": {},
	"sharbert":  {},
	"fornax":    {},
}

type Usecase struct {
	repo chirp.Repo
}

func New(repo chirp.Repo) *Usecase { return &Usecase{repo: repo} }

// Clean enforces the length limit and masks profanities. Returns the body to
// store.
func Clean(body string) (string, error) {
	if len(body) > maxChirpLength {
		return "", ErrTooLong
	}
	words := strings.Split(body, " ")
	for i, w := range words {
		if _, ok := profanities[strings.ToLower(w)]; ok {
			words[i] = "****"
		}
	}
	return strings.Join(words, " "), nil
}

func (u *Usecase) Create(ctx context.Context, authorID uuid.UUID, body string) (*chirp.Chirp, error) {
	cleaned, err := Clean(body)
	if err != nil {
		return nil, err
	}
	c := &chirp.Chirp{Body: cleaned, UserID: authorID}
	if err := u.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create chirp: %w", err)
	}
	return c, nil
}

func (u *Usecase) Get(ctx context.Context, id uuid.UUID) (*chirp.Chirp, error) {
	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pg.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (u *Usecase) List(ctx context.Context, authorID *uuid.UUID, order chirp.SortOrder) ([]*chirp.Chirp, error) {
	out, err := u.repo.List(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if order == chirp.SortDesc {
		sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out, nil
}

// Delete removes a chirp after checking the requester authored it.
func (u *Usecase) Delete(ctx context.Context, requesterID, id uuid.UUID) error {
	c, err := u.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.UserID != requesterID {
		return ErrForbidden
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, pg.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete chirp: %w", err)
	}
	return nil
}
