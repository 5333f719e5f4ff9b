package chirp

import (
	"context"

	"github.com/google/uuid"
)

type Repo interface {
	Create(ctx context.Context, c *Chirp) error
	GetByID(ctx context.Context, id uuid.UUID) (*Chirp, error)
	List(ctx context.Context, authorID *uuid.UUID) ([]*Chirp, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
