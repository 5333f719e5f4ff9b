package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/chirpylabs/chirpy/internal/domain/chirp"
)

var _ chirp.Repo = (*ChirpRepo)(nil)

type ChirpRepo struct {
	db *DB
}

func NewChirpRepo(db *DB) *ChirpRepo { return &ChirpRepo{db: db} }

const (
	qChirpInsert = `
INSERT INTO chirps (id, body, user_id)
VALUES ($1, $2, $3)
RETURNING id, body, user_id, created_at, updated_at;`

	qChirpByID = `
SELECT id, body, user_id, created_at, updated_at
FROM chirps
WHERE id = $1;`

	qChirpList = `
SELECT id, body, user_id, created_at, updated_at
FROM chirps
ORDER BY created_at ASC;`

	qChirpListByAuthor = `
SELECT id, body, user_id, created_at, updated_at
FROM chirps
WHERE user_id = $1
ORDER BY created_at ASC;`

	qChirpDelete = `DELETE FROM chirps WHERE id = $1;`
)

func (r *ChirpRepo) Create(ctx context.Context, c *chirp.Chirp) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if err := r.db.Pool.QueryRow(ctx, qChirpInsert, c.ID, c.Body, c.UserID).
		Scan(&c.ID, &c.Body, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("chirp insert: %w", err)
	}
	return nil
}

func (r *ChirpRepo) GetByID(ctx context.Context, id uuid.UUID) (*chirp.Chirp, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var c chirp.Chirp
	if err := r.db.Pool.QueryRow(ctx, qChirpByID, id).
		Scan(&c.ID, &c.Body, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("chirp by id: %w", err)
	}
	return &c, nil
}

func (r *ChirpRepo) List(ctx context.Context, authorID *uuid.UUID) ([]*chirp.Chirp, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var (
		rows pgx.Rows
		err  error
	)
	if authorID != nil {
		rows, err = r.db.Pool.Query(ctx, qChirpListByAuthor, *authorID)
	} else {
		rows, err = r.db.Pool.Query(ctx, qChirpList)
	}
	if err != nil {
		return nil, fmt.Errorf("chirp list: %w", err)
	}
	defer rows.Close()

	var out []*chirp.Chirp
	for rows.Next() {
		var c chirp.Chirp
		if err := rows.Scan(&c.ID, &c.Body, &c.UserID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan chirp: %w", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chirp rows: %w", err)
	}
	return out, nil
}

func (r *ChirpRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Pool.Exec(ctx, qChirpDelete, id)
	if err != nil {
		return fmt.Errorf("chirp delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
