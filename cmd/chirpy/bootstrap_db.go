package main

import (
	"context"

	"github.com/chirpylabs/chirpy/internal/config"
	pg "github.com/chirpylabs/chirpy/internal/repository/postgres"
)

func initDB(ctx context.Context, cfg *config.Config) (*pg.DB, error) {
	return pg.New(ctx, cfg.DB)
}
