package main

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/chirpylabs/chirpy/internal/api"
	"github.com/chirpylabs/chirpy/internal/auth"
	"github.com/chirpylabs/chirpy/internal/config"
	"github.com/chirpylabs/chirpy/internal/obs"
	pg "github.com/chirpylabs/chirpy/internal/repository/postgres"
	chirpsvc "github.com/chirpylabs/chirpy/internal/services/chirp"
	"github.com/chirpylabs/chirpy/internal/services/session"
	usersvc "github.com/chirpylabs/chirpy/internal/services/user"

	"github.com/prometheus/client_golang/prometheus"
)

func buildHTTPServer(cfg *config.Config, logger *zap.Logger, db *pg.DB) *http.Server {
	userRepo := pg.NewUserRepo(db)
	chirpRepo := pg.NewChirpRepo(db)
	tokenRepo := pg.NewRefreshTokenRepo(db)

	tokens := auth.NewRefreshTokenStore(tokenRepo, nil)
	sessions := session.New(userRepo, tokens, session.Config{
		JWTSecret:  []byte(cfg.Auth.JWTSecret),
		AccessTTL:  cfg.Auth.AccessTTL,
		RefreshTTL: cfg.Auth.RefreshTTL,
	}, logger)
	users := usersvc.New(userRepo)
	chirps := chirpsvc.New(chirpRepo)

	metrics := obs.NewMetrics(prometheus.DefaultRegisterer)

	a := api.New(sessions, users, chirps, metrics, api.Opts{
		Logger:    logger,
		JWTSecret: []byte(cfg.Auth.JWTSecret),
		Platform:  cfg.API.Platform,
		PolkaKey:  cfg.API.PolkaKey,
		StaticDir: cfg.Server.StaticDir,
		Health:    db.Pool.Ping,
	})

	handler := otelhttp.NewHandler(a.Routes(), "chirpy")

	return &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

func serveHTTP(srv *http.Server, cfg *config.Config, logger *zap.Logger) error {
	logger.Info("http listening", zap.String("addr", cfg.Server.HTTPAddr))
	return srv.ListenAndServe()
}
