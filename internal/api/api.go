package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chirpylabs/chirpy/internal/auth"
	"github.com/chirpylabs/chirpy/internal/domain/user"
	"github.com/chirpylabs/chirpy/internal/obs"
	chirpsvc "github.com/chirpylabs/chirpy/internal/services/chirp"
	"github.com/chirpylabs/chirpy/internal/services/session"
	usersvc "github.com/chirpylabs/chirpy/internal/services/user"
)

type Opts struct {
	Logger    *zap.Logger
	JWTSecret []byte
	Platform  string
	PolkaKey  string
	StaticDir string
	// Health is checked by the readiness endpoint; typically the DB ping.
	Health func(ctx context.Context) error
}

// API wires the HTTP surface. All state is injected at construction; there
// are no package-level globals.
type API struct {
	log      *zap.Logger
	sessions *session.Usecase
	users    *usersvc.Usecase
	chirps   *chirpsvc.Usecase
	metrics  *obs.Metrics

	jwtSecret []byte
	platform  string
	polkaKey  string
	staticDir string
	health    func(ctx context.Context) error
}

func New(sessions *session.Usecase, users *usersvc.Usecase, chirps *chirpsvc.Usecase, metrics *obs.Metrics, o Opts) *API {
	log := o.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &API{
		log:       log,
		sessions:  sessions,
		users:     users,
		chirps:    chirps,
		metrics:   metrics,
		jwtSecret: o.JWTSecret,
		platform:  o.Platform,
		polkaKey:  o.PolkaKey,
		staticDir: o.StaticDir,
		health:    o.Health,
	}
}

// Routes builds the full mux: API endpoints, admin surface, prometheus
// endpoint and the hit-counted static file server.
func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/healthz", a.handleReadiness)

	mux.HandleFunc("POST /api/users", a.handleCreateUser)
	mux.HandleFunc("PUT /api/users", a.handleUpdateUser)

	mux.HandleFunc("POST /api/login", a.handleLogin)
	mux.HandleFunc("POST /api/refresh", a.handleRefresh)
	mux.HandleFunc("POST /api/revoke", a.handleRevoke)

	mux.HandleFunc("POST /api/chirps", a.handleCreateChirp)
	mux.HandleFunc("GET /api/chirps", a.handleListChirps)
	mux.HandleFunc("GET /api/chirps/{chirpID}", a.handleGetChirp)
	mux.HandleFunc("DELETE /api/chirps/{chirpID}", a.handleDeleteChirp)

	mux.HandleFunc("POST /api/polka/webhooks", a.handlePolkaWebhook)

	mux.HandleFunc("GET /admin/metrics", a.handleAdminMetrics)
	mux.HandleFunc("POST /admin/reset", a.handleAdminReset)

	mux.Handle("/metrics", obs.MetricsHandler())

	fs := http.StripPrefix("/app", http.FileServer(http.Dir(a.staticDir)))
	mux.Handle("/app/", countHits(a.metrics, fs))

	return logResponses(a.log, mux)
}

// authenticate extracts and validates the bearer access token, returning the
// caller's user id.
func (a *API) authenticate(r *http.Request) (uuid.UUID, error) {
	token, err := auth.BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return uuid.Nil, err
	}
	subject, err := auth.ValidateJWT(token, a.jwtSecret)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, auth.ErrMissingSubject
	}
	return id, nil
}

type userResponse struct {
	ID          uuid.UUID `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Email       string    `json:"email"`
	IsChirpyRed bool      `json:"isChirpyRed"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		ID:          u.ID,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		Email:       u.Email,
		IsChirpyRed: u.IsChirpyRed,
	}
}
