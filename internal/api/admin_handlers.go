package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

func (a *API) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if a.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := a.health(ctx); err != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (a *API) handleAdminMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<html>
  <body>
    <h1>Welcome, Chirpy Admin</h1>
    <p>Chirpy has been visited %d times!</p>
  </body>
</html>
`, a.metrics.FileserverHits())
}

// handleAdminReset wipes all users (chirps and refresh tokens cascade) and
// zeroes the hit counter. Only available when the platform is "dev".
func (a *API) handleAdminReset(w http.ResponseWriter, r *http.Request) {
	if a.platform != "dev" {
		respondError(w, http.StatusForbidden, "reset is only allowed in dev environment")
		return
	}

	if err := a.users.Reset(r.Context()); err != nil {
		a.log.Error("admin reset", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not reset")
		return
	}

	a.metrics.ResetFileserverHits()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Hits reset to 0"))
}
