package api

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chirpylabs/chirpy/internal/auth"
	usersvc "github.com/chirpylabs/chirpy/internal/services/user"
)

const eventUserUpgraded = "user.upgraded"

// handlePolkaWebhook upgrades a user to Chirpy Red on the payment provider's
// user.upgraded event. The ApiKey is checked before anything else happens.
func (a *API) handlePolkaWebhook(w http.ResponseWriter, r *http.Request) {
	key, err := auth.APIKey(r.Header.Get("Authorization"))
	if err != nil || subtle.ConstantTimeCompare([]byte(key), []byte(a.polkaKey)) != 1 {
		respondUnauthenticated(w)
		return
	}

	var params struct {
		Event string `json:"event"`
		Data  struct {
			UserID string `json:"userId"`
		} `json:"data"`
	}
	if err := decodeJSON(r, &params); err != nil || params.Event == "" || params.Data.UserID == "" {
		respondError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	if params.Event != eventUserUpgraded {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	id, err := uuid.Parse(params.Data.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if _, err := a.users.UpgradeToRed(r.Context(), id); err != nil {
		if errors.Is(err, usersvc.ErrNotFound) {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		a.log.Error("polka webhook", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not upgrade user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
