package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/chirpylabs/chirpy/internal/auth"
	"github.com/chirpylabs/chirpy/internal/services/session"
)

type loginResponse struct {
	userResponse
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var params struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &params); err != nil || params.Email == "" || params.Password == "" {
		respondError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	u, access, refresh, err := a.sessions.Login(r.Context(), params.Email, params.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "incorrect email or password")
			return
		}
		a.log.Error("login", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{
		userResponse: toUserResponse(u),
		Token:        access,
		RefreshToken: refresh,
	})
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	token, err := auth.BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		respondUnauthenticated(w)
		return
	}

	access, err := a.sessions.Refresh(r.Context(), token)
	if err != nil {
		if errors.Is(err, session.ErrUnauthenticated) {
			respondUnauthenticated(w)
			return
		}
		a.log.Error("refresh", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Token string `json:"token"`
	}{Token: access})
}

func (a *API) handleRevoke(w http.ResponseWriter, r *http.Request) {
	token, err := auth.BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		respondUnauthenticated(w)
		return
	}

	if err := a.sessions.Revoke(r.Context(), token); err != nil {
		a.log.Error("revoke", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
