package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	usersvc "github.com/chirpylabs/chirpy/internal/services/user"
)

type userParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var params userParams
	if err := decodeJSON(r, &params); err != nil || params.Email == "" || params.Password == "" {
		respondError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	u, err := a.users.Create(r.Context(), params.Email, params.Password)
	if err != nil {
		if errors.Is(err, usersvc.ErrEmailTaken) {
			respondError(w, http.StatusConflict, "email already registered")
			return
		}
		a.log.Error("create user", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not create user")
		return
	}

	respondJSON(w, http.StatusCreated, toUserResponse(u))
}

func (a *API) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := a.authenticate(r)
	if err != nil {
		respondUnauthenticated(w)
		return
	}

	var params userParams
	if err := decodeJSON(r, &params); err != nil || params.Email == "" || params.Password == "" {
		respondError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	u, err := a.users.Update(r.Context(), userID, params.Email, params.Password)
	if err != nil {
		switch {
		case errors.Is(err, usersvc.ErrEmailTaken):
			respondError(w, http.StatusConflict, "email already registered")
		case errors.Is(err, usersvc.ErrNotFound):
			respondError(w, http.StatusNotFound, "user not found")
		default:
			a.log.Error("update user", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "could not update user")
		}
		return
	}

	respondJSON(w, http.StatusOK, toUserResponse(u))
}
