package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chirpylabs/chirpy/internal/domain/chirp"
	chirpsvc "github.com/chirpylabs/chirpy/internal/services/chirp"
)

type chirpResponse struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Body      string    `json:"body"`
	UserID    uuid.UUID `json:"userId"`
}

func toChirpResponse(c *chirp.Chirp) chirpResponse {
	return chirpResponse{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Body:      c.Body,
		UserID:    c.UserID,
	}
}

func (a *API) handleCreateChirp(w http.ResponseWriter, r *http.Request) {
	userID, err := a.authenticate(r)
	if err != nil {
		respondUnauthenticated(w)
		return
	}

	var params struct {
		Body string `json:"body"`
	}
	if err := decodeJSON(r, &params); err != nil || params.Body == "" {
		respondError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	c, err := a.chirps.Create(r.Context(), userID, params.Body)
	if err != nil {
		if errors.Is(err, chirpsvc.ErrTooLong) {
			respondError(w, http.StatusBadRequest, "chirp is too long, max length is 140")
			return
		}
		a.log.Error("create chirp", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not create chirp")
		return
	}

	respondJSON(w, http.StatusCreated, toChirpResponse(c))
}

func (a *API) handleListChirps(w http.ResponseWriter, r *http.Request) {
	var authorID *uuid.UUID
	if q := r.URL.Query().Get("authorId"); q != "" {
		id, err := uuid.Parse(q)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid authorId")
			return
		}
		authorID = &id
	}

	order := chirp.SortAsc
	if r.URL.Query().Get("sort") == "desc" {
		order = chirp.SortDesc
	}

	list, err := a.chirps.List(r.Context(), authorID, order)
	if err != nil {
		a.log.Error("list chirps", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not list chirps")
		return
	}

	out := make([]chirpResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toChirpResponse(c))
	}
	respondJSON(w, http.StatusOK, out)
}

func (a *API) handleGetChirp(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("chirpID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid chirp id")
		return
	}

	c, err := a.chirps.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, chirpsvc.ErrNotFound) {
			respondError(w, http.StatusNotFound, "chirp not found")
			return
		}
		a.log.Error("get chirp", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not get chirp")
		return
	}

	respondJSON(w, http.StatusOK, toChirpResponse(c))
}

func (a *API) handleDeleteChirp(w http.ResponseWriter, r *http.Request) {
	userID, err := a.authenticate(r)
	if err != nil {
		respondUnauthenticated(w)
		return
	}

	id, err := uuid.Parse(r.PathValue("chirpID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid chirp id")
		return
	}

	if err := a.chirps.Delete(r.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, chirpsvc.ErrNotFound):
			respondError(w, http.StatusNotFound, "chirp not found")
		case errors.Is(err, chirpsvc.ErrForbidden):
			respondError(w, http.StatusForbidden, "you can't delete this chirp")
		default:
			a.log.Error("delete chirp", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "could not delete chirp")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
