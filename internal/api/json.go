package api

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, errorResponse{Error: msg})
}

// respondUnauthenticated is the single 401 shape for every authentication
// failure. Token-expired, token-revoked, bad signature and malformed header
// all look identical from outside; the distinction only reaches the logs.
func respondUnauthenticated(w http.ResponseWriter) {
	respondError(w, http.StatusUnauthorized, "not authenticated")
}

func decodeJSON(r *http.Request, dst any) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(dst)
}
