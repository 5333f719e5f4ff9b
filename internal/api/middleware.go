package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/chirpylabs/chirpy/internal/obs"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logResponses logs every response that is not a 2xx.
func logResponses(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if rec.status < 200 || rec.status >= 300 {
			log.Info("non-ok response",
				zap.String("method", r.Method),
				zap.String("url", r.URL.Path),
				zap.Int("status", rec.status),
			)
		}
	})
}

// countHits increments the fileserver hit counter before serving.
func countHits(m *obs.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.IncFileserverHits()
		next.ServeHTTP(w, r)
	})
}
