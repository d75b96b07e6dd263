package server

import (
	"encoding/json"
	"net/http"

	"cricket-query/internal/middleware"
	"cricket-query/internal/service"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

const HealthPath = "/healthz"

// NewHandler mounts the connect procedures and the health endpoint behind
// CORS, request ids and panic recovery.
func NewHandler(cs *CricketServer, svc *service.QueryService, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	path, handler := NewCricketQueryHandler(cs)
	mux.Handle(path, handler)
	mux.Handle(HealthPath, healthHandler(svc))

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})

	return middleware.RequestID(logger)(middleware.Recover(c.Handler(mux)))
}

// healthHandler answers 200 once a snapshot is published and 503 before.
func healthHandler(svc *service.QueryService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		status := svc.Status()
		w.Header().Set("Content-Type", "application/json")
		if !status.Loaded {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		if err := json.NewEncoder(w).Encode(status); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to write health status")
		}
	})
}
