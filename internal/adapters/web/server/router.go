package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lcalzada-xor/macoui/internal/adapters/web/middleware"
)

// SetupRoutes builds the router for s.
func SetupRoutes(s *Server) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestIDMiddleware(s.opts.Logger))

	r.HandleFunc("/healthz", s.OUIHandler.HandleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/oui").Subrouter()
	if s.limiter != nil {
		api.Use(middleware.RateLimitMiddleware(s.limiter))
	}
	api.HandleFunc("/stats", s.OUIHandler.HandleStats).Methods(http.MethodGet)
	api.HandleFunc("/lookup", s.OUIHandler.HandleBatch).Methods(http.MethodPost)
	api.HandleFunc("/{address}", s.OUIHandler.HandleLookup).Methods(http.MethodGet)

	return r
}
