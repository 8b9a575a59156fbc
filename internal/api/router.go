// Picky - Conversational Movie & TV Discovery Backend
// Copyright 2026 Picky Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/picky-app/picky-server

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/picky-app/picky-server/internal/middleware"
)

// RouterConfig holds the HTTP surface configuration.
type RouterConfig struct {
	// CORSOrigins lists allowed origins. ["*"] permits any origin.
	CORSOrigins []string

	// RequestsPerMinute is the per-IP rate limit on API endpoints.
	RequestsPerMinute int
}

// NewRouter assembles the chi router: global middleware, the API route
// group, health endpoints and the prometheus exposition endpoint.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 120
	}

	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         86400,
	}))

	// Health endpoints: permissive rate limit so monitoring can poll
	// freely without opening an abuse vector.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.Limit(1000, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(rateLimited)))
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	// API endpoints: per-IP rate limiting plus prometheus instrumentation.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.Limit(cfg.RequestsPerMinute, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(rateLimited)))
		r.Use(middleware.PrometheusMetrics)

		r.Get("/search", h.Search)
		r.Get("/expand", h.Expand)
		r.Get("/lexicon/resolve", h.LexiconResolve)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusNotFound, ErrCodeNotFound, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	return r
}

// rateLimited writes the envelope-shaped 429 used by both rate limiters.
func rateLimited(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, http.StatusTooManyRequests, ErrCodeTooManyRequests, "Rate limit exceeded")
}
