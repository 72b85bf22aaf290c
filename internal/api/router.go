// PeopleLink - Social Engagement Scoring and Ranking Service
// Copyright 2026 PeopleLink Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/peoplelink/peoplelink

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds router-level settings.
type RouterConfig struct {
	CORSOrigins []string
}

// NewRouter builds the chi router with middleware and all routes.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		MaxAge:         86400,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.With(Metrics("trending")).Get("/trending", h.Trending)
		r.With(Metrics("recommendations")).Get("/recommendations/user/{userID}", h.Recommendations)
		r.With(Metrics("analytics")).Get("/analytics/user/{userID}", h.UserAnalytics)
		r.With(Metrics("events")).Post("/events/content", h.ContentChanged)
		r.Get("/healthz", h.Health)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
