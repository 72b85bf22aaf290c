// PeopleLink - Social Engagement Scoring and Ranking Service
// Copyright 2026 PeopleLink Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/peoplelink/peoplelink

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/peoplelink/peoplelink/internal/engine"
	"github.com/peoplelink/peoplelink/internal/logging"
	"github.com/peoplelink/peoplelink/internal/models"
)

// maxEventBody bounds the content-event request body.
const maxEventBody = 1 << 16

// Handler serves the scoring and analytics endpoints.
type Handler struct {
	engine   *engine.Engine
	validate *validator.Validate
}

// NewHandler creates a Handler backed by the scoring engine.
func NewHandler(e *engine.Engine) *Handler {
	return &Handler{
		engine:   e,
		validate: validator.New(),
	}
}

// Trending handles GET /api/v1/trending.
//
// Query parameters: period (1h, 24h, 7d, 30d; default 24h), limit,
// category.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "24h"
	}
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	category := r.URL.Query().Get("category")

	ranked, err := h.engine.GetTrending(r.Context(), period, limit, category)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondData(w, r, ranked, len(ranked))
}

// Recommendations handles GET /api/v1/recommendations/user/{userID}.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	ranked, err := h.engine.GetRecommendations(r.Context(), userID, limit)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondData(w, r, ranked, len(ranked))
}

// UserAnalytics handles GET /api/v1/analytics/user/{userID}.
func (h *Handler) UserAnalytics(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "7d"
	}

	overview, err := h.engine.GetUserAnalyticsOverview(r.Context(), userID, period)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondData(w, r, overview, 0)
}

// ContentEvent is the body of POST /api/v1/events/content, posted by the
// content service whenever a post is created, updated, or deleted.
type ContentEvent struct {
	UserID string `json:"user_id" validate:"required"`
	Action string `json:"action" validate:"required,oneof=created updated deleted"`
}

// ContentChanged handles POST /api/v1/events/content. It invalidates the
// cached rankings the mutation can affect.
func (h *Handler) ContentChanged(w http.ResponseWriter, r *http.Request) {
	var event ContentEvent
	body := http.MaxBytesReader(w, r.Body, maxEventBody)
	if err := json.NewDecoder(body).Decode(&event); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.validate.Struct(&event); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	}

	h.engine.HandleContentChange(event.UserID)

	logging.Ctx(r.Context()).Debug().
		Str("user_id", event.UserID).
		Str("action", event.Action).
		Msg("content event processed")
	respondData(w, r, map[string]string{"status": "invalidated"}, 0)
}

// Health handles GET /api/v1/healthz with cache counters.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats := h.engine.CacheStats()
	respondData(w, r, map[string]interface{}{
		"status": "ok",
		"cache": map[string]interface{}{
			"keys":        stats.TotalKeys,
			"hits":        stats.Hits,
			"misses":      stats.Misses,
			"stale_reads": stats.StaleReads,
			"evictions":   stats.Evictions,
		},
	}, 0)
}

// parseLimit reads the limit query parameter. Absent means 0, which the
// engine replaces with its default. A non-integer value is a 400.
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "limit must be an integer")
		return 0, false
	}
	return limit, true
}

// respondEngineError maps engine errors to HTTP statuses.
func respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidArgument):
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, models.ErrTimeout):
		respondError(w, r, http.StatusGatewayTimeout, ErrCodeUpstreamTimeout, "upstream fetch timed out")
	case errors.Is(err, models.ErrUpstreamUnavailable):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "upstream data source unavailable")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("unhandled engine error")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
	}
}
