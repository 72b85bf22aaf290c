// PeopleLink - Social Engagement Scoring and Ranking Service
// Copyright 2026 PeopleLink Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/peoplelink/peoplelink

// Package engine orchestrates the scorers behind the caller-facing
// operations: trending rankings, per-user recommendations, and the
// analytics overview. It owns the result cache and is the only place
// where cache keys, TTLs, and stale fallbacks are decided.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/peoplelink/peoplelink/internal/cache"
	"github.com/peoplelink/peoplelink/internal/metrics"
	"github.com/peoplelink/peoplelink/internal/models"
	"github.com/peoplelink/peoplelink/internal/recommend"
	"github.com/peoplelink/peoplelink/internal/storage"
	"github.com/peoplelink/peoplelink/internal/trending"
)

// Config tunes caching and limits for the engine.
type Config struct {
	// TrendingTTL is the cache TTL for trending rankings.
	TrendingTTL time.Duration

	// AnalyticsTTL is the cache TTL for per-user analytics overviews.
	AnalyticsTTL time.Duration

	// DefaultLimit applies when the caller passes no limit.
	DefaultLimit int

	// MaxLimit caps caller-supplied limits.
	MaxLimit int
}

// DefaultConfig returns the production engine settings. The 5-minute
// TTLs match the upstream cache policy for trending and analytics.
func DefaultConfig() Config {
	return Config{
		TrendingTTL:  5 * time.Minute,
		AnalyticsTTL: 5 * time.Minute,
		DefaultLimit: 20,
		MaxLimit:     100,
	}
}

// Engine coordinates scorers, storage, and the result cache.
// Safe for concurrent use; the cache is the only shared mutable state.
type Engine struct {
	store    storage.Store
	cache    *cache.Cache
	trending *trending.Scorer
	rec      *recommend.Recommender
	cfg      Config
	logger   zerolog.Logger

	// sf collapses concurrent identical recomputations on cache miss.
	sf singleflight.Group

	// clock is time.Now outside tests. Sampled once per ranking pass so
	// all candidates of a pass share the same evaluation instant.
	clock func() time.Time
}

// New creates the engine. The cache must be a per-process instance
// constructed by the caller and injected, never shared global state.
func New(store storage.Store, c *cache.Cache, tr *trending.Scorer, rec *recommend.Recommender, cfg Config, logger zerolog.Logger) *Engine {
	if cfg.TrendingTTL <= 0 {
		cfg.TrendingTTL = DefaultConfig().TrendingTTL
	}
	if cfg.AnalyticsTTL <= 0 {
		cfg.AnalyticsTTL = DefaultConfig().AnalyticsTTL
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultConfig().DefaultLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = DefaultConfig().MaxLimit
	}
	return &Engine{
		store:    store,
		cache:    c,
		trending: tr,
		rec:      rec,
		cfg:      cfg,
		logger:   logger.With().Str("component", "engine").Logger(),
		clock:    time.Now,
	}
}

func trendingKey(period string, limit int, category string) string {
	key := "trending_" + period + "_" + strconv.Itoa(limit)
	if category != "" {
		key += "_" + category
	}
	return key
}

// GetTrending returns the ranked trending hashtags for the trailing
// period, at most limit entries. Results are cached per
// period/limit/category; concurrent misses for the same key compute
// once. On recomputation failure the last cached ranking is served
// stale when one exists.
func (e *Engine) GetTrending(ctx context.Context, period string, limit int, category string) ([]models.ScoredCandidate, error) {
	limit, err := e.clampLimit(limit)
	if err != nil {
		return nil, err
	}
	duration, err := models.ParsePeriod(period)
	if err != nil {
		return nil, err
	}

	key := trendingKey(period, limit, category)
	if v, ok := e.cache.Get(key); ok {
		if ranked, ok := v.([]models.ScoredCandidate); ok {
			metrics.CacheHits.WithLabelValues("trending").Inc()
			return cloneRanking(ranked), nil
		}
	}
	metrics.CacheMisses.WithLabelValues("trending").Inc()

	v, err, _ := e.sf.Do(key, func() (interface{}, error) {
		start := time.Now()
		now := e.clock()
		window := models.TrailingWindow(now, duration)

		facts, err := e.store.EngagementFacts(ctx, models.SubjectHashtag, storage.Filter{Category: category}, window)
		if err != nil {
			metrics.UpstreamErrors.WithLabelValues("trending").Inc()
			return nil, e.classifyFetchErr(ctx, err)
		}

		ranked, err := e.trending.Rank(ctx, facts, window, now, limit)
		if err != nil {
			return nil, e.classifyFetchErr(ctx, err)
		}

		e.cache.Set(key, ranked, e.cfg.TrendingTTL)
		metrics.ObserveScoring("trending", time.Since(start))
		return ranked, nil
	})
	if err != nil {
		if stale, ok := e.staleRanking(key); ok {
			e.logger.Warn().Err(err).Str("key", key).Msg("serving stale trending ranking")
			metrics.StaleFallbacks.WithLabelValues("trending").Inc()
			return stale, nil
		}
		return nil, err
	}

	return cloneRanking(v.([]models.ScoredCandidate)), nil
}

// GetRecommendations returns up to limit personalized recommendations
// for the user. The personalized path is not result-cached; the interest
// profile underneath is TTL-cached by the recommender.
func (e *Engine) GetRecommendations(ctx context.Context, userID string, limit int) ([]models.ScoredCandidate, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", models.ErrInvalidArgument)
	}
	limit, err := e.clampLimit(limit)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ranked, err := e.rec.Recommend(ctx, userID, limit, e.clock())
	if err != nil {
		if errors.Is(err, models.ErrInvalidArgument) {
			return nil, err
		}
		metrics.UpstreamErrors.WithLabelValues("recommendations").Inc()
		return nil, e.classifyFetchErr(ctx, err)
	}

	metrics.ObserveScoring("recommendations", time.Since(start))
	return ranked, nil
}

// HandleContentChange invalidates every cached result a content mutation
// can affect: all trending rankings, the acting user's analytics
// overview, and their interest profile.
func (e *Engine) HandleContentChange(userID string) {
	removed := e.cache.InvalidatePattern("trending_")
	if userID != "" {
		removed += e.cache.InvalidatePattern(analyticsKeyPrefix(userID))
		e.rec.Profiles().Invalidate(userID)
	}

	e.logger.Debug().
		Str("user_id", userID).
		Int("invalidated", removed).
		Msg("content change invalidation")
}

// CacheStats exposes result-cache counters for the health endpoint.
func (e *Engine) CacheStats() cache.Stats {
	return e.cache.GetStats()
}

// clampLimit applies the default and maximum limits. Zero means "use
// default"; negative limits are a caller bug.
func (e *Engine) clampLimit(limit int) (int, error) {
	if limit < 0 {
		return 0, fmt.Errorf("%w: limit must be positive, got %d", models.ErrInvalidArgument, limit)
	}
	if limit == 0 {
		return e.cfg.DefaultLimit, nil
	}
	if limit > e.cfg.MaxLimit {
		return e.cfg.MaxLimit, nil
	}
	return limit, nil
}

// classifyFetchErr maps an I/O-boundary failure to the error taxonomy.
// Deadline expiry becomes Timeout and the partial result is discarded;
// everything else from storage is UpstreamUnavailable.
func (e *Engine) classifyFetchErr(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, models.ErrInvalidArgument),
		errors.Is(err, models.ErrTimeout),
		errors.Is(err, models.ErrUpstreamUnavailable):
		return err
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", models.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
}

func (e *Engine) staleRanking(key string) ([]models.ScoredCandidate, bool) {
	v, ok := e.cache.GetStale(key)
	if !ok {
		return nil, false
	}
	ranked, ok := v.([]models.ScoredCandidate)
	if !ok {
		return nil, false
	}
	return cloneRanking(ranked), true
}

// cloneRanking copies a cached ranking so callers own their result and
// never alias cache state.
func cloneRanking(in []models.ScoredCandidate) []models.ScoredCandidate {
	out := make([]models.ScoredCandidate, len(in))
	copy(out, in)
	return out
}
