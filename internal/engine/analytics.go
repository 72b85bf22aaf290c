// PeopleLink - Social Engagement Scoring and Ranking Service
// Copyright 2026 PeopleLink Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/peoplelink/peoplelink

package engine

import (
	"context"
	"fmt"

	"github.com/peoplelink/peoplelink/internal/metrics"
	"github.com/peoplelink/peoplelink/internal/models"
	"github.com/peoplelink/peoplelink/internal/scoring"
)

func analyticsKeyPrefix(userID string) string {
	return "useranalytics_" + userID + "_"
}

func analyticsKey(userID, period string) string {
	return analyticsKeyPrefix(userID) + period
}

// GetUserAnalyticsOverview returns the aggregate engagement counts for
// one user over the trailing period. This is a pass-through aggregation,
// not a scoring pass: counts are used directly, with the engagement rate
// derived as engagements per view. Cached per user and period.
func (e *Engine) GetUserAnalyticsOverview(ctx context.Context, userID, period string) (*models.AnalyticsOverview, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: empty user id", models.ErrInvalidArgument)
	}
	duration, err := models.ParsePeriod(period)
	if err != nil {
		return nil, err
	}

	key := analyticsKey(userID, period)
	if v, ok := e.cache.Get(key); ok {
		if overview, ok := v.(*models.AnalyticsOverview); ok {
			metrics.CacheHits.WithLabelValues("analytics").Inc()
			return overview, nil
		}
	}
	metrics.CacheMisses.WithLabelValues("analytics").Inc()

	v, err, _ := e.sf.Do(key, func() (interface{}, error) {
		now := e.clock()
		window := models.TrailingWindow(now, duration)

		counts, err := e.store.UserEngagementCounts(ctx, userID, window)
		if err != nil {
			metrics.UpstreamErrors.WithLabelValues("analytics").Inc()
			return nil, e.classifyFetchErr(ctx, err)
		}

		overview := &models.AnalyticsOverview{
			UserID: userID,
			Period: period,
			Counts: counts,
			EngagementRate: scoring.EngagementRatio(
				counts.LikesReceived+counts.Comments+counts.Shares,
				counts.Views,
			),
			GeneratedAt: now,
		}

		e.cache.Set(key, overview, e.cfg.AnalyticsTTL)
		return overview, nil
	})
	if err != nil {
		if stale, ok := e.staleOverview(key); ok {
			e.logger.Warn().Err(err).Str("key", key).Msg("serving stale analytics overview")
			metrics.StaleFallbacks.WithLabelValues("analytics").Inc()
			return stale, nil
		}
		return nil, err
	}

	return v.(*models.AnalyticsOverview), nil
}

func (e *Engine) staleOverview(key string) (*models.AnalyticsOverview, bool) {
	v, ok := e.cache.GetStale(key)
	if !ok {
		return nil, false
	}
	overview, ok := v.(*models.AnalyticsOverview)
	if !ok {
		return nil, false
	}
	// Value semantics: hand the caller a copy.
	clone := *overview
	return &clone, true
}
