// PeopleLink - Social Engagement Scoring and Ranking Service
// Copyright 2026 PeopleLink Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/peoplelink/peoplelink

// Package trending ranks tagged subjects (hashtags or posts) for a
// trailing time window by a composite usage/engagement score with
// exponential time decay.
package trending

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/peoplelink/peoplelink/internal/models"
	"github.com/peoplelink/peoplelink/internal/scoring"
)

// Config tunes the composite trending score.
type Config struct {
	// HalfLife is the decay half-life applied to time since last activity.
	HalfLife time.Duration

	// UsesWeight weighs the raw use count.
	UsesWeight float64

	// EngagementWeight weighs the like+comment+share count.
	EngagementWeight float64

	// ViewsWeight weighs the view count.
	ViewsWeight float64
}

// DefaultConfig returns the production trending weights.
func DefaultConfig() Config {
	return Config{
		HalfLife:         6 * time.Hour,
		UsesWeight:       1.0,
		EngagementWeight: 2.0,
		ViewsWeight:      0.5,
	}
}

// Scorer ranks engagement facts. It is stateless apart from its config
// and safe for concurrent use.
type Scorer struct {
	cfg    Config
	logger zerolog.Logger
}

// New creates a trending scorer.
func New(cfg Config, logger zerolog.Logger) *Scorer {
	if cfg.HalfLife <= 0 {
		cfg.HalfLife = DefaultConfig().HalfLife
	}
	return &Scorer{
		cfg:    cfg,
		logger: logger.With().Str("component", "trending").Logger(),
	}
}

// Rank scores the subjects and returns at most limit candidates ordered
// by score descending. Ties break by last activity descending, then by
// subject ID ascending, so identical inputs at the same instant yield an
// identical ordering with bit-identical scores.
//
// Subjects whose last activity falls outside the window are dropped.
// Empty input yields empty output; limit <= 0 is a caller bug.
func (s *Scorer) Rank(ctx context.Context, subjects []models.EngagementFact, window models.Window, now time.Time, limit int) ([]models.ScoredCandidate, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", models.ErrInvalidArgument, limit)
	}

	type scored struct {
		cand models.ScoredCandidate
		last time.Time
	}

	ranked := make([]scored, 0, len(subjects))
	for i := range subjects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fact := &subjects[i]
		if !window.Contains(fact.LastActivityAt) {
			continue
		}

		uses := fact.Count(models.KindUse)
		engagement := fact.Engagement()
		views := fact.Count(models.KindView)

		base := scoring.WeightedSum([]scoring.Component{
			{Value: float64(uses), Weight: s.cfg.UsesWeight},
			{Value: float64(engagement), Weight: s.cfg.EngagementWeight},
			{Value: float64(views), Weight: s.cfg.ViewsWeight},
		})
		decay := scoring.ExponentialDecay(now.Sub(fact.LastActivityAt), s.cfg.HalfLife)

		ranked = append(ranked, scored{
			cand: models.ScoredCandidate{
				SubjectID: fact.SubjectID,
				Score:     base * decay,
				ComponentScores: map[string]float64{
					"uses":       float64(uses),
					"engagement": float64(engagement),
					"views":      float64(views),
					"base":       base,
					"decay":      decay,
				},
			},
			last: fact.LastActivityAt,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].cand.Score != ranked[j].cand.Score {
			return ranked[i].cand.Score > ranked[j].cand.Score
		}
		if !ranked[i].last.Equal(ranked[j].last) {
			return ranked[i].last.After(ranked[j].last)
		}
		return ranked[i].cand.SubjectID < ranked[j].cand.SubjectID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]models.ScoredCandidate, len(ranked))
	for i, r := range ranked {
		out[i] = r.cand
	}

	s.logger.Debug().
		Int("subjects", len(subjects)).
		Int("returned", len(out)).
		Msg("trending ranking complete")

	return out, nil
}
