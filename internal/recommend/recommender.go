// PeopleLink - Social Engagement Scoring and Ranking Service
// Copyright 2026 PeopleLink Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/peoplelink/peoplelink

// Package recommend produces ranked content recommendations per user by
// combining three independently computed pools: content-based interest
// overlap, collaborative filtering over similar users, and a trending
// fallback for cold-start users.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/peoplelink/peoplelink/internal/models"
	"github.com/peoplelink/peoplelink/internal/storage"
	"github.com/peoplelink/peoplelink/internal/trending"
)

// Config tunes the recommendation scorer.
type Config struct {
	// SimilarUserBound caps how many recently active users the
	// collaborative pass evaluates. Accuracy/cost tradeoff.
	SimilarUserBound int

	// FollowBonus is the flat content-based bonus when the candidate's
	// author is followed by the requesting user.
	FollowBonus float64

	// CandidateWindow is the trailing window for the public candidate
	// pool.
	CandidateWindow time.Duration

	// FetchConcurrency bounds concurrent storage fetches during the
	// similar-user scatter.
	FetchConcurrency int
}

// DefaultConfig returns the production recommendation settings.
func DefaultConfig() Config {
	return Config{
		SimilarUserBound: 100,
		FollowBonus:      2.0,
		CandidateWindow:  24 * time.Hour,
		FetchConcurrency: 8,
	}
}

// Recommender computes ranked recommendations. Safe for concurrent use.
type Recommender struct {
	store    storage.Store
	profiles *ProfileBuilder
	trending *trending.Scorer
	cfg      Config
	logger   zerolog.Logger
}

// New creates a recommender.
func New(store storage.Store, profiles *ProfileBuilder, tr *trending.Scorer, cfg Config, logger zerolog.Logger) *Recommender {
	if cfg.SimilarUserBound <= 0 {
		cfg.SimilarUserBound = DefaultConfig().SimilarUserBound
	}
	if cfg.FollowBonus == 0 {
		cfg.FollowBonus = DefaultConfig().FollowBonus
	}
	if cfg.CandidateWindow <= 0 {
		cfg.CandidateWindow = DefaultConfig().CandidateWindow
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = DefaultConfig().FetchConcurrency
	}
	return &Recommender{
		store:    store,
		profiles: profiles,
		trending: tr,
		cfg:      cfg,
		logger:   logger.With().Str("component", "recommend").Logger(),
	}
}

// Profiles exposes the profile builder for invalidation on content events.
func (r *Recommender) Profiles() *ProfileBuilder {
	return r.profiles
}

// Recommend returns up to limit candidates for the user. Pools are
// computed independently and concatenated content-based first, then
// collaborative, then trending, de-duplicated by subject ID. Content the
// user has already liked or commented on, and their own posts, are
// excluded before ranking. now is sampled once by the caller and held
// constant for the whole pass.
func (r *Recommender) Recommend(ctx context.Context, userID string, limit int, now time.Time) ([]models.ScoredCandidate, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", models.ErrInvalidArgument, limit)
	}

	window := models.TrailingWindow(now, r.cfg.CandidateWindow)

	// Scatter the independent snapshot reads, gather before scoring.
	var (
		profile *models.UserInterestProfile
		seen    map[string]struct{}
		facts   []models.EngagementFact
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profile, err = r.profiles.Get(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		seen, err = r.store.SeenContentIDs(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch seen content: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		facts, err = r.store.EngagementFacts(gctx, models.SubjectPost, storage.Filter{PublicOnly: true}, window)
		if err != nil {
			return fmt.Errorf("fetch candidate posts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidates := make([]models.EngagementFact, 0, len(facts))
	candidateIDs := make(map[string]struct{}, len(facts))
	for _, f := range facts {
		if _, isSeen := seen[f.SubjectID]; isSeen {
			continue
		}
		if f.AuthorID == userID {
			continue
		}
		candidates = append(candidates, f)
		candidateIDs[f.SubjectID] = struct{}{}
	}

	contentPool := r.contentPool(profile, candidates)

	collabPool, err := r.collaborativePool(ctx, userID, profile, candidateIDs)
	if err != nil {
		return nil, err
	}

	trendingPool, err := r.trending.Rank(ctx, candidates, window, now, limit)
	if err != nil {
		return nil, err
	}

	out := interleave(limit, contentPool, collabPool, trendingPool)

	r.logger.Debug().
		Str("user_id", userID).
		Int("candidates", len(candidates)).
		Int("content_pool", len(contentPool)).
		Int("collab_pool", len(collabPool)).
		Int("trending_pool", len(trendingPool)).
		Int("returned", len(out)).
		Msg("recommendation pass complete")

	return out, nil
}

// contentPool scores candidates by interest-term overlap and follow
// bonus, ordered by score descending then subject ID ascending.
func (r *Recommender) contentPool(profile *models.UserInterestProfile, candidates []models.EngagementFact) []models.ScoredCandidate {
	pool := make([]models.ScoredCandidate, 0, len(candidates))
	for i := range candidates {
		score, components := contentScore(profile, &candidates[i], r.cfg.FollowBonus)
		if score <= 0 {
			continue
		}
		pool = append(pool, models.ScoredCandidate{
			SubjectID:       candidates[i].SubjectID,
			Score:           score,
			ComponentScores: components,
		})
	}
	sortPool(pool)
	return pool
}

// collaborativePool ranks candidates by similarity-weighted likes from
// similar users.
func (r *Recommender) collaborativePool(ctx context.Context, userID string, profile *models.UserInterestProfile, candidateIDs map[string]struct{}) ([]models.ScoredCandidate, error) {
	similar, err := r.similarUsers(ctx, userID, profile)
	if err != nil {
		return nil, err
	}
	if len(similar) == 0 {
		return nil, nil
	}

	scores := collaborativeScores(similar, candidateIDs)
	pool := make([]models.ScoredCandidate, 0, len(scores))
	for id, score := range scores {
		pool = append(pool, models.ScoredCandidate{
			SubjectID:       id,
			Score:           score,
			ComponentScores: map[string]float64{"collaborative": score},
		})
	}
	sortPool(pool)
	return pool, nil
}

// interleave concatenates the pools in priority order, de-duplicating by
// subject ID and stopping at limit.
func interleave(limit int, pools ...[]models.ScoredCandidate) []models.ScoredCandidate {
	out := make([]models.ScoredCandidate, 0, limit)
	picked := make(map[string]struct{}, limit)
	for _, pool := range pools {
		for _, cand := range pool {
			if len(out) >= limit {
				return out
			}
			if _, dup := picked[cand.SubjectID]; dup {
				continue
			}
			picked[cand.SubjectID] = struct{}{}
			out = append(out, cand)
		}
	}
	return out
}

func sortPool(pool []models.ScoredCandidate) {
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].Score != pool[j].Score {
			return pool[i].Score > pool[j].Score
		}
		return pool[i].SubjectID < pool[j].SubjectID
	})
}
