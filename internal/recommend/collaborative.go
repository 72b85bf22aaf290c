// PeopleLink - Social Engagement Scoring and Ranking Service
// Copyright 2026 PeopleLink Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/peoplelink/peoplelink

package recommend

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/peoplelink/peoplelink/internal/models"
)

// similarUser pairs a user with their similarity to the requesting user.
type similarUser struct {
	userID string
	score  float64
	likes  map[string]struct{}
}

// similarityWeights match the upstream ratio: follow overlap and like
// overlap dominate, shared interest terms contribute the remainder.
// Each term is a raw intersection count, NOT normalized by union size
// (so this is not a true Jaccard index). Preserved as-is: the value is
// only ever used for relative ranking, never as an absolute threshold.
const (
	followOverlapWeight = 0.4
	likeOverlapWeight   = 0.4
	contentSimWeight    = 0.2
)

// similarUsers evaluates the candidate users against the requesting
// user's profile and likes, bounded to the most-recently-active users
// for cost control. Results are ordered by similarity descending, user
// ID ascending, and carry each similar user's like set for candidate
// scoring.
func (r *Recommender) similarUsers(ctx context.Context, userID string, profile *models.UserInterestProfile) ([]similarUser, error) {
	candidates, err := r.store.RecentlyActiveUsers(ctx, r.cfg.SimilarUserBound)
	if err != nil {
		return nil, fmt.Errorf("fetch active users: %w", err)
	}

	ownLikes, err := r.store.LikedContentIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch own likes: %w", err)
	}

	ownTerms := make(map[string]struct{}, len(profile.InterestTerms))
	for _, t := range profile.InterestTerms {
		ownTerms[t.Term] = struct{}{}
	}

	var (
		mu      sync.Mutex
		similar []similarUser
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.FetchConcurrency)

	for _, other := range candidates {
		if other == userID {
			continue
		}
		other := other // pre-Go 1.22 loop variable capture
		g.Go(func() error {
			follows, err := r.store.FollowSet(gctx, other)
			if err != nil {
				return fmt.Errorf("fetch follow set for %s: %w", other, err)
			}
			likes, err := r.store.LikedContentIDs(gctx, other)
			if err != nil {
				return fmt.Errorf("fetch likes for %s: %w", other, err)
			}
			otherProfile, err := r.profiles.Get(gctx, other)
			if err != nil {
				return fmt.Errorf("build profile for %s: %w", other, err)
			}

			followOverlap := intersectionCount(profile.FollowingSet, follows)
			likeOverlap := intersectionCount(ownLikes, likes)
			contentSim := termOverlap(ownTerms, otherProfile.InterestTerms)

			score := float64(followOverlap)*followOverlapWeight +
				float64(likeOverlap)*likeOverlapWeight +
				float64(contentSim)*contentSimWeight
			if score <= 0 {
				return nil
			}

			mu.Lock()
			similar = append(similar, similarUser{userID: other, score: score, likes: likes})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(similar, func(i, j int) bool {
		if similar[i].score != similar[j].score {
			return similar[i].score > similar[j].score
		}
		return similar[i].userID < similar[j].userID
	})
	return similar, nil
}

// collaborativeScores ranks candidates by the similarity-weighted count
// of similar users who liked each candidate.
func collaborativeScores(similar []similarUser, candidateIDs map[string]struct{}) map[string]float64 {
	scores := make(map[string]float64)
	for _, su := range similar {
		for id := range su.likes {
			if _, ok := candidateIDs[id]; ok {
				scores[id] += su.score
			}
		}
	}
	return scores
}

func intersectionCount(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

func termOverlap(own map[string]struct{}, terms []models.InterestTerm) int {
	n := 0
	for _, t := range terms {
		if _, ok := own[t.Term]; ok {
			n++
		}
	}
	return n
}
