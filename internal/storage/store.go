// PeopleLink - Social Engagement Scoring and Ranking Service
// Copyright 2026 PeopleLink Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/peoplelink/peoplelink

// Package storage defines the read interface the scoring core consumes
// from the persistence collaborator. All reads are eventually-consistent
// snapshots; the core does not require strong consistency.
package storage

import (
	"context"

	"github.com/peoplelink/peoplelink/internal/models"
)

// Filter narrows an engagement-fact fetch.
type Filter struct {
	// Category restricts hashtags to one category, empty for all.
	Category string

	// PublicOnly restricts posts to publicly visible ones.
	PublicOnly bool
}

// Store is the storage collaborator boundary. Implementations must be
// safe for concurrent use; the engine issues independent fetches
// concurrently and gathers all results before scoring.
type Store interface {
	// EngagementFacts returns snapshot facts for subjects of the given
	// type whose last activity falls inside the window.
	EngagementFacts(ctx context.Context, subjectType models.SubjectType, filter Filter, window models.Window) ([]models.EngagementFact, error)

	// UserAuthoredAndLikedText returns the text of content the user has
	// authored or liked, for interest-profile extraction.
	UserAuthoredAndLikedText(ctx context.Context, userID string) ([]string, error)

	// FollowSet returns the set of user IDs the user follows.
	FollowSet(ctx context.Context, userID string) (map[string]struct{}, error)

	// LikedContentIDs returns the set of content IDs the user has liked.
	LikedContentIDs(ctx context.Context, userID string) (map[string]struct{}, error)

	// SeenContentIDs returns content the user has already liked or
	// commented on; excluded from recommendations before ranking.
	SeenContentIDs(ctx context.Context, userID string) (map[string]struct{}, error)

	// RecentlyActiveUsers returns up to limit user IDs ordered by most
	// recent activity. Bounds the similar-user search.
	RecentlyActiveUsers(ctx context.Context, limit int) ([]string, error)

	// UserEngagementCounts returns the raw aggregate counts for the
	// analytics overview, scoped to the window.
	UserEngagementCounts(ctx context.Context, userID string, window models.Window) (models.EngagementCounts, error)
}
