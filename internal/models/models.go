// PeopleLink - Social Engagement Scoring and Ranking Service
// Copyright 2026 PeopleLink Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/peoplelink/peoplelink

// Package models defines the shared data types for the scoring and ranking
// engine: engagement snapshots read from storage, scored ranking output,
// user interest profiles, and the error taxonomy exposed to callers.
package models

import (
	"fmt"
	"time"
)

// SubjectType classifies the kind of content an EngagementFact describes.
type SubjectType int

const (
	// SubjectPost identifies an individual post.
	SubjectPost SubjectType = iota
	// SubjectHashtag identifies a hashtag aggregated across posts.
	SubjectHashtag
	// SubjectUser identifies a user account.
	SubjectUser
)

// String returns a human-readable name for the subject type.
func (s SubjectType) String() string {
	switch s {
	case SubjectPost:
		return "post"
	case SubjectHashtag:
		return "hashtag"
	case SubjectUser:
		return "user"
	default:
		return "unknown"
	}
}

// InteractionKind identifies one kind of engagement interaction.
type InteractionKind string

const (
	// KindUse counts uses of a hashtag (or republications of a post).
	KindUse InteractionKind = "use"
	// KindLike counts likes.
	KindLike InteractionKind = "like"
	// KindComment counts comments.
	KindComment InteractionKind = "comment"
	// KindShare counts shares.
	KindShare InteractionKind = "share"
	// KindView counts views.
	KindView InteractionKind = "view"
)

// EngagementFact is an immutable snapshot of engagement counts for one
// subject, as read from storage for the duration of a scoring pass.
// Scorers never mutate a fact.
type EngagementFact struct {
	// SubjectID is the opaque content or tag identifier.
	SubjectID string `json:"subject_id"`

	// SubjectType is the kind of subject the counts describe.
	SubjectType SubjectType `json:"subject_type"`

	// AuthorID is the author of the content, when the subject is a post.
	// Used for the following bonus in content-based scoring.
	AuthorID string `json:"author_id,omitempty"`

	// Text is the candidate text content, when the subject is a post.
	// Used for interest-term overlap in content-based scoring.
	Text string `json:"text,omitempty"`

	// Counts maps interaction kind to a non-negative count.
	Counts map[InteractionKind]int `json:"counts"`

	// LastActivityAt is the timestamp of the most recent interaction.
	// Invariant: LastActivityAt >= CreatedAt.
	LastActivityAt time.Time `json:"last_activity_at"`

	// CreatedAt is when the subject was created.
	CreatedAt time.Time `json:"created_at"`
}

// Count returns the count for one interaction kind, zero if absent.
func (f *EngagementFact) Count(kind InteractionKind) int {
	return f.Counts[kind]
}

// Engagement returns the combined like+comment+share count.
func (f *EngagementFact) Engagement() int {
	return f.Counts[KindLike] + f.Counts[KindComment] + f.Counts[KindShare]
}

// ScoredCandidate is one entry of a ranked list produced by a scorer.
// Score is a deterministic pure function of the input facts and the
// evaluation instant: identical inputs yield bit-identical scores.
type ScoredCandidate struct {
	// SubjectID is the ranked subject.
	SubjectID string `json:"subject_id"`

	// Score is the composite ranking score.
	Score float64 `json:"score"`

	// ComponentScores retains per-factor contributions for explainability.
	ComponentScores map[string]float64 `json:"component_scores,omitempty"`
}

// Window is a trailing time window used to filter engagement facts.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window (inclusive bounds).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// TrailingWindow returns the window covering the last d before end.
func TrailingWindow(end time.Time, d time.Duration) Window {
	return Window{Start: end.Add(-d), End: end}
}

// InterestTerm is one weighted term of a user interest profile.
type InterestTerm struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// UserInterestProfile is a derived, TTL-cached summary of what a user
// writes about and whom they follow. An empty profile (no terms, no
// follows) is valid and degrades content-based scoring to zero.
type UserInterestProfile struct {
	// UserID is the profile owner.
	UserID string `json:"user_id"`

	// InterestTerms is ordered by weight descending, term ascending.
	InterestTerms []InterestTerm `json:"interest_terms"`

	// FollowingSet is the set of user IDs the owner follows.
	FollowingSet map[string]struct{} `json:"-"`

	// ComputedAt is when the profile was built.
	ComputedAt time.Time `json:"computed_at"`
}

// Follows reports whether the profile owner follows the given user.
func (p *UserInterestProfile) Follows(userID string) bool {
	if p == nil || userID == "" {
		return false
	}
	_, ok := p.FollowingSet[userID]
	return ok
}

// IsEmpty reports whether the profile carries no signal at all.
func (p *UserInterestProfile) IsEmpty() bool {
	return p == nil || (len(p.InterestTerms) == 0 && len(p.FollowingSet) == 0)
}

// EngagementCounts is the raw aggregate used by the analytics overview.
// It is a pass-through of counts, not a scoring artifact.
type EngagementCounts struct {
	Posts          int `json:"posts"`
	LikesReceived  int `json:"likes_received"`
	LikesGiven     int `json:"likes_given"`
	Comments       int `json:"comments"`
	Shares         int `json:"shares"`
	Views          int `json:"views"`
	Followers      int `json:"followers"`
	Following      int `json:"following"`
}

// AnalyticsOverview is the caller-facing analytics aggregate for one user.
type AnalyticsOverview struct {
	UserID         string           `json:"user_id"`
	Period         string           `json:"period"`
	Counts         EngagementCounts `json:"counts"`
	EngagementRate float64          `json:"engagement_rate"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

// ParsePeriod maps a caller-supplied period string to a duration.
// Unknown periods are an InvalidArgument error.
func ParsePeriod(period string) (time.Duration, error) {
	switch period {
	case "1h":
		return time.Hour, nil
	case "24h", "1d":
		return 24 * time.Hour, nil
	case "7d":
		return 7 * 24 * time.Hour, nil
	case "30d":
		return 30 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("%w: unknown period %q", ErrInvalidArgument, period)
	}
}
