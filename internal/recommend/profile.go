// PeopleLink - Social Engagement Scoring and Ranking Service
// Copyright 2026 PeopleLink Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/peoplelink/peoplelink

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/peoplelink/peoplelink/internal/cache"
	"github.com/peoplelink/peoplelink/internal/models"
	"github.com/peoplelink/peoplelink/internal/storage"
)

// stopwords are high-frequency terms that carry no interest signal.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "that": {}, "this": {}, "with": {},
	"you": {}, "your": {}, "are": {}, "was": {}, "have": {}, "has": {},
	"not": {}, "but": {}, "all": {}, "can": {}, "out": {}, "get": {},
	"just": {}, "like": {}, "about": {}, "from": {}, "what": {}, "when": {},
	"how": {}, "why": {}, "who": {}, "will": {}, "they": {}, "them": {},
	"there": {}, "here": {}, "more": {}, "some": {}, "very": {}, "into": {},
}

// ProfileConfig tunes interest-profile extraction.
type ProfileConfig struct {
	// MaxTerms caps the number of interest terms kept per profile.
	MaxTerms int

	// MinTermLength drops tokens shorter than this many runes.
	MinTermLength int

	// TTL bounds profile staleness; profiles are rebuilt lazily after
	// expiry or explicit invalidation.
	TTL time.Duration
}

// DefaultProfileConfig returns the production profile settings.
func DefaultProfileConfig() ProfileConfig {
	return ProfileConfig{
		MaxTerms:      20,
		MinTermLength: 3,
		TTL:           10 * time.Minute,
	}
}

// ProfileBuilder builds and caches user interest profiles from the text
// a user has authored and liked, plus their follow set.
type ProfileBuilder struct {
	store  storage.Store
	cache  *cache.Cache
	cfg    ProfileConfig
	logger zerolog.Logger
}

// NewProfileBuilder creates a profile builder backed by the shared result
// cache. The cache may be nil, in which case every Get rebuilds.
func NewProfileBuilder(store storage.Store, c *cache.Cache, cfg ProfileConfig, logger zerolog.Logger) *ProfileBuilder {
	if cfg.MaxTerms <= 0 {
		cfg.MaxTerms = DefaultProfileConfig().MaxTerms
	}
	if cfg.MinTermLength <= 0 {
		cfg.MinTermLength = DefaultProfileConfig().MinTermLength
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultProfileConfig().TTL
	}
	return &ProfileBuilder{
		store:  store,
		cache:  c,
		cfg:    cfg,
		logger: logger.With().Str("component", "profile").Logger(),
	}
}

func profileKey(userID string) string {
	return "profile_" + userID
}

// Get returns the cached profile for userID, rebuilding it on miss or
// expiry. A user with no authored or liked content yields a valid empty
// profile, never an error.
func (b *ProfileBuilder) Get(ctx context.Context, userID string) (*models.UserInterestProfile, error) {
	if b.cache != nil {
		if v, ok := b.cache.Get(profileKey(userID)); ok {
			if p, ok := v.(*models.UserInterestProfile); ok {
				return p, nil
			}
		}
	}

	p, err := b.Build(ctx, userID)
	if err != nil {
		return nil, err
	}

	if b.cache != nil {
		b.cache.Set(profileKey(userID), p, b.cfg.TTL)
	}
	return p, nil
}

// Invalidate drops the cached profile for userID. Called when the user
// posts or likes new content.
func (b *ProfileBuilder) Invalidate(userID string) {
	if b.cache != nil {
		b.cache.Invalidate(profileKey(userID))
	}
}

// Build constructs a fresh profile. Text and follow set are fetched
// concurrently and both must arrive before extraction.
func (b *ProfileBuilder) Build(ctx context.Context, userID string) (*models.UserInterestProfile, error) {
	var (
		texts   []string
		follows map[string]struct{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		texts, err = b.store.UserAuthoredAndLikedText(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch user text: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		follows, err = b.store.FollowSet(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch follow set: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	profile := &models.UserInterestProfile{
		UserID:        userID,
		InterestTerms: b.extractTerms(texts),
		FollowingSet:  follows,
		ComputedAt:    time.Now(),
	}

	b.logger.Debug().
		Str("user_id", userID).
		Int("terms", len(profile.InterestTerms)).
		Int("follows", len(follows)).
		Msg("built interest profile")

	return profile, nil
}

// extractTerms tokenizes the texts and returns the top terms by frequency,
// ordered by weight descending then term ascending for determinism.
func (b *ProfileBuilder) extractTerms(texts []string) []models.InterestTerm {
	freq := make(map[string]float64)
	for _, text := range texts {
		for _, token := range tokenize(text) {
			if len(token) < b.cfg.MinTermLength {
				continue
			}
			if _, stop := stopwords[token]; stop {
				continue
			}
			freq[token]++
		}
	}

	terms := make([]models.InterestTerm, 0, len(freq))
	for term, weight := range freq {
		terms = append(terms, models.InterestTerm{Term: term, Weight: weight})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Weight != terms[j].Weight {
			return terms[i].Weight > terms[j].Weight
		}
		return terms[i].Term < terms[j].Term
	})

	if len(terms) > b.cfg.MaxTerms {
		terms = terms[:b.cfg.MaxTerms]
	}
	return terms
}

// tokenize lower-cases text and splits on non-letter, non-digit runes.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
