// PeopleLink - Social Engagement Scoring and Ranking Service
// Copyright 2026 PeopleLink Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/peoplelink/peoplelink

package recommend

import (
	"strings"

	"github.com/peoplelink/peoplelink/internal/models"
)

// contentScore computes the content-based score for one candidate: the
// number of interest terms present in the lower-cased candidate text
// (substring match), plus a flat bonus when the candidate's author is in
// the user's following set.
//
// This is an intentionally simple bag-of-terms overlap, not a trained
// model. An empty profile degrades to the following bonus only.
func contentScore(profile *models.UserInterestProfile, fact *models.EngagementFact, followBonus float64) (float64, map[string]float64) {
	text := strings.ToLower(fact.Text)

	matches := 0.0
	if text != "" {
		for _, term := range profile.InterestTerms {
			if strings.Contains(text, term.Term) {
				matches++
			}
		}
	}

	bonus := 0.0
	if profile.Follows(fact.AuthorID) {
		bonus = followBonus
	}

	score := matches + bonus
	if score == 0 {
		return 0, nil
	}
	return score, map[string]float64{
		"term_matches": matches,
		"follow_bonus": bonus,
	}
}
