// PeopleLink - Social Engagement Scoring and Ranking Service
// Copyright 2026 PeopleLink Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/peoplelink/peoplelink

// Package scoring provides the pure decay and ratio primitives shared by
// the trending and recommendation scorers.
//
// All functions are stateless and deterministic: identical inputs yield
// bit-identical outputs. Inputs are pre-validated by callers; negative
// counts are a caller contract violation, not handled here.
package scoring

import (
	"math"
	"time"
)

// Component is one (value, weight) pair of a weighted sum.
type Component struct {
	Value  float64
	Weight float64
}

// ExponentialDecay returns 2^(-elapsed/halfLife), in (0, 1].
//
// elapsed <= 0 returns exactly 1.0. The result is monotonically
// decreasing in elapsed, never negative, and approaches but never
// reaches zero. A non-positive halfLife disables decay.
func ExponentialDecay(elapsed, halfLife time.Duration) float64 {
	if elapsed <= 0 || halfLife <= 0 {
		return 1.0
	}
	return math.Exp2(-float64(elapsed) / float64(halfLife))
}

// EngagementRatio returns numerator / max(denominator, 1).
//
// A zero denominator clamps to 1 rather than erroring, so a subject with
// no views scores its raw engagement count instead of dividing by zero.
func EngagementRatio(numerator, denominator int) float64 {
	if denominator < 1 {
		denominator = 1
	}
	return float64(numerator) / float64(denominator)
}

// WeightedSum returns the sum of value*weight over components, in order.
// No normalization is performed; callers choose weights such that outputs
// are comparable across candidates of the same scoring pass.
func WeightedSum(components []Component) float64 {
	var sum float64
	for _, c := range components {
		sum += c.Value * c.Weight
	}
	return sum
}
