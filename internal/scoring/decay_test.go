// PeopleLink - Social Engagement Scoring and Ranking Service
// Copyright 2026 PeopleLink Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/peoplelink/peoplelink

package scoring

import (
	"math"
	"testing"
	"time"
)

func TestExponentialDecay(t *testing.T) {
	halfLife := 6 * time.Hour

	tests := []struct {
		name    string
		elapsed time.Duration
		want    float64
	}{
		{"zero elapsed is exactly one", 0, 1.0},
		{"negative elapsed clamps to one", -time.Hour, 1.0},
		{"one half-life halves", 6 * time.Hour, 0.5},
		{"two half-lives quarter", 12 * time.Hour, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExponentialDecay(tt.elapsed, halfLife)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("ExponentialDecay(%v, %v) = %v, want %v", tt.elapsed, halfLife, got, tt.want)
			}
		})
	}
}

func TestExponentialDecay_Monotone(t *testing.T) {
	halfLife := 6 * time.Hour

	prev := ExponentialDecay(0, halfLife)
	if prev != 1.0 {
		t.Fatalf("ExponentialDecay(0) = %v, want exactly 1.0", prev)
	}

	for _, elapsed := range []time.Duration{
		time.Minute, time.Hour, 6 * time.Hour, 24 * time.Hour,
		30 * 24 * time.Hour, 365 * 24 * time.Hour,
	} {
		got := ExponentialDecay(elapsed, halfLife)
		if got >= prev {
			t.Errorf("ExponentialDecay(%v) = %v, want < %v (monotone decreasing)", elapsed, got, prev)
		}
		if got <= 0 {
			t.Errorf("ExponentialDecay(%v) = %v, want > 0", elapsed, got)
		}
		prev = got
	}
}

func TestExponentialDecay_ZeroHalfLife(t *testing.T) {
	if got := ExponentialDecay(time.Hour, 0); got != 1.0 {
		t.Errorf("ExponentialDecay with zero half-life = %v, want 1.0", got)
	}
}

func TestEngagementRatio(t *testing.T) {
	tests := []struct {
		name string
		num  int
		den  int
		want float64
	}{
		{"normal division", 10, 4, 2.5},
		{"zero numerator", 0, 5, 0},
		{"zero denominator clamps to one", 7, 0, 7},
		{"denominator one", 7, 1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EngagementRatio(tt.num, tt.den); got != tt.want {
				t.Errorf("EngagementRatio(%d, %d) = %v, want %v", tt.num, tt.den, got, tt.want)
			}
		})
	}
}

func TestEngagementRatio_ZeroDenominatorEqualsOne(t *testing.T) {
	// Property from the ratio contract: ratio(n, 0) == ratio(n, 1).
	for _, n := range []int{0, 1, 7, 1000} {
		if EngagementRatio(n, 0) != EngagementRatio(n, 1) {
			t.Errorf("EngagementRatio(%d, 0) != EngagementRatio(%d, 1)", n, n)
		}
	}
}

func TestWeightedSum(t *testing.T) {
	tests := []struct {
		name       string
		components []Component
		want       float64
	}{
		{"empty is zero", nil, 0},
		{"single component", []Component{{Value: 3, Weight: 2}}, 6},
		{
			"trending weights",
			[]Component{
				{Value: 10, Weight: 1.0},
				{Value: 5, Weight: 2.0},
				{Value: 100, Weight: 0.5},
			},
			70,
		},
		{"negative weight subtracts", []Component{{Value: 4, Weight: -0.5}}, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeightedSum(tt.components); got != tt.want {
				t.Errorf("WeightedSum() = %v, want %v", got, tt.want)
			}
		})
	}
}
