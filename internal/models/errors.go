// PeopleLink - Social Engagement Scoring and Ranking Service
// Copyright 2026 PeopleLink Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/peoplelink/peoplelink

package models

import "errors"

// Error taxonomy for scoring operations. All failure originates at the
// I/O boundary; the pure scoring functions cannot fail on valid input.
var (
	// ErrInvalidArgument indicates a caller bug (bad limit, period or
	// window). Reject immediately, no retry.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUpstreamUnavailable indicates a storage fetch failed. Propagated
	// to the caller; retries with backoff are the caller's decision.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrTimeout indicates the deadline expired during fact gathering or
	// scoring. Partial work is discarded, never returned truncated.
	ErrTimeout = errors.New("operation timed out")
)
