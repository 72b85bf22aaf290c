// PeopleLink - Social Engagement Scoring and Ranking Service
// Copyright 2026 PeopleLink Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/peoplelink/peoplelink

// Package metrics exposes Prometheus instrumentation for the scoring
// engine: API throughput and latency, per-scorer computation time, and
// result-cache effectiveness.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts handled API requests by endpoint and status.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "peoplelink_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"endpoint", "status"},
	)

	// APIRequestDuration observes API request latency by endpoint.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "peoplelink_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// ScoringDuration observes scoring pass duration by scorer.
	ScoringDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "peoplelink_scoring_duration_seconds",
			Help:    "Duration of scoring passes in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"scorer"},
	)

	// CacheHits counts result-cache hits by operation.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "peoplelink_result_cache_hits_total",
			Help: "Total result cache hits",
		},
		[]string{"operation"},
	)

	// CacheMisses counts result-cache misses by operation.
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "peoplelink_result_cache_misses_total",
			Help: "Total result cache misses",
		},
		[]string{"operation"},
	)

	// StaleFallbacks counts responses served from expired cache entries
	// after a recomputation failure.
	StaleFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "peoplelink_stale_fallbacks_total",
			Help: "Total responses served from stale cache entries",
		},
		[]string{"operation"},
	)

	// UpstreamErrors counts storage fetch failures by operation.
	UpstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "peoplelink_upstream_errors_total",
			Help: "Total storage collaborator fetch failures",
		},
		[]string{"operation"},
	)
)

// ObserveRequest records one handled API request.
func ObserveRequest(endpoint string, status int, d time.Duration) {
	APIRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// ObserveScoring records one scoring pass.
func ObserveScoring(scorer string, d time.Duration) {
	ScoringDuration.WithLabelValues(scorer).Observe(d.Seconds())
}
