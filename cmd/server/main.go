// PeopleLink - Social Engagement Scoring and Ranking Service
// Copyright 2026 PeopleLink Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/peoplelink/peoplelink

// Package main is the entry point for the PeopleLink scoring server.
//
// The server computes trending rankings, personalized recommendations,
// and per-user engagement analytics over social interaction data, and
// serves them through a REST API with TTL-cached results.
//
// Startup order:
//
//  1. Configuration: layered Koanf v2 load (defaults, YAML file, env)
//  2. Logging: global zerolog setup
//  3. Storage: engagement data source
//  4. Scoring: result cache, trending scorer, recommender, engine
//  5. HTTP server: chi router with Prometheus metrics
//
// # Configuration
//
// Settings come from PEOPLELINK_* environment variables or a YAML file
// (PEOPLELINK_CONFIG or ./config.yaml). Examples:
//
//	export PEOPLELINK_SERVER_PORT=8080
//	export PEOPLELINK_LOGGING_LEVEL=debug
//	export PEOPLELINK_TRENDING_HALF_LIFE=6h
//	./server
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the server stops
// accepting connections, waits for in-flight requests up to
// server.shutdown_timeout, then closes the cache sweeper.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peoplelink/peoplelink/internal/api"
	"github.com/peoplelink/peoplelink/internal/cache"
	"github.com/peoplelink/peoplelink/internal/config"
	"github.com/peoplelink/peoplelink/internal/engine"
	"github.com/peoplelink/peoplelink/internal/logging"
	"github.com/peoplelink/peoplelink/internal/recommend"
	"github.com/peoplelink/peoplelink/internal/storage/memory"
	"github.com/peoplelink/peoplelink/internal/trending"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Msg("starting peoplelink server")

	store := memory.New()
	if os.Getenv("PEOPLELINK_SEED_DEMO_DATA") == "true" {
		seedDemoData(store)
		logging.Info().Msg("demo data seeded")
	}

	resultCache := cache.New(cfg.Cache.SweepInterval)
	defer resultCache.Close()

	logger := logging.Logger()
	trendingScorer := trending.New(trending.Config{
		HalfLife:         cfg.Trending.HalfLife,
		UsesWeight:       cfg.Trending.UsesWeight,
		EngagementWeight: cfg.Trending.EngagementWeight,
		ViewsWeight:      cfg.Trending.ViewsWeight,
	}, logger)

	profileCfg := recommend.DefaultProfileConfig()
	profileCfg.TTL = cfg.Cache.ProfileTTL
	profileCfg.MaxTerms = cfg.Recommend.MaxInterestTerms
	profiles := recommend.NewProfileBuilder(store, resultCache, profileCfg, logger)

	recommender := recommend.New(store, profiles, trendingScorer, recommend.Config{
		SimilarUserBound: cfg.Recommend.SimilarUserBound,
		FollowBonus:      cfg.Recommend.FollowBonus,
		CandidateWindow:  cfg.Recommend.CandidateWindow,
		FetchConcurrency: cfg.Recommend.FetchConcurrency,
	}, logger)

	scoringEngine := engine.New(store, resultCache, trendingScorer, recommender, engine.Config{
		TrendingTTL:  cfg.Cache.TrendingTTL,
		AnalyticsTTL: cfg.Cache.AnalyticsTTL,
		DefaultLimit: cfg.API.DefaultLimit,
		MaxLimit:     cfg.API.MaxLimit,
	}, logger)

	router := api.NewRouter(api.NewHandler(scoringEngine), api.RouterConfig{
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logging.Info().Msg("server stopped")
	return nil
}

// seedDemoData fills the in-memory store with a small social graph so
// the API has data to serve during local development.
func seedDemoData(store *memory.Store) {
	now := time.Now()
	posts := []memory.PostSeed{
		{ID: "post-1", AuthorID: "ada", Text: "profiling go services with pprof", Public: true, Hashtags: []string{"golang", "performance"}, Category: "tech", CreatedAt: now.Add(-4 * time.Hour)},
		{ID: "post-2", AuthorID: "grace", Text: "compilers are just pattern matching", Public: true, Hashtags: []string{"compilers"}, Category: "tech", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "post-3", AuthorID: "linus", Text: "weekend sourdough experiment results", Public: true, Hashtags: []string{"baking"}, Category: "food", CreatedAt: now.Add(-90 * time.Minute)},
	}
	for _, p := range posts {
		store.AddPost(p)
	}

	store.Follow("ada", "grace", now.Add(-24*time.Hour))
	store.Follow("ken", "ada", now.Add(-12*time.Hour))
	store.Like("ken", "post-1", now.Add(-3*time.Hour))
	store.Like("grace", "post-1", now.Add(-time.Hour))
	store.Comment("ada", "post-2", now.Add(-time.Hour))
	store.Share("ken", "post-2", now.Add(-45*time.Minute))
	store.View("linus", "post-1", now.Add(-30*time.Minute))
	store.View("ken", "post-3", now.Add(-20*time.Minute))
}
