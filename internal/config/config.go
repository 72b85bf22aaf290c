// PeopleLink - Social Engagement Scoring and Ranking Service
// Copyright 2026 PeopleLink Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/peoplelink/peoplelink

// Package config loads layered service configuration: built-in defaults,
// then an optional YAML file, then environment variables. Precedence is
// ENV > file > defaults.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Cache     CacheConfig     `koanf:"cache"`
	Trending  TrendingConfig  `koanf:"trending"`
	Recommend RecommendConfig `koanf:"recommend"`
	API       APIConfig       `koanf:"api"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// CacheConfig holds result-cache settings.
type CacheConfig struct {
	SweepInterval time.Duration `koanf:"sweep_interval"`
	TrendingTTL   time.Duration `koanf:"trending_ttl"`
	AnalyticsTTL  time.Duration `koanf:"analytics_ttl"`
	ProfileTTL    time.Duration `koanf:"profile_ttl"`
}

// TrendingConfig holds trending scorer settings.
type TrendingConfig struct {
	HalfLife         time.Duration `koanf:"half_life"`
	UsesWeight       float64       `koanf:"uses_weight"`
	EngagementWeight float64       `koanf:"engagement_weight"`
	ViewsWeight      float64       `koanf:"views_weight"`
}

// RecommendConfig holds recommendation scorer settings.
type RecommendConfig struct {
	SimilarUserBound int           `koanf:"similar_user_bound"`
	FollowBonus      float64       `koanf:"follow_bonus"`
	CandidateWindow  time.Duration `koanf:"candidate_window"`
	FetchConcurrency int           `koanf:"fetch_concurrency"`
	MaxInterestTerms int           `koanf:"max_interest_terms"`
}

// APIConfig holds request-handling limits.
type APIConfig struct {
	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`
}

// defaultConfig returns a Config with every field set to a working
// default. Defaults are loaded first, then overridden by file and env.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Cache: CacheConfig{
			SweepInterval: time.Minute,
			TrendingTTL:   5 * time.Minute,
			AnalyticsTTL:  5 * time.Minute,
			ProfileTTL:    10 * time.Minute,
		},
		Trending: TrendingConfig{
			HalfLife:         6 * time.Hour,
			UsesWeight:       1.0,
			EngagementWeight: 2.0,
			ViewsWeight:      0.5,
		},
		Recommend: RecommendConfig{
			SimilarUserBound: 100,
			FollowBonus:      2.0,
			CandidateWindow:  24 * time.Hour,
			FetchConcurrency: 8,
			MaxInterestTerms: 20,
		},
		API: APIConfig{
			DefaultLimit: 20,
			MaxLimit:     100,
		},
	}
}

// Validate checks that loaded configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range 1-65535", c.Server.Port)
	}
	if c.Cache.TrendingTTL <= 0 {
		return fmt.Errorf("cache.trending_ttl must be positive, got %s", c.Cache.TrendingTTL)
	}
	if c.Cache.AnalyticsTTL <= 0 {
		return fmt.Errorf("cache.analytics_ttl must be positive, got %s", c.Cache.AnalyticsTTL)
	}
	if c.Trending.HalfLife <= 0 {
		return fmt.Errorf("trending.half_life must be positive, got %s", c.Trending.HalfLife)
	}
	if c.Recommend.SimilarUserBound <= 0 {
		return fmt.Errorf("recommend.similar_user_bound must be positive, got %d", c.Recommend.SimilarUserBound)
	}
	if c.Recommend.FetchConcurrency <= 0 {
		return fmt.Errorf("recommend.fetch_concurrency must be positive, got %d", c.Recommend.FetchConcurrency)
	}
	if c.API.DefaultLimit <= 0 || c.API.MaxLimit <= 0 {
		return fmt.Errorf("api limits must be positive, got default %d max %d", c.API.DefaultLimit, c.API.MaxLimit)
	}
	if c.API.DefaultLimit > c.API.MaxLimit {
		return fmt.Errorf("api.default_limit %d exceeds api.max_limit %d", c.API.DefaultLimit, c.API.MaxLimit)
	}
	if err := validateLogging(c.Logging); err != nil {
		return err
	}
	return nil
}

func validateLogging(cfg LoggingConfig) error {
	switch cfg.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("logging.level %q is not a known level", cfg.Level)
	}
	switch cfg.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format %q must be json or console", cfg.Format)
	}
	return nil
}
