// PeopleLink - Social Engagement Scoring and Ranking Service
// Copyright 2026 PeopleLink Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/peoplelink/peoplelink

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() err = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Cache.TrendingTTL != 5*time.Minute {
		t.Errorf("Cache.TrendingTTL = %s, want 5m", cfg.Cache.TrendingTTL)
	}
	if cfg.Trending.HalfLife != 6*time.Hour {
		t.Errorf("Trending.HalfLife = %s, want 6h", cfg.Trending.HalfLife)
	}
	if cfg.Recommend.SimilarUserBound != 100 {
		t.Errorf("Recommend.SimilarUserBound = %d, want 100", cfg.Recommend.SimilarUserBound)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want info/json", cfg.Logging)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PEOPLELINK_SERVER_PORT", "9090")
	t.Setenv("PEOPLELINK_LOGGING_LEVEL", "debug")
	t.Setenv("PEOPLELINK_TRENDING_HALF_LIFE", "2h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() err = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090 from env", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug from env", cfg.Logging.Level)
	}
	if cfg.Trending.HalfLife != 2*time.Hour {
		t.Errorf("Trending.HalfLife = %s, want 2h from env", cfg.Trending.HalfLife)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 7070\ncache:\n  trending_ttl: 90s\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() err = %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070 from file", cfg.Server.Port)
	}
	if cfg.Cache.TrendingTTL != 90*time.Second {
		t.Errorf("Cache.TrendingTTL = %s, want 90s from file", cfg.Cache.TrendingTTL)
	}
	// Untouched settings keep defaults.
	if cfg.API.DefaultLimit != 20 {
		t.Errorf("API.DefaultLimit = %d, want default 20", cfg.API.DefaultLimit)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("PEOPLELINK_SERVER_PORT", "6060")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() err = %v", err)
	}
	if cfg.Server.Port != 6060 {
		t.Errorf("Server.Port = %d, want env override 6060", cfg.Server.Port)
	}
}

func TestCORSOriginsFromEnv(t *testing.T) {
	t.Setenv("PEOPLELINK_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() err = %v", err)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Server.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Server.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Server.CORSOrigins[i], want[i])
		}
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"PEOPLELINK_SERVER_PORT", "server.port"},
		{"PEOPLELINK_CACHE_TRENDING_TTL", "cache.trending_ttl"},
		{"PEOPLELINK_RECOMMEND_FOLLOW_BONUS", "recommend.follow_bonus"},
		{"PEOPLELINK_TRENDING_HALF_LIFE", "trending.half_life"},
		{"PEOPLELINK_UNKNOWN_THING", ""},
		{"PEOPLELINK_SERVER", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.key); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"zero trending ttl", func(c *Config) { c.Cache.TrendingTTL = 0 }, true},
		{"negative half life", func(c *Config) { c.Trending.HalfLife = -time.Hour }, true},
		{"zero similar bound", func(c *Config) { c.Recommend.SimilarUserBound = 0 }, true},
		{"default above max", func(c *Config) { c.API.DefaultLimit = 200 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"console format", func(c *Config) { c.Logging.Format = "console" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
