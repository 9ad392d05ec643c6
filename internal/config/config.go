// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

// Package config loads Pawtrack configuration with Koanf v2.
//
// Loading order, later layers win:
//  1. Defaults from defaultConfig
//  2. Optional YAML file (CONFIG_PATH, --config, or config.yaml)
//  3. Environment variables mapped through envTransformFunc
//
// Config is immutable after Load and safe for concurrent reads.
package config

import (
	"time"

	"github.com/tomtom215/pawtrack/internal/backoff"
	"github.com/tomtom215/pawtrack/internal/models"
)

// Config holds all application configuration.
type Config struct {
	Tractive   TractiveConfig   `koanf:"tractive"`
	Retry      RetryConfig      `koanf:"retry"`
	Breaker    BreakerConfig    `koanf:"breaker"`
	Enrichment EnrichmentConfig `koanf:"enrichment"`
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// TractiveConfig configures the upstream tracking service.
type TractiveConfig struct {
	Email    string `koanf:"email"`
	Password string `koanf:"password"`
	BaseURL  string `koanf:"base_url"`
	ClientID string `koanf:"client_id"`

	// RequestTimeout bounds a single upstream call, not the retry sequence.
	RequestTimeout time.Duration `koanf:"request_timeout"`
	// SessionTTL is used when the auth response carries no expiry.
	SessionTTL time.Duration `koanf:"session_ttl"`
	// LatestWindow is how far back LatestPosition looks.
	LatestWindow time.Duration `koanf:"latest_window"`

	// RateLimit is a client-side cap in requests per second. 0 disables it.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
}

// RetryConfig configures the backoff policy shared by authentication and
// domain calls.
type RetryConfig struct {
	MaxAttempts int `koanf:"max_attempts"`
	BaseDelayMS int `koanf:"base_delay_ms"`
	MaxDelayMS  int `koanf:"max_delay_ms"`
}

// BreakerConfig configures the upstream circuit breaker.
type BreakerConfig struct {
	Enabled bool `koanf:"enabled"`
	// MinRequests before the failure ratio is evaluated.
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
}

// EnrichmentConfig configures best-effort mapping lookups.
type EnrichmentConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Timeout  time.Duration `koanf:"timeout"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
	// BaseURL of the enrichment gateway. Required when Enabled.
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	Timeout           time.Duration `koanf:"timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig configures internal/logging.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
	// Debug exposes redacted upstream bodies in errors and logs.
	Debug bool `koanf:"debug"`
}

// Credentials returns the configured account credentials.
func (c *Config) Credentials() models.Credentials {
	return models.Credentials{Email: c.Tractive.Email, Password: c.Tractive.Password}
}

// BackoffPolicy builds the retry policy from RetryConfig.
func (c *Config) BackoffPolicy() backoff.Policy {
	return backoff.Policy{
		Base:        time.Duration(c.Retry.BaseDelayMS) * time.Millisecond,
		Ceiling:     time.Duration(c.Retry.MaxDelayMS) * time.Millisecond,
		MaxAttempts: c.Retry.MaxAttempts,
	}
}
