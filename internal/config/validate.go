// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/pawtrack/internal/failure"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateTractive(); err != nil {
		return err
	}
	if err := c.validateRetry(); err != nil {
		return err
	}
	if err := c.validateBreaker(); err != nil {
		return err
	}
	if err := c.validateEnrichment(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateTractive() error {
	if c.Tractive.Email == "" || c.Tractive.Password == "" {
		return fmt.Errorf("%w: set TRACTIVE_EMAIL and TRACTIVE_PASSWORD", failure.ErrMissingCredentials)
	}
	u, err := url.Parse(c.Tractive.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("TRACTIVE_BASE_URL must be an absolute http(s) URL, got %q", c.Tractive.BaseURL)
	}
	if c.Tractive.RequestTimeout <= 0 {
		return errors.New("TRACTIVE_TIMEOUT must be positive")
	}
	if c.Tractive.SessionTTL <= 0 {
		return errors.New("TRACTIVE_SESSION_TTL must be positive")
	}
	if c.Tractive.LatestWindow <= 0 {
		return errors.New("TRACTIVE_LATEST_WINDOW must be positive")
	}
	if c.Tractive.RateLimit < 0 {
		return errors.New("TRACTIVE_RATE_LIMIT must not be negative")
	}
	if c.Tractive.RateLimit > 0 && c.Tractive.RateBurst < 1 {
		return errors.New("TRACTIVE_RATE_BURST must be at least 1 when rate limiting is enabled")
	}
	return nil
}

func (c *Config) validateRetry() error {
	if c.Retry.MaxAttempts < 0 || c.Retry.MaxAttempts > 10 {
		return fmt.Errorf("TRACTIVE_MAX_RETRIES must be between 0 and 10, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.BaseDelayMS < 0 {
		return fmt.Errorf("TRACTIVE_BACKOFF_MS must not be negative, got %d", c.Retry.BaseDelayMS)
	}
	if c.Retry.MaxDelayMS != 0 && c.Retry.MaxDelayMS < c.Retry.BaseDelayMS {
		return fmt.Errorf("TRACTIVE_BACKOFF_MAX_MS (%d) must be >= TRACTIVE_BACKOFF_MS (%d)",
			c.Retry.MaxDelayMS, c.Retry.BaseDelayMS)
	}
	return nil
}

func (c *Config) validateBreaker() error {
	if !c.Breaker.Enabled {
		return nil
	}
	if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0, 1], got %v", c.Breaker.FailureRatio)
	}
	if c.Breaker.Timeout <= 0 {
		return errors.New("BREAKER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateEnrichment() error {
	if !c.Enrichment.Enabled {
		return nil
	}
	u, err := url.Parse(c.Enrichment.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("ENRICH_BASE_URL must be an absolute http(s) URL when ENRICH_ENABLED=true, got %q", c.Enrichment.BaseURL)
	}
	if c.Enrichment.Timeout <= 0 {
		return errors.New("ENRICH_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return errors.New("HTTP_TIMEOUT must be positive")
	}
	if !c.Server.RateLimitDisabled && (c.Server.RateLimitRequests < 1 || c.Server.RateLimitWindow <= 0) {
		return errors.New("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive unless DISABLE_RATE_LIMIT=true")
	}
	for _, origin := range c.Server.CORSOrigins {
		if origin == "*" {
			continue
		}
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("CORS_ORIGINS entry %q must start with http:// or https://", origin)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled", "off":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
