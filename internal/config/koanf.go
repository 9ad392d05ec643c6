// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when no explicit path is given.
var DefaultConfigPaths = []string{
	"pawtrack.yaml",
	"config.yaml",
	"/etc/pawtrack/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultBaseURL is the Tractive graph API root.
const DefaultBaseURL = "https://graph.tractive.com/3"

// DefaultClientID is the public client identifier the Tractive web app sends.
const DefaultClientID = "6536c228870a3c8857d452e8"

func defaultConfig() *Config {
	return &Config{
		Tractive: TractiveConfig{
			BaseURL:        DefaultBaseURL,
			ClientID:       DefaultClientID,
			RequestTimeout: 15 * time.Second,
			SessionTTL:     time.Hour,
			LatestWindow:   24 * time.Hour,
			RateLimit:      0,
			RateBurst:      1,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelayMS: 1000,
			MaxDelayMS:  30000,
		},
		Breaker: BreakerConfig{
			Enabled:      true,
			MinRequests:  10,
			FailureRatio: 0.6,
			Interval:     time.Minute,
			Timeout:      2 * time.Minute,
		},
		Enrichment: EnrichmentConfig{
			Enabled:  false,
			Timeout:  5 * time.Second,
			CacheTTL: 24 * time.Hour,
		},
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			Timeout:           30 * time.Second,
			CORSOrigins:       []string{},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Defaults returns the built-in configuration, before any file or
// environment overlay. Credentials are empty.
func Defaults() *Config {
	return defaultConfig()
}

// Load reads configuration from defaults, the config file at path (or the
// first default path found when path is empty) and the environment, then
// validates it.
func Load(path string) (*Config, error) {
	cfg, err := LoadUnvalidated(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadUnvalidated is Load without the final Validate call. The CLI uses it
// so flags can patch the config before validation.
func LoadUnvalidated(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Tractive.BaseURL = strings.TrimSuffix(cfg.Tractive.BaseURL, "/")
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unmapped variables are ignored so the process environment cannot leak
// into configuration.
var envMappings = map[string]string{
	"tractive_email":          "tractive.email",
	"tractive_password":       "tractive.password",
	"tractive_base_url":       "tractive.base_url",
	"tractive_client_id":      "tractive.client_id",
	"tractive_timeout":        "tractive.request_timeout",
	"tractive_session_ttl":    "tractive.session_ttl",
	"tractive_latest_window":  "tractive.latest_window",
	"tractive_rate_limit":     "tractive.rate_limit",
	"tractive_rate_burst":     "tractive.rate_burst",
	"tractive_max_retries":    "retry.max_attempts",
	"tractive_backoff_ms":     "retry.base_delay_ms",
	"tractive_backoff_max_ms": "retry.max_delay_ms",

	"breaker_enabled":       "breaker.enabled",
	"breaker_min_requests":  "breaker.min_requests",
	"breaker_failure_ratio": "breaker.failure_ratio",
	"breaker_interval":      "breaker.interval",
	"breaker_timeout":       "breaker.timeout",

	"enrich_enabled":   "enrichment.enabled",
	"enrich_timeout":   "enrichment.timeout",
	"enrich_cache_ttl": "enrichment.cache_ttl",
	"enrich_base_url":  "enrichment.base_url",
	"enrich_api_key":   "enrichment.api_key",

	"http_host":           "server.host",
	"http_port":           "server.port",
	"http_timeout":        "server.timeout",
	"cors_origins":        "server.cors_origins",
	"rate_limit_requests": "server.rate_limit_requests",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
	"debug":      "logging.debug",
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
