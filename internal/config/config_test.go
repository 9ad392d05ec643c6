// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/pawtrack/internal/failure"
)

// Tests in this file use t.Setenv and therefore cannot run in parallel.

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("TRACTIVE_EMAIL", "owner@example.com")
	t.Setenv("TRACTIVE_PASSWORD", "s3cret")
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Tractive.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.Tractive.BaseURL, DefaultBaseURL)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.Retry.MaxAttempts)
	}
	if cfg.Retry.BaseDelayMS != 1000 {
		t.Errorf("BaseDelayMS = %d, want 1000", cfg.Retry.BaseDelayMS)
	}
	if cfg.Tractive.LatestWindow != 24*time.Hour {
		t.Errorf("LatestWindow = %v, want 24h", cfg.Tractive.LatestWindow)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"TRACTIVE_EMAIL", "tractive.email"},
		{"TRACTIVE_MAX_RETRIES", "retry.max_attempts"},
		{"TRACTIVE_BACKOFF_MS", "retry.base_delay_ms"},
		{"HTTP_PORT", "server.port"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestLoadFromEnv(t *testing.T) {
	setCredentials(t)
	t.Setenv("TRACTIVE_MAX_RETRIES", "5")
	t.Setenv("TRACTIVE_BACKOFF_MS", "250")
	t.Setenv("TRACTIVE_TIMEOUT", "7s")
	t.Setenv("TRACTIVE_BASE_URL", "http://localhost:9999/3/")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Tractive.Email != "owner@example.com" {
		t.Errorf("Email = %q", cfg.Tractive.Email)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", cfg.Retry.MaxAttempts)
	}
	if cfg.Tractive.RequestTimeout != 7*time.Second {
		t.Errorf("RequestTimeout = %v, want 7s", cfg.Tractive.RequestTimeout)
	}
	if cfg.Tractive.BaseURL != "http://localhost:9999/3" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.Tractive.BaseURL)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.Server.CORSOrigins)
	}

	p := cfg.BackoffPolicy()
	if p.Base != 250*time.Millisecond || p.MaxAttempts != 5 || p.Ceiling != 30*time.Second {
		t.Errorf("BackoffPolicy() = %+v", p)
	}
	if creds := cfg.Credentials(); creds.Password != "s3cret" {
		t.Error("Credentials() did not carry the password")
	}

	// Defaults survive for unset values.
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want default", cfg.Server.Host)
	}
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	setCredentials(t)
	t.Setenv("HTTP_PORT", "9100")

	content := `
tractive:
  request_timeout: 3s
  latest_window: 6h
retry:
  max_attempts: 2
server:
  port: 8888
  host: "127.0.0.1"
logging:
  level: warn
`
	path := filepath.Join(t.TempDir(), "pawtrack.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Tractive.LatestWindow != 6*time.Hour {
		t.Errorf("LatestWindow = %v, want 6h", cfg.Tractive.LatestWindow)
	}
	if cfg.Retry.MaxAttempts != 2 {
		t.Errorf("MaxAttempts = %d, want 2", cfg.Retry.MaxAttempts)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want env override 9100", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want file value", cfg.Server.Host)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	setCredentials(t)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for explicit missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing email", func(c *Config) { c.Tractive.Email = "" }, "TRACTIVE_EMAIL"},
		{"bad base url", func(c *Config) { c.Tractive.BaseURL = "graph.tractive.com" }, "TRACTIVE_BASE_URL"},
		{"zero timeout", func(c *Config) { c.Tractive.RequestTimeout = 0 }, "TRACTIVE_TIMEOUT"},
		{"too many retries", func(c *Config) { c.Retry.MaxAttempts = 50 }, "TRACTIVE_MAX_RETRIES"},
		{"negative backoff", func(c *Config) { c.Retry.BaseDelayMS = -1 }, "TRACTIVE_BACKOFF_MS"},
		{"ceiling below base", func(c *Config) { c.Retry.MaxDelayMS = 10 }, "TRACTIVE_BACKOFF_MAX_MS"},
		{"breaker ratio", func(c *Config) { c.Breaker.FailureRatio = 2 }, "BREAKER_FAILURE_RATIO"},
		{"breaker disabled skips ratio", func(c *Config) { c.Breaker.Enabled = false; c.Breaker.FailureRatio = 2 }, ""},
		{"enrichment without url", func(c *Config) { c.Enrichment.Enabled = true }, "ENRICH_BASE_URL"},
		{"enrichment with url", func(c *Config) {
			c.Enrichment.Enabled = true
			c.Enrichment.BaseURL = "https://geo.example.com"
		}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"bad cors", func(c *Config) { c.Server.CORSOrigins = []string{"example.com"} }, "CORS_ORIGINS"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Tractive.Email = "owner@example.com"
			cfg.Tractive.Password = "pw"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateMissingCredentialsIsSentinel(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); !errors.Is(err, failure.ErrMissingCredentials) {
		t.Errorf("Validate() = %v, want ErrMissingCredentials", err)
	}
}
