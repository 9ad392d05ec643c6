// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

// Package tractive is a resilient client for the unofficial Tractive API.
//
// Every operation runs inside the same retry envelope:
//
//  1. obtain a session from the SessionManager (authenticating if needed)
//  2. issue the upstream call through the circuit breaker
//  3. on Auth, force one re-authentication and retry exactly once
//  4. on RateLimit or Network, back off and retry up to the policy ceiling
//  5. on Fatal or exhaustion, return a *failure.Error
//
// Callers never observe intermediate attempts.
package tractive

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/pawtrack/internal/backoff"
	"github.com/tomtom215/pawtrack/internal/config"
	"github.com/tomtom215/pawtrack/internal/models"
)

// Version is sent in the User-Agent header.
const Version = "1.0.0"

// TrackingClient is the surface consumed by the CLI and the HTTP API.
type TrackingClient interface {
	Login(ctx context.Context) (models.Session, error)
	ListTrackers(ctx context.Context) ([]models.Tracker, error)
	Tracker(ctx context.Context, trackerID string) (models.Tracker, error)
	LatestPosition(ctx context.Context, trackerID string) (models.Position, bool, error)
	PositionHistory(ctx context.Context, trackerID string, from, to time.Time) ([]models.Position, error)
	Geofences(ctx context.Context, trackerID string) ([]models.Geofence, error)
	SetLiveTracking(ctx context.Context, trackerID string, active bool) (bool, error)
	TriggerLED(ctx context.Context, trackerID string) (bool, error)
	TriggerBuzzer(ctx context.Context, trackerID string) (bool, error)
}

var _ TrackingClient = (*Client)(nil)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Client talks to the Tractive graph API.
type Client struct {
	baseURL    string
	clientID   string
	userAgent  string
	httpClient *http.Client

	sessions *SessionManager
	policy   backoff.Policy
	breaker  *circuitBreaker
	limiter  *rate.Limiter

	requestTimeout time.Duration
	latestWindow   time.Duration
	sessionTTL     time.Duration
	debug          bool

	now   func() time.Time
	sleep Sleeper
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPolicy sets the backoff policy for both authentication and requests.
func WithPolicy(p backoff.Policy) Option {
	return func(c *Client) { c.policy = p }
}

// WithRequestTimeout bounds each individual HTTP attempt.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) { c.requestTimeout = d }
}

// WithLatestWindow sets how far back LatestPosition looks.
func WithLatestWindow(d time.Duration) Option {
	return func(c *Client) { c.latestWindow = d }
}

// WithSessionTTL sets the expiry used when the auth response has none.
func WithSessionTTL(d time.Duration) Option {
	return func(c *Client) { c.sessionTTL = d }
}

// WithRateLimit enables a client-side limiter of rps requests per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithBreaker enables the circuit breaker with the given settings.
func WithBreaker(s BreakerSettings) Option {
	return func(c *Client) { c.breaker = newCircuitBreaker(s) }
}

// WithDebug attaches redacted upstream bodies to errors.
func WithDebug(debug bool) Option {
	return func(c *Client) { c.debug = debug }
}

// WithClientID sets the X-Tractive-Client header value.
func WithClientID(id string) Option {
	return func(c *Client) { c.clientID = id }
}

// WithClock overrides time.Now. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithSleeper overrides the backoff wait. Used by tests to record delays.
func WithSleeper(s Sleeper) Option {
	return func(c *Client) { c.sleep = s }
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, creds models.Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		clientID:       config.DefaultClientID,
		userAgent:      "pawtrack/" + Version,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		policy:         backoff.DefaultPolicy(),
		requestTimeout: 15 * time.Second,
		latestWindow:   24 * time.Hour,
		sessionTTL:     time.Hour,
		now:            time.Now,
		sleep:          backoff.Wait,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.sessions = NewSessionManager(creds, &httpAuthenticator{client: c}, c.policy,
		WithSessionClock(c.now),
		WithSessionSleeper(c.sleep),
		WithDefaultTTL(c.sessionTTL),
	)
	return c
}

// NewClientFromConfig builds a Client from application configuration.
func NewClientFromConfig(cfg *config.Config, opts ...Option) *Client {
	base := []Option{
		WithPolicy(cfg.BackoffPolicy()),
		WithRequestTimeout(cfg.Tractive.RequestTimeout),
		WithLatestWindow(cfg.Tractive.LatestWindow),
		WithSessionTTL(cfg.Tractive.SessionTTL),
		WithRateLimit(cfg.Tractive.RateLimit, cfg.Tractive.RateBurst),
		WithDebug(cfg.Logging.Debug),
		WithClientID(cfg.Tractive.ClientID),
	}
	if cfg.Breaker.Enabled {
		base = append(base, WithBreaker(BreakerSettings{
			MinRequests:  cfg.Breaker.MinRequests,
			FailureRatio: cfg.Breaker.FailureRatio,
			Interval:     cfg.Breaker.Interval,
			Timeout:      cfg.Breaker.Timeout,
		}))
	}
	return NewClient(cfg.Tractive.BaseURL, cfg.Credentials(), append(base, opts...)...)
}

// Sessions exposes the session manager, mainly for health reporting.
func (c *Client) Sessions() *SessionManager {
	return c.sessions
}

// SessionState reports the session lifecycle state by name.
func (c *Client) SessionState() string {
	return c.sessions.State().String()
}

// BreakerState reports the circuit breaker state, or "disabled".
func (c *Client) BreakerState() string {
	if c.breaker == nil {
		return "disabled"
	}
	return c.breaker.State()
}

// Login forces a fresh authentication and returns the new session.
func (c *Client) Login(ctx context.Context) (models.Session, error) {
	return c.sessions.ForceRefresh(ctx)
}
