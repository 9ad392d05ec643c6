// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/pawtrack/internal/enrich"
	"github.com/tomtom215/pawtrack/internal/tractive"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultHistoryWindow  = 24 * time.Hour
)

// Backend is the tracking client plus the state the health endpoint reports.
// *tractive.Client satisfies it.
type Backend interface {
	tractive.TrackingClient
	SessionState() string
	BreakerState() string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: path/query parsing
//   - handlers_health.go: health endpoint
//   - handlers_trackers.go: tracker, position, trail and geofence reads
//   - handlers_commands.go: live tracking, LED and buzzer commands
type Handler struct {
	client    Backend
	enrich    *enrich.Service
	debug     bool
	timeout   time.Duration
	window    time.Duration
	startTime time.Time
	now       func() time.Time
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithDebug exposes redacted upstream bodies in error details.
func WithDebug(debug bool) HandlerOption {
	return func(h *Handler) { h.debug = debug }
}

// WithRequestTimeout bounds each API request, retries included.
func WithRequestTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithHistoryWindow sets the range used when a history request omits from.
func WithHistoryWindow(d time.Duration) HandlerOption {
	return func(h *Handler) {
		if d > 0 {
			h.window = d
		}
	}
}

// WithClock overrides time.Now for default ranges and uptime.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) { h.now = now }
}

// NewHandler creates the API handler. A nil enricher disables enrichment.
func NewHandler(client Backend, enricher *enrich.Service, opts ...HandlerOption) *Handler {
	if enricher == nil {
		enricher = enrich.NewService(nil, 0, 0)
	}
	h := &Handler{
		client:  client,
		enrich:  enricher,
		timeout: defaultRequestTimeout,
		window:  defaultHistoryWindow,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.startTime = h.now()
	return h
}

// requestContext bounds the whole retry envelope for one API request.
func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}
