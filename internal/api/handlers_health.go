// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package api

import (
	"net/http"

	"github.com/tomtom215/pawtrack/internal/tractive"
)

// HealthResponse is the payload of GET /api/v1/health.
type HealthResponse struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	SessionState      string  `json:"session_state"`
	CircuitBreaker    string  `json:"circuit_breaker"`
	EnrichmentEnabled bool    `json:"enrichment_enabled"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// Health reports process liveness and the upstream view. It never calls
// upstream, so it stays cheap for probes. An open breaker is reported as
// "degraded" with status 200; the process itself is healthy.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:            "ok",
		Version:           tractive.Version,
		SessionState:      h.client.SessionState(),
		CircuitBreaker:    h.client.BreakerState(),
		EnrichmentEnabled: h.enrich.Enabled(),
		UptimeSeconds:     h.now().Sub(h.startTime).Seconds(),
	}
	if resp.CircuitBreaker == "open" {
		resp.Status = "degraded"
	}
	WriteSuccess(w, r, resp)
}
