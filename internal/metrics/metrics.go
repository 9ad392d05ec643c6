// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

// Package metrics registers the Prometheus collectors for Pawtrack.
//
// Collectors live on the default registry through promauto and are exposed
// by the HTTP server at /metrics. The CLI records into the same collectors
// but never serves them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Upstream (Tractive) metrics
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawtrack_upstream_requests_total",
			Help: "Upstream calls by operation and final outcome",
		},
		[]string{"operation", "outcome"}, // outcome: success, auth, rate_limit, network, fatal
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pawtrack_upstream_request_duration_seconds",
			Help:    "Duration of individual upstream HTTP attempts",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	UpstreamRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawtrack_upstream_retries_total",
			Help: "Retries scheduled by the retry envelope, by failure kind",
		},
		[]string{"operation", "kind"},
	)

	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawtrack_auth_attempts_total",
			Help: "Authentication requests sent upstream by result",
		},
		[]string{"result"}, // success, auth, rate_limit, network, fatal
	)

	SessionRefreshes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pawtrack_session_refreshes_total",
			Help: "Completed session refresh flights (shared by all waiters)",
		},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pawtrack_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawtrack_circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawtrack_circuit_breaker_state_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Enrichment metrics
	EnrichmentFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawtrack_enrichment_failures_total",
			Help: "Best-effort enrichment calls that failed and were omitted",
		},
		[]string{"call"},
	)

	EnrichmentCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pawtrack_enrichment_cache_hits_total",
			Help: "Reverse-geocode lookups served from cache",
		},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawtrack_api_requests_total",
			Help: "HTTP API requests",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pawtrack_api_request_duration_seconds",
			Help:    "HTTP API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pawtrack_api_active_requests",
			Help: "HTTP API requests currently in flight",
		},
	)
)

// RecordUpstreamAttempt observes the duration of one HTTP attempt.
func RecordUpstreamAttempt(operation string, duration time.Duration) {
	UpstreamRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordUpstreamOutcome counts the final outcome of an envelope run.
func RecordUpstreamOutcome(operation, outcome string) {
	UpstreamRequests.WithLabelValues(operation, outcome).Inc()
}

// RecordRetry counts one scheduled retry.
func RecordRetry(operation, kind string) {
	UpstreamRetries.WithLabelValues(operation, kind).Inc()
}

// RecordAuthAttempt counts one authentication request.
func RecordAuthAttempt(result string) {
	AuthAttempts.WithLabelValues(result).Inc()
}

// RecordEnrichmentFailure counts an omitted enrichment field.
func RecordEnrichmentFailure(call string) {
	EnrichmentFailures.WithLabelValues(call).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, path, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
