// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

/*
Package middleware provides HTTP middleware for the pawtrack API server.

Key Components:

  - Request ID: UUID-based request tracking, seeded into the logging context
  - Prometheus Metrics: request count, latency and in-flight instrumentation

Both are written as http.HandlerFunc wrappers and adapted to chi's
func(http.Handler) http.Handler by the api package:

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.PrometheusMetrics))

Handlers read the ID back with GetRequestID or, for logging, with
logging.Ctx(r.Context()).

See Also:

  - internal/api: the router wiring these middlewares
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
