// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/pawtrack/internal/middleware"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	// ========================
	// Health
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Get("/", router.handler.Health)
	})

	// ========================
	// Tracker Endpoints
	// ========================
	r.Route("/api/v1/trackers", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/", router.handler.ListTrackers)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", router.handler.GetTracker)
			r.Get("/position/latest", router.handler.LatestPosition)
			r.Get("/positions", router.handler.Positions)
			r.Get("/trail", router.handler.Trail)
			r.Get("/geofences", router.handler.Geofences)
			r.Get("/nearby", router.handler.Nearby)
			r.Get("/route", router.handler.Route)

			// Device commands drain the tracker battery; limit them harder.
			r.Group(func(r chi.Router) {
				r.Use(router.chiMiddleware.RateLimitCommands())
				r.Put("/live", router.handler.SetLiveTracking)
				r.Post("/led", router.handler.TriggerLED)
				r.Post("/buzzer", router.handler.TriggerBuzzer)
			})
		})
	})

	// ========================
	// Prometheus
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	return r
}
