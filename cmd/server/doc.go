// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

/*
Command server exposes one Tractive account as a JSON HTTP API for
dashboards.

	SupervisorTree ("pawtrack")
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi router, /api/v1 and /metrics)

Start-up order:

 1. .env (optional) and configuration: koanf v2 over defaults, config file, environment
 2. Logging: zerolog, JSON or console
 3. Tracking client: session manager, retry envelope, circuit breaker
 4. Enrichment: gateway provider, or disabled
 5. Initial login: a failure is logged, requests authenticate on demand
 6. Supervisor tree with the HTTP server service

# Configuration

The essentials:

	TRACTIVE_EMAIL, TRACTIVE_PASSWORD   account credentials (required)
	HTTP_HOST, HTTP_PORT                listen address (default 0.0.0.0:8080)
	HTTP_TIMEOUT                        per-request deadline, retries included
	ENRICH_ENABLED, ENRICH_BASE_URL     enrichment gateway
	LOG_LEVEL, LOG_FORMAT               logging
	DEBUG                               expose redacted upstream bodies in error details

# Signals

SIGINT and SIGTERM cancel the tree. The HTTP server stops accepting
connections and in-flight requests get ShutdownTimeout to finish.
*/
package main
