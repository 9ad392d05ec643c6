// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

/*
Package api exposes the tracking client over HTTP.

Routes (all JSON, wrapped in APIResponse):

	GET  /api/v1/health
	GET  /api/v1/trackers
	GET  /api/v1/trackers/{id}
	GET  /api/v1/trackers/{id}/position/latest   ?address=true
	GET  /api/v1/trackers/{id}/positions         ?from&to&max_points
	GET  /api/v1/trackers/{id}/trail             ?from&to
	GET  /api/v1/trackers/{id}/geofences
	GET  /api/v1/trackers/{id}/nearby            ?radius&types
	GET  /api/v1/trackers/{id}/route             ?to=lat,lng&mode
	PUT  /api/v1/trackers/{id}/live              {"active": bool}
	POST /api/v1/trackers/{id}/led
	POST /api/v1/trackers/{id}/buzzer
	GET  /metrics

Upstream failures map to statuses through failure.HTTPStatus:

	Auth                     401
	RateLimit (or exhausted) 429
	Network (or exhausted)   502, 504 on timeout
	Fatal, upstream 404      404
	Fatal, schema mismatch   502
	Fatal, otherwise         400

The error details carry the failure kind, the upstream status and the
attempt count. The redacted upstream body is included only when the
server runs with debug enabled.

Nearby and route start from the latest fix and are best effort: when
enrichment is disabled or fails, places and route are omitted and the
request still succeeds.

Times in from/to accept RFC3339 or unix seconds. A missing to is now; a
missing from is to minus the history window (24h by default).
*/
package api
