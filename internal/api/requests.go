// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package api

import "github.com/tomtom215/pawtrack/internal/models"

// Validated request parameters, checked with go-playground/validator tags
// through validation.ValidateStruct.

// HistoryRequest holds the parsed query of /positions and /trail.
type HistoryRequest struct {
	TrackerID string `json:"id" validate:"required,tracker_id"`
	MaxPoints int    `json:"max_points" validate:"gte=0,lte=100000"`
}

// LiveTrackingRequest is the body of PUT /trackers/{id}/live.
type LiveTrackingRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// NearbyRequest holds the parsed query of /nearby.
type NearbyRequest struct {
	TrackerID    string   `json:"id" validate:"required,tracker_id"`
	RadiusMeters float64  `json:"radius" validate:"gt=0,lte=50000"`
	Types        []string `json:"types" validate:"max=10,dive,printascii,max=32"`
}

// RouteRequest holds the parsed query of /route.
type RouteRequest struct {
	TrackerID   string            `json:"id" validate:"required,tracker_id"`
	Destination models.Coordinate `json:"to"`
	Mode        string            `json:"mode" validate:"omitempty,oneof=walking driving bicycling"`
}
