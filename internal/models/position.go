// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package models

import "time"

// Coordinate is a WGS84 point in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"lat" validate:"latitude"`
	Longitude float64 `json:"lng" validate:"longitude"`
}

// Position is one GPS fix reported by a tracker.
type Position struct {
	TrackerID  string    `json:"tracker_id"`
	Time       time.Time `json:"time"`
	Latitude   float64   `json:"lat"`
	Longitude  float64   `json:"lng"`
	Speed      float64   `json:"speed"`    // m/s
	Accuracy   float64   `json:"accuracy"` // meters
	Altitude   *float64  `json:"altitude,omitempty"`
	SensorUsed string    `json:"sensor_used,omitempty"`
	PosStatus  string    `json:"pos_status,omitempty"`
	Address    string    `json:"address,omitempty"`
}

// Coordinate returns the position as a Coordinate.
func (p Position) Coordinate() Coordinate {
	return Coordinate{Latitude: p.Latitude, Longitude: p.Longitude}
}

// TrailStats summarises a sequence of positions. Always derived, never stored.
type TrailStats struct {
	DistanceMeters  float64 `json:"distance_m"`
	DurationSeconds float64 `json:"duration_s"`
	AvgSpeedMPS     float64 `json:"avg_speed_mps"`
	ElevationGain   float64 `json:"elevation_gain_m"`
	ElevationLoss   float64 `json:"elevation_loss_m"`
	AvgGradePercent float64 `json:"avg_grade_pct"`
}
