// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Results shared by the CLI and the HTTP API, so both surfaces print the
// same JSON for the same operation.

// TravelMode selects the routing profile for a distance/ETA lookup.
type TravelMode string

const (
	ModeWalking   TravelMode = "walking"
	ModeDriving   TravelMode = "driving"
	ModeBicycling TravelMode = "bicycling"
)

// ParseTravelMode accepts the three profiles; empty means walking.
func ParseTravelMode(s string) (TravelMode, bool) {
	switch m := TravelMode(s); m {
	case "":
		return ModeWalking, true
	case ModeWalking, ModeDriving, ModeBicycling:
		return m, true
	default:
		return "", false
	}
}

// Route is a distance/ETA answer.
type Route struct {
	DistanceMeters  float64    `json:"distance_m"`
	DurationSeconds float64    `json:"duration_s"`
	Mode            TravelMode `json:"mode"`
}

// Place is a point of interest near a coordinate.
type Place struct {
	Name           string     `json:"name"`
	Type           string     `json:"type,omitempty"`
	Location       Coordinate `json:"location"`
	DistanceMeters float64    `json:"distance_m,omitempty"`
}

// LatestReport wraps the optional latest fix.
type LatestReport struct {
	TrackerID string    `json:"tracker_id"`
	Found     bool      `json:"found"`
	Position  *Position `json:"position,omitempty"`
}

// NewLatestReport builds the report for a LatestPosition answer.
func NewLatestReport(trackerID string, pos Position, found bool) LatestReport {
	r := LatestReport{TrackerID: trackerID, Found: found}
	if found {
		r.Position = &pos
	}
	return r
}

// TrailReport combines a history window with its statistics.
type TrailReport struct {
	TrackerID string     `json:"tracker_id"`
	From      time.Time  `json:"from"`
	To        time.Time  `json:"to"`
	Points    int        `json:"points"`
	Elevation bool       `json:"elevation"`
	Stats     TrailStats `json:"stats"`
}

// CommandReport reports an accepted device command.
type CommandReport struct {
	TrackerID string `json:"tracker_id"`
	Command   string `json:"command"`
	Accepted  bool   `json:"accepted"`
	Active    *bool  `json:"active,omitempty"`
}

// NearbyReport lists places around the latest fix. Enriched is false when
// there was no fix or the lookup failed; Places is then omitted.
type NearbyReport struct {
	LatestReport
	RadiusMeters float64 `json:"radius_m"`
	Enriched     bool    `json:"enriched"`
	Places       []Place `json:"places,omitempty"`
}

// RouteReport is the distance/ETA from the latest fix to Destination.
// Route is omitted when there was no fix or the lookup failed.
type RouteReport struct {
	LatestReport
	Destination Coordinate `json:"destination"`
	Route       *Route     `json:"route,omitempty"`
}

// ParseCoordinate reads "lat,lng" in decimal degrees. Range checks are
// left to the latitude/longitude validate tags.
func ParseCoordinate(s string) (Coordinate, error) {
	latStr, lngStr, ok := strings.Cut(s, ",")
	if !ok {
		return Coordinate{}, fmt.Errorf("coordinate %q: want lat,lng", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("coordinate %q: bad latitude", s)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("coordinate %q: bad longitude", s)
	}
	return Coordinate{Latitude: lat, Longitude: lng}, nil
}
