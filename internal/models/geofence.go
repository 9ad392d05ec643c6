// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package models

// ShapeKind discriminates Geofence shapes.
type ShapeKind string

const (
	ShapeCircle  ShapeKind = "circle"
	ShapePolygon ShapeKind = "polygon"
)

// Geofence is a named boundary configured for a tracker. Circle uses
// Center and RadiusMeters, Polygon uses Vertices.
type Geofence struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Active       bool         `json:"active"`
	Shape        ShapeKind    `json:"shape"`
	Center       *Coordinate  `json:"center,omitempty"`
	RadiusMeters float64      `json:"radius_m,omitempty"`
	Vertices     []Coordinate `json:"vertices,omitempty"`
}

// Degenerate reports a polygon with fewer than three vertices or a circle
// without a positive radius. Such fences are passed through unchanged.
func (g Geofence) Degenerate() bool {
	switch g.Shape {
	case ShapePolygon:
		return len(g.Vertices) < 3
	case ShapeCircle:
		return g.Center == nil || g.RadiusMeters <= 0
	default:
		return true
	}
}
