// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

// Package trail derives summary statistics from a position sequence.
// Everything here is a pure function of its input.
package trail

import (
	"math"

	"github.com/tomtom215/pawtrack/internal/models"
)

// EarthRadiusMeters is the mean Earth radius used for great-circle distance.
const EarthRadiusMeters = 6371000.0

// Haversine returns the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// ComputeStats summarises positions, which must already be in ascending
// time order. elevations is optional and is consumed pairwise on its own,
// independent of len(positions).
//
// Fewer than two positions yield all-zero stats.
func ComputeStats(positions []models.Position, elevations []float64) models.TrailStats {
	var stats models.TrailStats
	if len(positions) < 2 {
		return stats
	}

	for i := 1; i < len(positions); i++ {
		prev, cur := positions[i-1], positions[i]
		stats.DistanceMeters += Haversine(prev.Latitude, prev.Longitude, cur.Latitude, cur.Longitude)
	}

	stats.DurationSeconds = positions[len(positions)-1].Time.Sub(positions[0].Time).Seconds()
	if stats.DurationSeconds < 0 {
		// Unordered input; duration is meaningless but must stay non-negative.
		stats.DurationSeconds = 0
	}
	if stats.DurationSeconds > 0 {
		stats.AvgSpeedMPS = stats.DistanceMeters / stats.DurationSeconds
	}

	stats.ElevationGain, stats.ElevationLoss = elevationDeltas(elevations)

	if stats.DistanceMeters > 0 {
		stats.AvgGradePercent = (stats.ElevationGain - stats.ElevationLoss) / stats.DistanceMeters * 100
	}
	return stats
}

func elevationDeltas(elevations []float64) (gain, loss float64) {
	if len(elevations) < 2 {
		return 0, 0
	}
	for i := 1; i < len(elevations); i++ {
		d := elevations[i] - elevations[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	return gain, loss
}

// Altitudes returns the altitude series of positions when every position
// carries one, otherwise nil.
func Altitudes(positions []models.Position) []float64 {
	if len(positions) == 0 {
		return nil
	}
	out := make([]float64, 0, len(positions))
	for _, p := range positions {
		if p.Altitude == nil {
			return nil
		}
		out = append(out, *p.Altitude)
	}
	return out
}

// Downsample keeps every n-th position so that at most maxPoints remain. The
// last position is always kept so the trail end is preserved. maxPoints <= 0
// disables downsampling.
func Downsample(positions []models.Position, maxPoints int) []models.Position {
	if maxPoints <= 0 || len(positions) <= maxPoints {
		return positions
	}
	if maxPoints == 1 {
		return []models.Position{positions[len(positions)-1]}
	}

	// Reserve one slot for the final point.
	step := int(math.Ceil(float64(len(positions)-1) / float64(maxPoints-1)))
	out := make([]models.Position, 0, maxPoints)
	for i := 0; i < len(positions)-1; i += step {
		out = append(out, positions[i])
	}
	return append(out, positions[len(positions)-1])
}
