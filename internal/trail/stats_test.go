// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package trail

import (
	"math"
	"testing"
	"time"

	"github.com/tomtom215/pawtrack/internal/models"
)

const tolerance = 1e-6

var t0 = time.Date(2026, 4, 12, 8, 0, 0, 0, time.UTC)

func pos(lat, lng float64, offset time.Duration) models.Position {
	return models.Position{TrackerID: "TRK1", Time: t0.Add(offset), Latitude: lat, Longitude: lng}
}

func checkFloatNear(t *testing.T, field string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: expected %.6f, got %.6f", field, want, got)
	}
}

// ============================================================================
// Haversine
// ============================================================================

func TestHaversine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tol                    float64
	}{
		{"same point", 48.2082, 16.3738, 48.2082, 16.3738, 0, tolerance},
		{"equator millidegree", 0, 0, 0, 0.001, 111.19, 0.01},
		{"one degree latitude", 0, 0, 1, 0, 111194.93, 0.1},
		{"vienna to salzburg", 48.2082, 16.3738, 47.8095, 13.0550, 251000, 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			checkFloatNear(t, "distance", Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2), tt.want, tt.tol)
		})
	}
}

// ============================================================================
// ComputeStats
// ============================================================================

func TestComputeStatsDegenerateInputs(t *testing.T) {
	t.Parallel()

	zero := models.TrailStats{}
	if got := ComputeStats(nil, nil); got != zero {
		t.Errorf("ComputeStats(nil) = %+v, want zero", got)
	}
	one := []models.Position{pos(1, 1, 0)}
	if got := ComputeStats(one, []float64{100, 200}); got != zero {
		t.Errorf("ComputeStats([p1]) = %+v, want zero", got)
	}
}

func TestComputeStatsTwoPointsOneMinute(t *testing.T) {
	t.Parallel()

	stats := ComputeStats([]models.Position{pos(0, 0, 0), pos(0, 0.001, time.Minute)}, nil)

	checkFloatNear(t, "distance", stats.DistanceMeters, 111.19, 0.01)
	checkFloatNear(t, "duration", stats.DurationSeconds, 60, tolerance)
	checkFloatNear(t, "avgSpeed", stats.AvgSpeedMPS, stats.DistanceMeters/60, tolerance)
	checkFloatNear(t, "gain", stats.ElevationGain, 0, tolerance)
	checkFloatNear(t, "grade", stats.AvgGradePercent, 0, tolerance)
}

func TestComputeStatsElevation(t *testing.T) {
	t.Parallel()

	positions := []models.Position{pos(0, 0, 0), pos(0, 0.001, time.Minute), pos(0, 0.002, 2*time.Minute)}
	stats := ComputeStats(positions, []float64{100, 150, 120, 140})

	checkFloatNear(t, "gain", stats.ElevationGain, 70, tolerance)
	checkFloatNear(t, "loss", stats.ElevationLoss, 30, tolerance)
	wantGrade := (70.0 - 30.0) / stats.DistanceMeters * 100
	checkFloatNear(t, "grade", stats.AvgGradePercent, wantGrade, tolerance)
}

func TestComputeStatsNetDescentGradeIsNegative(t *testing.T) {
	t.Parallel()

	positions := []models.Position{pos(0, 0, 0), pos(0, 0.01, time.Hour)}
	stats := ComputeStats(positions, []float64{500, 400})
	if stats.AvgGradePercent >= 0 {
		t.Errorf("expected negative grade, got %f", stats.AvgGradePercent)
	}
}

func TestComputeStatsSingleElevationSampleIgnored(t *testing.T) {
	t.Parallel()

	stats := ComputeStats([]models.Position{pos(0, 0, 0), pos(0, 0.001, time.Minute)}, []float64{300})
	if stats.ElevationGain != 0 || stats.ElevationLoss != 0 {
		t.Errorf("expected no elevation stats, got %+v", stats)
	}
}

func TestComputeStatsZeroDuration(t *testing.T) {
	t.Parallel()

	stats := ComputeStats([]models.Position{pos(0, 0, 0), pos(0, 0.001, 0)}, nil)
	if stats.AvgSpeedMPS != 0 {
		t.Errorf("expected zero speed for zero duration, got %f", stats.AvgSpeedMPS)
	}
	if stats.DistanceMeters <= 0 {
		t.Error("expected distance to still be computed")
	}
}

func TestComputeStatsStationaryHasZeroGrade(t *testing.T) {
	t.Parallel()

	stats := ComputeStats([]models.Position{pos(5, 5, 0), pos(5, 5, time.Minute)}, []float64{10, 20})
	if stats.AvgGradePercent != 0 {
		t.Errorf("expected zero grade when distance is zero, got %f", stats.AvgGradePercent)
	}
}

func TestComputeStatsTranslationInvariant(t *testing.T) {
	t.Parallel()

	base := []models.Position{
		pos(47.0, 11.00, 0),
		pos(47.001, 11.002, time.Minute),
		pos(47.003, 11.001, 2*time.Minute),
		pos(47.002, 10.998, 3*time.Minute),
	}
	want := ComputeStats(base, nil).DistanceMeters

	for _, offset := range []float64{-90, 0.5, 13.37, 120} {
		shifted := make([]models.Position, len(base))
		for i, p := range base {
			p.Longitude += offset
			shifted[i] = p
		}
		checkFloatNear(t, "shifted distance", ComputeStats(shifted, nil).DistanceMeters, want, 1e-6)
	}
}

func TestComputeStatsNonNegative(t *testing.T) {
	t.Parallel()

	// Reverse-ordered input violates the precondition but must not produce negatives.
	stats := ComputeStats([]models.Position{pos(0, 0.001, time.Minute), pos(0, 0, 0)}, nil)
	if stats.DurationSeconds < 0 || stats.AvgSpeedMPS < 0 || stats.DistanceMeters < 0 {
		t.Errorf("negative stats: %+v", stats)
	}
}

// ============================================================================
// Altitudes and Downsample
// ============================================================================

func TestAltitudes(t *testing.T) {
	t.Parallel()

	a1, a2 := 10.0, 12.5
	withAlt := []models.Position{pos(0, 0, 0), pos(0, 0, time.Second)}
	withAlt[0].Altitude = &a1
	withAlt[1].Altitude = &a2

	got := Altitudes(withAlt)
	if len(got) != 2 || got[0] != 10 || got[1] != 12.5 {
		t.Errorf("Altitudes() = %v", got)
	}

	withAlt[1].Altitude = nil
	if Altitudes(withAlt) != nil {
		t.Error("expected nil when any altitude is missing")
	}
}

func TestDownsample(t *testing.T) {
	t.Parallel()

	series := make([]models.Position, 10)
	for i := range series {
		series[i] = pos(0, float64(i), time.Duration(i)*time.Second)
	}

	tests := []struct {
		name      string
		maxPoints int
		wantLen   int
	}{
		{"disabled", 0, 10},
		{"larger than input", 50, 10},
		{"four", 4, 4},
		{"three", 3, 3},
		{"one", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Downsample(series, tt.maxPoints)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if got[len(got)-1].Longitude != 9 {
				t.Errorf("last point not preserved: %+v", got[len(got)-1])
			}
			if got[0].Longitude != 0 && tt.maxPoints != 1 {
				t.Errorf("first point not preserved: %+v", got[0])
			}
		})
	}
}
