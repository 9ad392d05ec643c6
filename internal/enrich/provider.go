// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

// Package enrich adds optional mapping data (addresses, routes, nearby
// places, elevations) to tracker telemetry.
//
// Enrichment is best effort. A Provider may fail in any way; the Service
// turns every failure into an omitted field, a warning and a metric, and
// never into an error for the caller.
package enrich

import (
	"context"
	"errors"

	"github.com/tomtom215/pawtrack/internal/models"
)

// ErrDisabled is returned by the Disabled provider.
var ErrDisabled = errors.New("enrichment disabled")

// Aliases of the shared result types, kept so providers read naturally.
type (
	TravelMode = models.TravelMode
	Route      = models.Route
	Place      = models.Place
)

const (
	ModeWalking   = models.ModeWalking
	ModeDriving   = models.ModeDriving
	ModeBicycling = models.ModeBicycling
)

// Provider is the enrichment contract. ReverseGeocode reports found=false
// when the provider has no address for the point.
type Provider interface {
	ReverseGeocode(ctx context.Context, at models.Coordinate) (address string, found bool, err error)
	Distance(ctx context.Context, from, to models.Coordinate, mode TravelMode) (Route, error)
	NearbyPlaces(ctx context.Context, at models.Coordinate, radiusMeters float64, types []string) ([]Place, error)
	Elevation(ctx context.Context, points []models.Coordinate) ([]float64, error)
}

// Disabled is the provider used when no enrichment backend is configured.
type Disabled struct{}

var _ Provider = Disabled{}

func (Disabled) ReverseGeocode(context.Context, models.Coordinate) (string, bool, error) {
	return "", false, ErrDisabled
}

func (Disabled) Distance(context.Context, models.Coordinate, models.Coordinate, TravelMode) (Route, error) {
	return Route{}, ErrDisabled
}

func (Disabled) NearbyPlaces(context.Context, models.Coordinate, float64, []string) ([]Place, error) {
	return nil, ErrDisabled
}

func (Disabled) Elevation(context.Context, []models.Coordinate) ([]float64, error) {
	return nil, ErrDisabled
}
