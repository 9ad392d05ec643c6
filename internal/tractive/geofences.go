// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package tractive

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tomtom215/pawtrack/internal/failure"
	"github.com/tomtom215/pawtrack/internal/logging"
	"github.com/tomtom215/pawtrack/internal/models"
)

const (
	opGeofences = "geofences"
	opGeofence  = "geofence"
)

// Geofences returns the tracker's geofences. Degenerate shapes are kept;
// only malformed records fail the call.
func (c *Client) Geofences(ctx context.Context, trackerID string) ([]models.Geofence, error) {
	if err := requireTrackerID(opGeofences, trackerID); err != nil {
		return nil, err
	}

	var dtos []geofenceDTO
	err := c.execute(ctx, opGeofences, func(ctx context.Context, s models.Session) error {
		return c.doJSON(ctx, requestConfig{
			op:     opGeofences,
			method: http.MethodGet,
			path:   "/tracker/" + url.PathEscape(trackerID) + "/geofences",
			token:  s.Token,
		}, func(body []byte) error {
			list, err := parseGeofenceList(body)
			if err != nil {
				return err
			}
			dtos = list
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	fences := make([]models.Geofence, 0, len(dtos))
	for i, dto := range dtos {
		if dto.reference() && dto.id() != "" {
			full, err := c.fetchGeofence(ctx, dto.id())
			if err != nil {
				return nil, err
			}
			dto = full
		}
		g, err := dto.model()
		if err != nil {
			return nil, failure.SchemaMismatch(opGeofences, fmt.Errorf("geofence %d: %w", i, err))
		}
		if g.Degenerate() {
			logging.Ctx(ctx).Debug().Str("geofence_id", g.ID).Str("shape", string(g.Shape)).Msg("Degenerate geofence")
		}
		fences = append(fences, g)
	}
	return fences, nil
}

func (c *Client) fetchGeofence(ctx context.Context, fenceID string) (geofenceDTO, error) {
	var dto geofenceDTO
	err := c.execute(ctx, opGeofence, func(ctx context.Context, s models.Session) error {
		return c.doJSON(ctx, requestConfig{
			op:     opGeofence,
			method: http.MethodGet,
			path:   "/geofence/" + url.PathEscape(fenceID),
			token:  s.Token,
		}, func(body []byte) error {
			d, err := parseGeofence(body)
			if err != nil {
				return err
			}
			if d.id() == "" {
				d.ID = fenceID
			}
			dto = d
			return nil
		})
	})
	return dto, err
}
