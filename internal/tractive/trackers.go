// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package tractive

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tomtom215/pawtrack/internal/models"
)

const (
	opListTrackers = "list_trackers"
	opTracker      = "tracker"
)

// ListTrackers returns the account's trackers in upstream order. Entries
// the list endpoint returns as bare references are fetched individually.
func (c *Client) ListTrackers(ctx context.Context) ([]models.Tracker, error) {
	var dtos []trackerDTO
	err := c.execute(ctx, opListTrackers, func(ctx context.Context, s models.Session) error {
		return c.doJSON(ctx, requestConfig{
			op:     opListTrackers,
			method: http.MethodGet,
			path:   "/user/" + url.PathEscape(s.UserID) + "/trackers",
			token:  s.Token,
		}, func(body []byte) error {
			list, err := parseTrackerList(body)
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

	trackers := make([]models.Tracker, 0, len(dtos))
	for _, dto := range dtos {
		if dto.reference() {
			full, err := c.fetchTracker(ctx, dto.ID)
			if err != nil {
				return nil, err
			}
			dto = full
		}
		trackers = append(trackers, dto.model())
	}
	return trackers, nil
}

// Tracker returns a single tracker by id.
func (c *Client) Tracker(ctx context.Context, trackerID string) (models.Tracker, error) {
	if err := requireTrackerID(opTracker, trackerID); err != nil {
		return models.Tracker{}, err
	}
	dto, err := c.fetchTracker(ctx, trackerID)
	if err != nil {
		return models.Tracker{}, err
	}
	return dto.model(), nil
}

func (c *Client) fetchTracker(ctx context.Context, trackerID string) (trackerDTO, error) {
	var dto trackerDTO
	err := c.execute(ctx, opTracker, func(ctx context.Context, s models.Session) error {
		return c.doJSON(ctx, requestConfig{
			op:     opTracker,
			method: http.MethodGet,
			path:   "/tracker/" + url.PathEscape(trackerID),
			token:  s.Token,
		}, func(body []byte) error {
			d, err := parseTracker(body)
			if err != nil {
				return err
			}
			dto = d
			return nil
		})
	})
	return dto, err
}
