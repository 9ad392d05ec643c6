// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package tractive

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/tomtom215/pawtrack/internal/failure"
	"github.com/tomtom215/pawtrack/internal/models"
)

const (
	opLatestPosition  = "latest_position"
	opPositionHistory = "position_history"
)

// LatestPosition returns the most recent fix within the configured window.
// ok is false, with a nil error, when the tracker reported nothing.
func (c *Client) LatestPosition(ctx context.Context, trackerID string) (models.Position, bool, error) {
	if err := requireTrackerID(opLatestPosition, trackerID); err != nil {
		return models.Position{}, false, err
	}
	to := c.now()
	positions, err := c.positions(ctx, opLatestPosition, trackerID, to.Add(-c.latestWindow), to)
	if err != nil {
		return models.Position{}, false, err
	}
	if len(positions) == 0 {
		return models.Position{}, false, nil
	}
	return positions[len(positions)-1], true, nil
}

// PositionHistory returns the fixes with from <= time <= to in ascending
// time order. Fixes sharing a timestamp keep their upstream order.
func (c *Client) PositionHistory(ctx context.Context, trackerID string, from, to time.Time) ([]models.Position, error) {
	if err := requireTrackerID(opPositionHistory, trackerID); err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, failure.Invalid(opPositionHistory, failure.ErrInvalidRange)
	}
	return c.positions(ctx, opPositionHistory, trackerID, from, to)
}

func (c *Client) positions(ctx context.Context, op, trackerID string, from, to time.Time) ([]models.Position, error) {
	var positions []models.Position
	err := c.execute(ctx, op, func(ctx context.Context, s models.Session) error {
		return c.doJSON(ctx, requestConfig{
			op:     op,
			method: http.MethodGet,
			path:   "/tracker/" + url.PathEscape(trackerID) + "/positions",
			query:  positionsQuery(from, to),
			token:  s.Token,
		}, func(body []byte) error {
			p, err := parsePositions(body, trackerID)
			if err != nil {
				return err
			}
			positions = p
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return inRange(positions, from, to), nil
}

// positionsQuery widens to whole seconds; inRange trims back to the exact
// bounds.
func positionsQuery(from, to time.Time) url.Values {
	toSecs := to.Unix()
	if to.Nanosecond() > 0 {
		toSecs++
	}
	q := url.Values{}
	q.Set("time_from", strconv.FormatInt(from.Unix(), 10))
	q.Set("time_to", strconv.FormatInt(toSecs, 10))
	q.Set("format", "json_segments")
	return q
}

func inRange(positions []models.Position, from, to time.Time) []models.Position {
	out := positions[:0]
	for _, p := range positions {
		if p.Time.Before(from) || p.Time.After(to) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}
