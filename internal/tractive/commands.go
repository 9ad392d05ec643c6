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
	opLiveTracking = "live_tracking"
	opLED          = "led"
	opBuzzer       = "buzzer"
)

// SetLiveTracking switches live tracking on or off. The bool reports the
// upstream acknowledgment; a 409 means the tracker was already in that
// state and counts as acknowledged.
func (c *Client) SetLiveTracking(ctx context.Context, trackerID string, active bool) (bool, error) {
	return c.command(ctx, opLiveTracking, trackerID, "live_tracking", active)
}

// TriggerLED flashes the tracker light.
func (c *Client) TriggerLED(ctx context.Context, trackerID string) (bool, error) {
	return c.command(ctx, opLED, trackerID, "led_control", true)
}

// TriggerBuzzer sounds the tracker buzzer.
func (c *Client) TriggerBuzzer(ctx context.Context, trackerID string) (bool, error) {
	return c.command(ctx, opBuzzer, trackerID, "buzzer_control", true)
}

func (c *Client) command(ctx context.Context, op, trackerID, name string, on bool) (bool, error) {
	if err := requireTrackerID(op, trackerID); err != nil {
		return false, err
	}
	state := "off"
	if on {
		state = "on"
	}

	err := c.execute(ctx, op, func(ctx context.Context, s models.Session) error {
		_, err := c.doRequest(ctx, requestConfig{
			op:             op,
			method:         http.MethodGet,
			path:           "/tracker/" + url.PathEscape(trackerID) + "/command/" + name + "/" + state,
			token:          s.Token,
			acceptConflict: true,
		})
		return err
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
