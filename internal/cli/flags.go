// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tomtom215/pawtrack/internal/failure"
	"github.com/tomtom215/pawtrack/internal/validation"
)

const defaultHistoryWindow = 24 * time.Hour

// timeValue is a pflag.Value accepting RFC3339, unix seconds, or a
// duration relative to now such as "-6h".
type timeValue struct {
	t   time.Time
	now func() time.Time
}

func (v *timeValue) String() string {
	if v.t.IsZero() {
		return ""
	}
	return v.t.Format(time.RFC3339)
}

func (v *timeValue) Set(s string) error {
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		v.t = time.Unix(secs, 0).UTC()
		return nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		v.t = v.now().Add(d).UTC()
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return errors.New("want RFC3339, unix seconds or a relative duration like -6h")
	}
	v.t = t
	return nil
}

func (v *timeValue) Type() string { return "time" }

// window resolves --from/--to: a missing end is now, a missing start is one
// day before the end.
func window(from, to *timeValue, now func() time.Time) (time.Time, time.Time, error) {
	end := to.t
	if end.IsZero() {
		end = now().UTC()
	}
	start := from.t
	if start.IsZero() {
		start = end.Add(-defaultHistoryWindow)
	}
	if start.After(end) {
		return start, end, failure.Invalid("history", fmt.Errorf("--from %s is after --to %s",
			start.Format(time.RFC3339), end.Format(time.RFC3339)))
	}
	return start, end, nil
}

// trackerArg validates the positional tracker id before anything goes
// upstream.
func trackerArg(args []string) (string, error) {
	id := args[0]
	if !validation.ValidTrackerID(id) {
		return "", failure.Invalid("tracker", fmt.Errorf("invalid tracker id %q", id))
	}
	return id, nil
}
