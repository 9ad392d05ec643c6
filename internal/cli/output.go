// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pawtrack/internal/models"
)

// Output formats accepted by --format.
const (
	formatJSON = "json"
	formatCSV  = "csv"
)

func checkFormat(format string) error {
	switch format {
	case formatJSON, formatCSV:
		return nil
	default:
		return fmt.Errorf("unknown --format %q (want json or csv)", format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeCSV writes header plus rows and flushes.
func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// batteryRow is the --battery-only projection of a tracker.
type batteryRow struct {
	ID           string              `json:"id"`
	BatteryLevel *int                `json:"battery_level"`
	BatteryState models.BatteryState `json:"battery_state"`
}

func batteryRows(trackers []models.Tracker) []batteryRow {
	rows := make([]batteryRow, len(trackers))
	for i, t := range trackers {
		rows[i] = batteryRow{ID: t.ID, BatteryLevel: t.BatteryLevel, BatteryState: t.BatteryState}
	}
	return rows
}

func writeTrackers(w io.Writer, format string, trackers []models.Tracker, batteryOnly bool) error {
	if trackers == nil {
		trackers = []models.Tracker{}
	}
	if format == formatJSON {
		if batteryOnly {
			return writeJSON(w, batteryRows(trackers))
		}
		return writeJSON(w, trackers)
	}

	if batteryOnly {
		rows := make([][]string, len(trackers))
		for i, t := range trackers {
			rows[i] = []string{t.ID, optionalInt(t.BatteryLevel), string(t.BatteryState)}
		}
		return writeCSV(w, []string{"id", "battery_level", "battery_state"}, rows)
	}

	rows := make([][]string, len(trackers))
	for i, t := range trackers {
		rows[i] = []string{
			t.ID, t.Name, t.PetName, t.Model, t.FirmwareVersion, t.HardwareID,
			optionalInt(t.BatteryLevel), string(t.BatteryState), strings.Join(t.Capabilities, ";"),
		}
	}
	return writeCSV(w, []string{
		"id", "name", "pet_name", "model", "firmware_version", "hardware_id",
		"battery_level", "battery_state", "capabilities",
	}, rows)
}

var positionHeader = []string{"time", "lat", "lng", "speed", "accuracy", "altitude", "sensor_used", "address"}

func writePositions(w io.Writer, format string, positions []models.Position) error {
	if positions == nil {
		positions = []models.Position{}
	}
	if format == formatJSON {
		return writeJSON(w, positions)
	}
	rows := make([][]string, len(positions))
	for i, p := range positions {
		rows[i] = []string{
			p.Time.UTC().Format(time.RFC3339),
			formatFloat(p.Latitude),
			formatFloat(p.Longitude),
			formatFloat(p.Speed),
			formatFloat(p.Accuracy),
			optionalFloat(p.Altitude),
			p.SensorUsed,
			p.Address,
		}
	}
	return writeCSV(w, positionHeader, rows)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func optionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func optionalInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}
