// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

/*
Package cli implements the pawtrack command line.

	pawtrack login-test
	pawtrack trackers   [--format json|csv] [--battery-only]
	pawtrack tracker    <id>
	pawtrack latest     <id> [--address] [--format json|csv]
	pawtrack history    <id> [--from T] [--to T] [--max-points N] [--format json|csv]
	pawtrack trail      <id> [--from T] [--to T] [--elevation]
	pawtrack geofences  <id>
	pawtrack nearby     <id> [--radius M] [--types a,b]
	pawtrack route      <id> --to lat,lng [--mode walking|driving|bicycling]
	pawtrack live       <id> --on|--off
	pawtrack led        <id>
	pawtrack buzzer     <id>

Nearby and route need enrichment; without it they still succeed and
leave the places or route out.

Global flags are --config, --base-url and --debug. Results go to stdout,
diagnostics and logs to stderr.

Exit codes:

	0    success
	1    general failure (bad input, upstream rejection, config)
	2    authentication failed
	3    network failure, including retries exhausted on network errors
	4    rate limited, including retries exhausted on 429
	130  interrupted
*/
package cli
