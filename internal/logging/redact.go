// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package logging

import (
	"regexp"
	"strings"
)

// MaxRedactedLength caps redacted text so a large upstream body cannot
// flood a log line or an error hint.
const MaxRedactedLength = 2048

var (
	// JSON string members whose values are secrets.
	jsonSecretPattern = regexp.MustCompile(
		`(?i)"(password|platform_token|access_token|auth_token|refresh_token|token|jwt|secret|api_key)"\s*:\s*"[^"]*"`)

	// key=value pairs in query strings or form bodies.
	kvSecretPattern = regexp.MustCompile(
		`(?i)\b(password|platform_token|access_token|auth_token|token|api_key|key)=([^&\s"]+)`)

	// Authorization header values.
	bearerPattern = regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._~+/=-]+`)
)

// Redact scrubs secrets from free-form text such as upstream error bodies,
// request dumps or URLs, and truncates the result to MaxRedactedLength.
func Redact(s string) string {
	if s == "" {
		return ""
	}
	s = jsonSecretPattern.ReplaceAllString(s, `"$1":"***"`)
	s = kvSecretPattern.ReplaceAllString(s, `$1=***`)
	s = bearerPattern.ReplaceAllString(s, "Bearer ***")
	return truncateString(s, MaxRedactedLength)
}

// RedactSecrets removes every literal occurrence of the given secrets
// from s. Empty secrets are ignored.
func RedactSecrets(s string, secrets ...string) string {
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		s = strings.ReplaceAll(s, secret, "***")
	}
	return s
}

// RedactToken masks a token, showing only the first and last 4 characters.
func RedactToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// RedactEmail masks the local part of an email address.
// "john.doe@example.com" becomes "jo***@example.com".
func RedactEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		if email == "" {
			return ""
		}
		return "***"
	}
	local, domain := email[:at], email[at:]
	if len(local) <= 2 {
		return "***" + domain
	}
	return local[:2] + "***" + domain
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
