// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package tractive

import (
	"context"
	"net/http"

	"github.com/tomtom215/pawtrack/internal/models"
)

// httpAuthenticator exchanges credentials at POST /auth/token. It shares
// the client's transport, limiter and breaker; retries belong to the
// SessionManager.
type httpAuthenticator struct {
	client *Client
}

var _ Authenticator = (*httpAuthenticator)(nil)

func (a *httpAuthenticator) Authenticate(ctx context.Context, creds models.Credentials) (Grant, error) {
	var grant Grant
	err := a.client.guard(opAuthenticate, func() error {
		return a.client.doJSON(ctx, requestConfig{
			op:     opAuthenticate,
			method: http.MethodPost,
			path:   "/auth/token",
			body: authRequest{
				Email:     creds.Email,
				Password:  creds.Password,
				GrantType: "tractive",
			},
			secrets: []string{creds.Password},
		}, func(body []byte) error {
			g, err := parseGrant(body)
			if err != nil {
				return err
			}
			grant = g
			return nil
		})
	})
	return grant, err
}
