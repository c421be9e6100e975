package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/finvoy/spendsheet/internal/domain/session"
)

// ConnectResult acknowledges binding a spreadsheet to the session.
type ConnectResult struct {
	Message       string `json:"message"`
	SpreadsheetID string `json:"spreadsheetId"`
	SessionID     string `json:"sessionId"`
}

// AuthStatus asks the backend whether the held session is still valid.
func (c *Client) AuthStatus(ctx context.Context) (*session.Status, error) {
	var status session.Status
	if err := c.do(ctx, http.MethodGet, "/auth/status", nil, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ConnectSpreadsheet binds the user's spreadsheet to the session. The
// session identifier is sent both as a header and a query parameter; some
// backend deployments only read the latter on this endpoint.
func (c *Client) ConnectSpreadsheet(ctx context.Context, spreadsheetID string) (*ConnectResult, error) {
	sessionID := c.creds.SessionID()
	if sessionID == "" {
		return nil, session.ErrNotAuthenticated
	}

	query := url.Values{"sessionId": {sessionID}}
	body := map[string]string{"spreadsheetId": spreadsheetID}

	var result ConnectResult
	if err := c.do(ctx, http.MethodPost, "/auth/connect", query, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout asks the backend to revoke the session. Local token discard is
// authoritative; server-side revocation is best-effort, so callers may
// ignore the error.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}
