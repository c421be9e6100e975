package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// Credentials supplies the identifiers that scope backend calls. Both return
// empty strings when nothing is held locally.
type Credentials interface {
	SessionID() string
	ProjectID() string
}

// Client talks to the backend REST collaborator. It performs no retries: an
// operation either resolves with a typed payload or fails with an Error
// carrying the server's message.
type Client struct {
	baseURL string
	http    *http.Client
	creds   Credentials
	logger  *slog.Logger
}

// New creates a backend client. baseURL is the backend origin without a
// trailing slash.
func New(baseURL string, creds Credentials, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		creds:   creds,
		logger:  logger,
	}
}

// BaseURL returns the backend origin the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// LoginURL returns the browser redirect target that begins the OAuth flow.
func (c *Client) LoginURL() string {
	return c.baseURL + "/auth/google"
}

// do issues one JSON request. A session header is attached when a token is
// held. When out is non-nil the response body is decoded into it.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.creds.SessionID(); token != "" {
		req.Header.Set("x-session-id", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeInto(body io.Reader, out any) error {
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// Confirmation is the generic mutation acknowledgment body.
type Confirmation struct {
	Message string `json:"message"`
}
