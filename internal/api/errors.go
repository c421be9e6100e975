package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

const fallbackMessage = "request failed"

// Error is a failed backend call. Message is the human-readable text
// extracted from the response body.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsAuthError reports whether the response indicates a missing or rejected
// session.
func (e *Error) IsAuthError() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// readError extracts a message from a non-success response: a JSON
// error/message field if the body parses, the raw text otherwise, or a
// generic fallback when the body is empty.
func readError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)
	return &Error{Status: resp.StatusCode, Message: extractMessage(data)}
}

func extractMessage(body []byte) string {
	var payload struct {
		Err     string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Err != "" {
			return payload.Err
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fallbackMessage
}
