package project

import (
	"net/url"
	"regexp"
	"strings"
)

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// ValidateCreate checks a creation request before any network dispatch.
func ValidateCreate(req CreateRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return ErrInvalidInput
	}
	switch req.Mode {
	case ModeTemplate:
		if req.TemplateID == nil {
			return ErrInvalidInput
		}
	case ModeScratch:
	case ModeExisting:
		if err := ValidateSpreadsheetURL(req.SpreadsheetURL); err != nil {
			return err
		}
	default:
		return ErrInvalidInput
	}
	return nil
}

// ValidateSpreadsheetURL rejects strings that are not absolute http(s) URLs
// pointing at a spreadsheet document.
func ValidateSpreadsheetURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidSpreadsheetURL
	}
	if !spreadsheetIDPattern.MatchString(u.Path) {
		return ErrInvalidSpreadsheetURL
	}
	return nil
}

// SpreadsheetIDFromURL extracts the document identifier from a sheet URL.
// Returns an empty string when the URL does not contain one.
func SpreadsheetIDFromURL(raw string) string {
	if m := spreadsheetIDPattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return ""
}
