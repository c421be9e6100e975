package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/finvoy/spendsheet/internal/domain/session"
)

// Attachment is the result of a successful upload.
type Attachment struct {
	Message        string `json:"message"`
	FileID         string `json:"fileId"`
	WebViewLink    string `json:"webViewLink"`
	WebContentLink string `json:"webContentLink"`
	FileName       string `json:"fileName"`
}

// AttachmentInfo describes whatever file is bound to a row.
type AttachmentInfo struct {
	HasAttachment bool    `json:"hasAttachment"`
	FileID        *string `json:"fileId"`
	FileName      string  `json:"fileName,omitempty"`
	MimeType      string  `json:"mimeType,omitempty"`
	IsImage       bool    `json:"isImage,omitempty"`
	DownloadURL   *string `json:"downloadUrl"`
	WebViewLink   string  `json:"webViewLink,omitempty"`
}

// UploadAttachment uploads a file bound to a specific row as multipart form
// data. An active session is required, and for project-scoped collections an
// active project too; either missing fails before any network I/O.
func (cc *CollectionClient) UploadAttachment(ctx context.Context, row int, fileName string, file io.Reader) (*Attachment, error) {
	sessionID := cc.c.creds.SessionID()
	if sessionID == "" {
		return nil, session.ErrNotAuthenticated
	}
	projectID := cc.c.creds.ProjectID()
	if cc.projectScoped && projectID == "" {
		return nil, session.ErrNoProject
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}

	target := fmt.Sprintf("%s%s/%d/attachments", cc.c.baseURL, cc.path, row)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, &body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("x-session-id", sessionID)
	if projectID != "" {
		req.Header.Set("x-project-id", projectID)
	}

	resp, err := cc.c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("uploading attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, readError(resp)
	}

	var att Attachment
	if err := decodeInto(resp.Body, &att); err != nil {
		return nil, err
	}
	return &att, nil
}

// GetAttachment fetches attachment metadata for a row.
func (cc *CollectionClient) GetAttachment(ctx context.Context, row int) (*AttachmentInfo, error) {
	var info AttachmentInfo
	path := fmt.Sprintf("%s/%d/attachments", cc.path, row)
	if err := cc.c.do(ctx, http.MethodGet, path, nil, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// DeleteAttachment removes a stored file by id.
func (c *Client) DeleteAttachment(ctx context.Context, fileID string) error {
	return c.do(ctx, http.MethodDelete, "/attachments/"+url.PathEscape(fileID), nil, nil, nil)
}

// AttachmentURL builds the direct download/view URL for a stored file. The
// session and project identifiers ride along as query parameters because
// image tags and plain links cannot carry custom headers; the URL itself is
// the authorization. This is the single place that mechanism lives.
func (c *Client) AttachmentURL(fileID string) string {
	base := c.baseURL + "/attachments/" + url.PathEscape(fileID)
	params := url.Values{}
	if sessionID := c.creds.SessionID(); sessionID != "" {
		params.Set("sessionId", sessionID)
	}
	if projectID := c.creds.ProjectID(); projectID != "" {
		params.Set("projectId", projectID)
	}
	if len(params) == 0 {
		return base
	}
	return base + "?" + params.Encode()
}
