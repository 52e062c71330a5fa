// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gdrive exports documents through the Google Drive v3 REST API.
package gdrive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/gdoc-down/internal/httputil"
	"github.com/pdiddy/gdoc-down/internal/logger"
	"github.com/pdiddy/gdoc-down/pkg/types"
)

// DefaultBaseURL is the Drive v3 API root.
const DefaultBaseURL = "https://www.googleapis.com/drive/v3"

// MaxExportBytes is the largest export Drive serves (10 MiB).
const MaxExportBytes = 10 << 20

var (
	ErrNotFound     = errors.New("document not found")
	ErrUnauthorized = errors.New("not authorized to export document")
	ErrTransport    = errors.New("drive request failed")
	ErrTooLarge     = errors.New("export exceeds size limit")
)

// Client exports Drive files as a given MIME type.
type Client struct {
	// BaseURL defaults to DefaultBaseURL. Tests point it at an httptest server.
	BaseURL    string
	HTTP       *http.Client
	Token      string
	UserAgent  string
	MaxRetries int
}

// NewClient builds a Client from download settings.
func NewClient(cfg types.DownloadConfig) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		HTTP:       &http.Client{Timeout: cfg.Timeout},
		Token:      cfg.AccessToken,
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
	}
}

// apiError is Drive's JSON error envelope.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Export downloads fileID converted to mimeType.
func (c *Client) Export(ctx context.Context, fileID, mimeType string) ([]byte, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	apiURL := fmt.Sprintf("%s/files/%s/export?mimeType=%s",
		strings.TrimRight(base, "/"), url.PathEscape(fileID), url.QueryEscape(mimeType))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating export request: %w", err)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	logger.DebugContext(ctx, "exporting document", "id", fileID, "mime_type", mimeType)

	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, fileID)
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s: %s", ErrUnauthorized, fileID, errorMessage(resp))
	default:
		return nil, fmt.Errorf("%w: HTTP %d exporting %s: %s", ErrTransport, resp.StatusCode, fileID, errorMessage(resp))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxExportBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading export: %w", ErrTransport, err)
	}
	if len(body) > MaxExportBytes {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrTooLarge, fileID, MaxExportBytes)
	}
	return body, nil
}

// errorMessage returns Drive's error message from the response body, or
// the HTTP status text when the body is not an error envelope.
func errorMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil {
		var ae apiError
		if json.Unmarshal(data, &ae) == nil && ae.Error.Message != "" {
			return ae.Error.Message
		}
	}
	return http.StatusText(resp.StatusCode)
}
