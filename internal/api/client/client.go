// Package client provides a thin HTTP client for the listing creator API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

// Client is a thin HTTP client for the listing creator API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client targeting the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Error is a non-2xx response. Detail is taken from the problem+json body
// when the server sent one.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("API error (HTTP %d): %s", e.StatusCode, e.Detail)
}

// IsStatus reports whether err is an Error with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

func (c *Client) get(ctx context.Context, path string, dst any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, dst)
}

func (c *Client) post(ctx context.Context, path string, body, dst any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, dst)
}

func (c *Client) put(ctx context.Context, path string, body, dst any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, dst)
}

func (c *Client) patch(ctx context.Context, path string, body, dst any) error {
	return c.doJSON(ctx, http.MethodPatch, path, body, dst)
}

func (c *Client) del(ctx context.Context, path string, dst any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, dst)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, dst any) error {
	var (
		bodyReader  io.Reader
		contentType string
	)
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, contentType, bodyReader, dst)
}

// upload sends one file as the multipart field "file".
func (c *Client) upload(
	ctx context.Context,
	method, path, name, contentType string,
	data []byte,
	dst any,
) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {fmt.Sprintf(`form-data; name="file"; filename=%q`, name)},
		"Content-Type":        {contentType},
	})
	if err != nil {
		return fmt.Errorf("creating form part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("writing form part: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing form: %w", err)
	}
	return c.do(ctx, method, path, w.FormDataContentType(), &buf, dst)
}

func (c *Client) do(
	ctx context.Context,
	method, path, contentType string,
	body io.Reader,
	dst any,
) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return fmt.Errorf("API server not running at %s", c.baseURL)
		}
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, respBody)
	}

	if dst != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, dst); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

func decodeError(status int, body []byte) error {
	var problem struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &problem); err == nil && problem.Detail != "" {
		return &Error{StatusCode: status, Detail: problem.Detail}
	}
	return &Error{StatusCode: status, Detail: strings.TrimSpace(string(body))}
}

func isConnectionRefused(err error) bool {
	return strings.Contains(err.Error(), "connection refused")
}
