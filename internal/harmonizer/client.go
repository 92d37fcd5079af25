// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package harmonizer provides the client for the remote harmonizer service, which
// turns validated SQL schemas into an ontology and metamodel.
// It defines the API contract used by the CLI and the relay server, together with
// an HTTP implementation supporting plain JSON requests and text/event-stream responses.
package harmonizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries the correlation id of every outgoing request.
const RequestIDHeader = "X-Request-Id"

// maxErrorBody caps how much of a failed response body is kept for diagnostics.
const maxErrorBody = 4 << 10

// APIError reports a failed harmonizer call. Status is 0 when the service
// could not be reached at all.
type APIError struct {
	Status  int
	Message string
	Body    string
	Err     error
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.Err }

// IsNetwork reports whether the request never got an HTTP response.
func (e *APIError) IsNetwork() bool { return e.Status == 0 }

func statusError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &APIError{
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("HTTP error! status: %d", resp.StatusCode),
		Body:    string(bytes.TrimSpace(body)),
	}
}

func networkError(err error) *APIError {
	return &APIError{Message: "network error: " + err.Error(), Err: err}
}

// Client implements API over the harmonizer REST endpoints.
type Client struct {
	// baseURL is the base URL for all HTTP requests (e.g., "http://localhost:8000")
	baseURL string
	// endpoints contains the URL paths for the harmonizer endpoints
	endpoints Endpoints
	// client is used for request/response calls and carries the configured timeout
	client *http.Client
	// streamClient is used for event streams; it has no timeout and relies on ctx
	streamClient *http.Client
	// token is sent as a bearer token when non-empty
	token  string
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout of non-streaming requests.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option { return func(c *Client) { c.token = token } }

// WithLogger sets the logger used for stream diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHTTPClient replaces both underlying HTTP clients.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
			c.streamClient = hc
		}
	}
}

// New creates a harmonizer client. The base URL is required to be passed in by
// the caller; an empty value falls back to DefaultBaseURL.
func New(baseURL string, endpoints Endpoints, opts ...Option) *Client {
	c := &Client{
		baseURL:      NormalizeBaseURL(baseURL),
		endpoints:    endpoints.WithDefaults(),
		client:       &http.Client{Timeout: 10 * time.Second},
		streamClient: &http.Client{},
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Endpoints returns the resolved endpoint paths.
func (c *Client) Endpoints() Endpoints { return c.endpoints }

// newRequest builds a request with JSON headers, the bearer token and a fresh request id.
func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// request performs a JSON call and returns the raw response body.
// A 204 or empty body yields a nil message.
func (c *Client) request(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if !json.Valid(data) {
		return nil, &APIError{Status: resp.StatusCode, Message: "invalid JSON in response", Body: string(data)}
	}
	return json.RawMessage(data), nil
}

// Get performs a GET request against path.
func (c *Client) Get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.request(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPost, path, body)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.request(ctx, http.MethodPut, path, body)
}

// Delete performs a DELETE request against path.
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.request(ctx, http.MethodDelete, path, nil)
}
