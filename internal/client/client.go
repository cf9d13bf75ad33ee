// Package client implements the storefront REST API client.
//
// One Client method per backend operation, grouped by resource. Cross-cutting
// behavior (bearer credential, session teardown on 401/403, request logging)
// lives in RoundTrippers so it applies to every call and is testable apart
// from the resource methods. No request is ever retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/akraev/shopctl/internal/errs"
	"github.com/akraev/shopctl/internal/session"
)

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client talks to the storefront backend. All state it carries is the session
// reference; entity state stays server-owned.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client whose request pipeline injects the session token and
// tears the session down on authorization failures.
func New(cfg Config, sess *session.Session) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: newLoggingTransport(log, newAuthTransport(sess, nil)),
		},
	}
}

// APIError is a non-2xx backend response. Detail carries the message body the
// backend attached, if any.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend: %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend: %d %s", e.Status, http.StatusText(e.Status))
}

// Unwrap maps statuses onto sentinels so callers can errors.Is without
// depending on HTTP codes.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errs.ErrUnauthorized
	case http.StatusNotFound:
		return errs.ErrNotFound
	}
	return nil
}

// do issues one request and decodes the JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiError extracts the backend's message body. The backend reports errors as
// {"detail": "..."}; anything else is kept raw, truncated.
func apiError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	e := &APIError{Status: resp.StatusCode}

	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(b, &body); err == nil && len(body.Detail) > 0 {
		var msg string
		if json.Unmarshal(body.Detail, &msg) == nil {
			e.Detail = msg
		} else {
			e.Detail = string(body.Detail)
		}
	} else if s := strings.TrimSpace(string(b)); s != "" {
		e.Detail = s
	}
	return e
}
