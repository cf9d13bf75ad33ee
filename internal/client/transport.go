package client

import (
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/akraev/shopctl/internal/session"
)

// authTransport is the cross-cutting session hook on the request pipeline.
// It reads the token immediately before send (never caching it across calls)
// and observes every response: a 401/403 from any endpoint tears the whole
// session down before the response reaches the caller, so the next render
// already sees a logged-out state.
type authTransport struct {
	session *session.Session
	next    http.RoundTripper
}

func newAuthTransport(sess *session.Session, next http.RoundTripper) *authTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &authTransport{session: sess, next: next}
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if tok := t.session.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	if req.Header.Get("X-Request-ID") == "" {
		if id, err := uuid.NewV4(); err == nil {
			req.Header.Set("X-Request-ID", id.String())
		}
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		// Single attempt, no token refresh: the credential is dead.
		_ = t.session.Clear()
	}
	return resp, nil
}

// loggingTransport logs request metadata only, never payloads.
type loggingTransport struct {
	log  *zap.Logger
	next http.RoundTripper
}

func newLoggingTransport(log *zap.Logger, next http.RoundTripper) *loggingTransport {
	return &loggingTransport{log: log, next: next}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		t.log.Warn("http",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Duration("dur", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}
	t.log.Info("http",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("dur", time.Since(start)),
	)
	return resp, nil
}
