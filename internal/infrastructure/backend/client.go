// Package backend talks to the HOSPOS REST API. Every failure is returned as
// a *domain.Failure so screens can show it without further mapping.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hospos/hospos-client/internal/core/domain"
	"github.com/hospos/hospos-client/internal/infrastructure/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 64 << 10
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is safe for concurrent use. The bearer token comes from the session
// carried by each request context.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// errorBody matches the error envelopes the backend sends.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// call sends one request and returns the raw response body of a 2xx answer.
// endpoint is the route template used as the metrics label.
func (c *Client) call(ctx context.Context, method, path, endpoint string, body any) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.BackendRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", endpoint, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess, ok := domain.SessionFromContext(ctx); ok && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(endpoint, string(domain.FailureTransport)).Inc()
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("backend unreachable")
		return nil, &domain.Failure{Kind: domain.FailureTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.BackendRequestsTotal.WithLabelValues(endpoint, string(domain.FailureStatus)).Inc()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, statusFailure(resp.StatusCode, raw)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(endpoint, string(domain.FailureTransport)).Inc()
		return nil, &domain.Failure{Kind: domain.FailureTransport, Err: err}
	}
	metrics.BackendRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	return data, nil
}

// do is call plus a JSON decode of the answer into out, when out is non-nil.
func (c *Client) do(ctx context.Context, method, path, endpoint string, body, out any) error {
	data, err := c.call(ctx, method, path, endpoint, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(endpoint, string(domain.FailurePayload)).Inc()
		return &domain.Failure{Kind: domain.FailurePayload, Err: err}
	}
	return nil
}

// statusFailure keeps the backend's own message when the body carries one.
func statusFailure(status int, raw []byte) *domain.Failure {
	f := &domain.Failure{Kind: domain.FailureStatus, Status: status}
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil {
		f.Message = eb.Error
		if f.Message == "" {
			f.Message = eb.Message
		}
	}
	switch status {
	case http.StatusUnauthorized:
		f.Err = domain.ErrNotAuthenticated
	case http.StatusForbidden:
		f.Err = domain.ErrForbidden
	case http.StatusNotFound:
		f.Err = domain.ErrNotFound
	}
	return f
}

// Ping reports whether the backend answers HTTP at all; any status counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend ping: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// IsUnauthenticated reports whether err is the backend rejecting the token.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, domain.ErrNotAuthenticated)
}
