// Package gateway is the HTTP client every portal instance uses to reach
// the REST backend.
//
// Interceptors run on every call in registration order. Request
// interceptors may rewrite the outgoing request; response interceptors
// observe the failure of a call and return the error the caller sees.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/scholarhub/portal-gateway/internal/api/metrics"
)

const (
	// DefaultBaseURL is used when no backend URL is configured.
	DefaultBaseURL = "http://localhost:5000"

	defaultTimeout = 15 * time.Second
	maxErrorBody   = 64 << 10
	tracerName     = "github.com/scholarhub/portal-gateway/gateway"
)

// RequestInterceptor runs before a request is sent.
type RequestInterceptor func(req *http.Request) error

// ResponseInterceptor runs when a call fails, with the error about to be
// returned. It must return an error; returning the one it was given keeps
// the failure visible to the caller.
type ResponseInterceptor func(req *http.Request, err error) error

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type requestEntry struct {
	id uint64
	fn RequestInterceptor
}

type responseEntry struct {
	id uint64
	fn ResponseInterceptor
}

// Client is bound to one backend base URL for its whole life.
type Client struct {
	base   *url.URL
	http   *http.Client
	log    zerolog.Logger
	tracer trace.Tracer

	mu        sync.RWMutex
	seq       uint64
	requests  []requestEntry
	responses []responseEntry
}

// New builds a Client. An empty BaseURL falls back to DefaultBaseURL.
func New(opts Options, log zerolog.Logger) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("gateway: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("gateway: base url %q must be absolute", raw)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		base:   base,
		http:   hc,
		log:    log,
		tracer: otel.Tracer(tracerName),
	}, nil
}

// BaseURL returns the backend URL the client is bound to.
func (c *Client) BaseURL() string { return c.base.String() }

// UseRequest appends a request interceptor. The returned eject removes it;
// calling eject more than once is a no-op.
func (c *Client) UseRequest(fn RequestInterceptor) (eject func()) {
	c.mu.Lock()
	c.seq++
	id := c.seq
	c.requests = append(c.requests, requestEntry{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, e := range c.requests {
				if e.id == id {
					c.requests = append(c.requests[:i:i], c.requests[i+1:]...)
					return
				}
			}
		})
	}
}

// UseResponse appends a response interceptor. See UseRequest for eject.
func (c *Client) UseResponse(fn ResponseInterceptor) (eject func()) {
	c.mu.Lock()
	c.seq++
	id := c.seq
	c.responses = append(c.responses, responseEntry{id: id, fn: fn})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, e := range c.responses {
				if e.id == id {
					c.responses = append(c.responses[:i:i], c.responses[i+1:]...)
					return
				}
			}
		})
	}
}

// InterceptorCount reports how many interceptors are installed.
func (c *Client) InterceptorCount() (requests, responses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.requests), len(c.responses)
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Do sends one JSON request. path is relative to the base URL and must
// already be escaped. A non-2xx response becomes an *APIError; out is
// decoded only on success.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	ctx, span := c.tracer.Start(ctx, method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", u.String()),
		),
	)
	defer span.End()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("%s %s: build request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	requests := append([]requestEntry(nil), c.requests...)
	responses := append([]responseEntry(nil), c.responses...)
	c.mu.RUnlock()

	for _, e := range requests {
		if err := e.fn(req); err != nil {
			return fmt.Errorf("%s %s: request interceptor: %w", method, path, err)
		}
	}

	err = c.send(req, path, out)
	if err == nil {
		return nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	for _, e := range responses {
		err = e.fn(req, err)
	}
	return err
}

func (c *Client) send(req *http.Request, path string, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(req.Method, "error").Inc()
		return fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	defer resp.Body.Close()

	metrics.BackendRequestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()
	trace.SpanFromContext(req.Context()).SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{
			Status:  resp.StatusCode,
			Method:  req.Method,
			Path:    path,
			Message: errorMessage(raw),
		}
		c.log.Debug().
			Str("method", req.Method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("backend call failed")
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s %s: decode response: %w", req.Method, path, err)
	}
	return nil
}

// errorMessage pulls a message out of the common error envelopes.
func errorMessage(raw []byte) string {
	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &env); err == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Error != "" {
			return env.Error
		}
	}
	return strings.TrimSpace(string(raw))
}
