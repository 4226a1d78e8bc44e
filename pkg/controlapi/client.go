package controlapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shokoauto/notifybridge/pkg/logger"
	"github.com/shokoauto/notifybridge/pkg/metrics"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 64 << 10

// Endpoint names used for metrics and logs.
const (
	EndpointStatus  = "status"
	EndpointMissing = "missing"
	EndpointSearch  = "search"
	EndpointHealth  = "health"
)

// Timeouts bounds each endpoint independently.
type Timeouts struct {
	Status  time.Duration
	Missing time.Duration
	Search  time.Duration
	Health  time.Duration
}

// DefaultTimeouts are short for queries and long for a triggered search.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Status:  5 * time.Second,
		Missing: 10 * time.Second,
		Search:  300 * time.Second,
		Health:  2 * time.Second,
	}
}

// Client calls the control API. Safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	timeouts  Timeouts
	breaker   *Breaker
	userAgent string
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client. Its own Timeout should be zero
// or larger than every per-endpoint timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeouts overrides per-endpoint timeouts. Zero fields keep their defaults.
func WithTimeouts(t Timeouts) Option {
	return func(c *Client) {
		if t.Status > 0 {
			c.timeouts.Status = t.Status
		}
		if t.Missing > 0 {
			c.timeouts.Missing = t.Missing
		}
		if t.Search > 0 {
			c.timeouts.Search = t.Search
		}
		if t.Health > 0 {
			c.timeouts.Health = t.Health
		}
	}
}

// WithBreaker guards every call with b.
func WithBreaker(b *Breaker) Option {
	return func(c *Client) { c.breaker = b }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger for the Client.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: only http and https schemes are supported", ErrInvalidURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: host is required", ErrInvalidURL)
	}

	c := &Client{
		baseURL: u,
		http: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		timeouts:  DefaultTimeouts(),
		userAgent: "notifybridge/1.0",
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Breaker returns the attached circuit breaker, or nil.
func (c *Client) Breaker() *Breaker { return c.breaker }

// Status fetches the automation status snapshot.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var out Status
	err := c.do(ctx, EndpointStatus, http.MethodGet, "/status", nil, nil, c.timeouts.Status, &out)
	return out, err
}

// Missing fetches up to limit missing episodes. A non-positive limit leaves
// the server default in place.
func (c *Client) Missing(ctx context.Context, limit int) (MissingList, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": []string{strconv.Itoa(limit)}}
	}
	var out MissingList
	err := c.do(ctx, EndpointMissing, http.MethodGet, "/missing", q, nil, c.timeouts.Missing, &out)
	return out, err
}

// Search triggers a search over up to limit episodes; zero means all.
func (c *Client) Search(ctx context.Context, limit int) (SearchResult, error) {
	var out SearchResult
	err := c.do(ctx, EndpointSearch, http.MethodPost, "/search", nil, searchRequest{Limit: limit}, c.timeouts.Search, &out)
	return out, err
}

// Health checks that the control API answers on /health.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, EndpointHealth, http.MethodGet, "/health", nil, nil, c.timeouts.Health, nil)
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, query url.Values, body any, timeout time.Duration, out any) error {
	if c.breaker != nil && !c.breaker.Allow() {
		metrics.ControlAPIDuration.WithLabelValues(endpoint, "circuit_open").Observe(0)
		return fmt.Errorf("%w: %s: %w", ErrUpstream, endpoint, ErrCircuitOpen)
	}

	start := time.Now()
	code, err := c.attempt(ctx, method, path, query, body, timeout, out)
	elapsed := time.Since(start)

	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	metrics.ControlAPIDuration.WithLabelValues(endpoint, label).Observe(elapsed.Seconds())

	if c.breaker != nil {
		// The caller gave up; the API was not at fault.
		if ctx.Err() != nil {
			c.breaker.Release()
		} else if err == nil || (code > 0 && code < 500) {
			c.breaker.RecordSuccess()
		} else {
			c.breaker.RecordFailure()
		}
	}

	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "Control API request failed",
			logger.Component("controlapi"),
			slog.String("endpoint", endpoint),
			slog.Int("status", code),
			logger.Duration(elapsed),
			logger.Error(err),
		)
		return fmt.Errorf("%w: %s: %w", ErrUpstream, endpoint, err)
	}
	return nil
}

// attempt makes a single request and returns the response status code (0 when
// no response was received).
func (c *Client) attempt(ctx context.Context, method, path string, query url.Values, body any, timeout time.Duration, out any) (int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawPath = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, u.String(), reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return 0, fmt.Errorf("%w after %s: %w", ErrTimeout, timeout, err)
		}
		return 0, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return resp.StatusCode, fmt.Errorf("%w after %s: %w", ErrTimeout, timeout, err)
		}
		return resp.StatusCode, fmt.Errorf("%w: reading body: %w", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, &StatusError{Code: resp.StatusCode, Message: apiMessage(data)}
	}

	if out == nil {
		return resp.StatusCode, nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return resp.StatusCode, fmt.Errorf("%w: empty body", ErrInvalidResponse)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return resp.StatusCode, nil
}

// apiMessage extracts the {"error": ...} text of an error response, flattened
// to one line and cut at 200 bytes.
func apiMessage(data []byte) string {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err != nil || eb.Error == "" {
		return ""
	}
	msg := strings.Join(strings.Fields(eb.Error), " ")
	if len(msg) > 200 {
		msg = strings.ToValidUTF8(msg[:200], "") + "..."
	}
	return msg
}
