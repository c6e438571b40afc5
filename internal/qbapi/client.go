package qbapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/lachiem1/tallyUp/internal/logging"
)

const (
	defaultBaseURL      = "https://quickbooks.api.intuit.com"
	defaultMinorVersion = "75"
	defaultTimeout      = 15 * time.Second

	// maxErrorBody caps how much of a failed response is kept on StatusError.
	maxErrorBody = 4 << 10
)

// Client is a minimal QuickBooks Online accounting API client.
type Client struct {
	baseURL      string
	realmID      string
	token        string
	minorVersion string
	httpClient   *http.Client
	logger       *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithMinorVersion pins the API minor version sent on every request.
func WithMinorVersion(v string) Option {
	return func(c *Client) {
		if v != "" {
			c.minorVersion = v
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logging.OrNop(l)
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// New creates a client using the production QuickBooks base URL.
func New(token, realmID string, opts ...Option) *Client {
	c := &Client{
		baseURL:      defaultBaseURL,
		realmID:      realmID,
		token:        token,
		minorVersion: defaultMinorVersion,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewWithBaseURL creates a client with a custom base URL, such as the
// sandbox host or a local stub.
func NewWithBaseURL(token, realmID, baseURL string, opts ...Option) *Client {
	c := New(token, realmID, opts...)
	if baseURL != "" {
		c.baseURL = baseURL
	}
	return c
}

// RealmID returns the company the client queries.
func (c *Client) RealmID() string { return c.realmID }

// StatusError is returned when the API answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("quickbooks request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("quickbooks request failed with status %d: %s", e.StatusCode, e.Body)
}

func (c *Client) companyPath(suffix string) string {
	return "/v3/company/" + url.PathEscape(c.realmID) + suffix
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("build request url: %w", err)
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("minorversion", c.minorVersion)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	c.logger.Debug("quickbooks request", logging.RequestFields(req)...)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("quickbooks request failed", zap.Error(err))
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("quickbooks response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
