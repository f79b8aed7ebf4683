// Package client is a typed client for the readmark reading-tracker API.
//
// Every outbound call passes through a single pipeline that attaches the
// bearer token from the session store, tags the request with a generated
// X-Request-ID, bounds it with a fixed timeout, and classifies any failure
// into one of the codes in errors.go before it reaches the caller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"readmark/pkg/session"
)

const (
	// DefaultTimeout bounds every request.
	DefaultTimeout = 30 * time.Second

	requestIDHeader = "X-Request-ID"
	loginPath       = "/api/auth/login"
)

// Client calls the reading-tracker API over HTTP.
type Client struct {
	baseURL    string
	sessions   session.Store
	httpClient *http.Client
	transport  Doer
	logger     *slog.Logger
	pending    *pendingTable
	timeout    time.Duration
	chunkSize  int64

	// onUnauthorized runs after a 401 clears the session store, unless the
	// failing request was the login call itself.
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport. The caller owns its
// timeout configuration.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

// WithLogger sets the logger used for per-request debug/warn lines.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithUnauthorizedHandler registers the hook invoked when the server rejects
// a token. The hook is the CLI/UI analog of redirecting to the login view.
func WithUnauthorizedHandler(handler func()) Option {
	return func(c *Client) { c.onUnauthorized = handler }
}

// WithChunkSize overrides the upload chunk size.
func WithChunkSize(size int64) Option {
	return func(c *Client) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// New constructs a client for the API at baseURL. Tokens are read from and
// written to sessions.
func New(baseURL string, sessions session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		sessions:  sessions,
		logger:    slog.Default(),
		pending:   newPendingTable(),
		timeout:   DefaultTimeout,
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	c.transport = chainMiddleware(c.httpClient,
		withBearerAuth(c.sessions),
		withLogging(c.logger),
	)
	return c
}

// Cancel aborts the in-flight request with the given id. Cancelling a
// request that already completed is a no-op.
func (c *Client) Cancel(requestID string) {
	c.pending.cancel(requestID)
}

// CancelAll aborts every in-flight request, leaving the pending table empty.
// Intended for teardown.
func (c *Client) CancelAll() {
	c.pending.cancelAll()
}

// PendingRequests returns the ids of requests currently in flight.
func (c *Client) PendingRequests() []string {
	return c.pending.ids()
}

// do is the single choke point for outbound requests.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)

	c.pending.add(requestID, cancel)
	resp, err := c.transport.Do(req)
	c.pending.remove(requestID)
	if err != nil {
		return classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		apiErr := classifyStatus(resp.StatusCode, data)
		if apiErr.Code == CodeUnauthorized {
			// Force session teardown on any 401, but never bounce the login
			// call into its own unauthorized handler.
			_ = c.sessions.Clear()
			if path != loginPath && c.onUnauthorized != nil {
				c.onUnauthorized()
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, query, body, contentType, out)
}

func (c *Client) doForm(ctx context.Context, method, path string, form url.Values, out any) error {
	body := strings.NewReader(form.Encode())
	return c.do(ctx, method, path, nil, body, "application/x-www-form-urlencoded", out)
}
