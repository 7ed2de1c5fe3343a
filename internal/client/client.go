// Package client implements the HTTP GraphQL client used for remote
// schema introspection and per-call query execution.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"graphmcp/internal/logging"
)

// DefaultTimeout bounds each remote request unless overridden.
const DefaultTimeout = 30 * time.Second

// Request is one GraphQL operation to execute.
type Request struct {
	Query         string
	OperationName string
	Variables     map[string]any

	// BearerToken overrides the client's configured token for this call
	// (caller-credential forwarding).
	BearerToken string
}

// Error is a GraphQL-level error, message text preserved verbatim.
type Error struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// ErrorList is the errors array of a GraphQL response.
type ErrorList []Error

func (e ErrorList) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// Messages returns the raw error message texts.
func (e ErrorList) Messages() []string {
	out := make([]string, 0, len(e))
	for _, err := range e {
		out = append(out, err.Message)
	}
	return out
}

// Response is a decoded GraphQL response body.
type Response struct {
	Data   map[string]any `json:"data"`
	Errors ErrorList      `json:"errors,omitempty"`
}

// Config holds client configuration.
type Config struct {
	URL     string
	Headers http.Header
	Timeout time.Duration

	// InsecureSkipVerify disables TLS certificate verification. Only for
	// development endpoints.
	InsecureSkipVerify bool

	// BearerToken is the statically configured credential, sent as
	// "Authorization: Bearer <token>" when set.
	BearerToken string

	// RefreshToken, when set, is called once to obtain a fresh token
	// after an authentication failure; the request is then retried a
	// single time. Must be safe to call concurrently.
	RefreshToken func(ctx context.Context) (string, error)

	Logger logging.Logger
}

// Client executes GraphQL operations over HTTP.
type Client struct {
	url        string
	headers    http.Header
	httpClient *http.Client
	refresh    func(ctx context.Context) (string, error)
	logger     logging.Logger

	mu     sync.RWMutex
	bearer string
}

// New creates a client from the configuration.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport
	if cfg.InsecureSkipVerify {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		transport = t
		if cfg.Logger != nil {
			cfg.Logger.Warn("TLS certificate verification disabled")
		}
	}

	return &Client{
		url:        cfg.URL,
		headers:    cfg.Headers,
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		refresh:    cfg.RefreshToken,
		logger:     cfg.Logger,
		bearer:     cfg.BearerToken,
	}
}

// URL returns the configured endpoint.
func (c *Client) URL() string {
	return c.url
}

// Do executes one GraphQL request. Authentication failures (401/403, or a
// GraphQL error array indicating an auth problem) trigger exactly one
// retry with a refreshed token when a refresh callback is configured.
// GraphQL-level errors are returned in the Response, not as an error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	return c.do(ctx, req, c.refresh != nil)
}

func (c *Client) do(ctx context.Context, req Request, allowRetry bool) (*Response, error) {
	payload := map[string]any{"query": req.Query}
	if len(req.Variables) > 0 {
		payload["variables"] = req.Variables
	}
	if req.OperationName != "" {
		payload["operationName"] = req.OperationName
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal graphql request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range c.headers {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if token := c.token(req); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("graphql request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden {
		if allowRetry && req.BearerToken == "" && c.refreshBearer(ctx) {
			return c.do(ctx, req, false)
		}
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		text, _ := io.ReadAll(httpResp.Body)
		return nil, fmt.Errorf("graphql request returned status %d: %s", httpResp.StatusCode, string(text))
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode graphql response: %w", err)
	}

	if len(resp.Errors) > 0 && allowRetry && req.BearerToken == "" && looksLikeAuthError(resp.Errors) && c.refreshBearer(ctx) {
		return c.do(ctx, req, false)
	}

	return &resp, nil
}

func (c *Client) token(req Request) string {
	if req.BearerToken != "" {
		return req.BearerToken
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bearer
}

func (c *Client) refreshBearer(ctx context.Context) bool {
	if c.refresh == nil {
		return false
	}
	token, err := c.refresh(ctx)
	if err != nil {
		if c.logger != nil {
			c.logger.WithError(err).Warn("Token refresh failed")
		}
		return false
	}
	c.mu.Lock()
	c.bearer = token
	c.mu.Unlock()
	return true
}

func looksLikeAuthError(errs ErrorList) bool {
	for _, e := range errs {
		msg := strings.ToLower(e.Message)
		if strings.Contains(msg, "unauthorized") ||
			strings.Contains(msg, "forbidden") ||
			strings.Contains(msg, "authentication") {
			return true
		}
	}
	return false
}
