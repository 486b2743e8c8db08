// Package gateway is the widget-side client for the proxy gateway. It wraps
// every call in a bounded timeout with fixed-delay retries: transport
// failures are retried, well-formed error responses are classified and
// returned as terminal.
package gateway

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
	"strings"
	"time"

	"github.com/claritysync/notioncenter/internal/notion"
)

// Retry policy defaults, deliberately simple: call volume is low and
// user-triggered, so adaptive backoff buys nothing.
const (
	DefaultRequestTimeout = 10 * time.Second
	DefaultMaxRetries     = 3
	DefaultRetryDelay     = time.Second
)

// Client calls the proxy gateway.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// ClientConfig configures the gateway client.
type ClientConfig struct {
	// BaseURL is the gateway origin, e.g. http://localhost:8080.
	BaseURL string
	// Timeout bounds each individual attempt.
	Timeout time.Duration
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// RetryDelay is the fixed pause between attempts.
	RetryDelay time.Duration
}

// NewClient creates a gateway client.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultRequestTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}

	return &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     logger,
	}
}

// QueryTasks fetches the raw query response for a database.
func (c *Client) QueryTasks(ctx context.Context, databaseID, token string) (*notion.QueryResponse, error) {
	body, err := json.Marshal(map[string]string{
		"databaseId": databaseID,
		"token":      token,
	})
	if err != nil {
		return nil, fmt.Errorf("encode query request: %w", err)
	}

	raw, err := c.do(ctx, http.MethodPost, "/notion", body, nil)
	if err != nil {
		return nil, err
	}

	var parsed notion.QueryResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &Error{Kind: KindValidation, Message: "Invalid response format from Notion API", cause: err}
	}
	if parsed.Results == nil {
		return nil, &Error{Kind: KindValidation, Message: "Invalid response format from Notion API"}
	}
	return &parsed, nil
}

// GetDatabases lists databases visible to token.
func (c *Client) GetDatabases(ctx context.Context, token string) ([]notion.Database, error) {
	path := "/databases?token=" + url.QueryEscape(token)
	raw, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	parsed := struct {
		Databases []notion.Database `json:"databases"`
	}{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &Error{Kind: KindValidation, Message: "Invalid databases response", cause: err}
	}
	return parsed.Databases, nil
}

// ExchangeCode trades an authorization code for connection credentials.
func (c *Client) ExchangeCode(ctx context.Context, code string) (notion.TokenResult, error) {
	path := "/oauth?code=" + url.QueryEscape(code)
	raw, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return notion.TokenResult{}, err
	}

	var result notion.TokenResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return notion.TokenResult{}, &Error{Kind: KindValidation, Message: "Invalid oauth response", cause: err}
	}
	return result, nil
}

// UpdateTaskCompletion patches a task's completed flag.
func (c *Client) UpdateTaskCompletion(ctx context.Context, pageID, token string, completed bool) error {
	body, err := json.Marshal(map[string]bool{"completed": completed})
	if err != nil {
		return fmt.Errorf("encode completion request: %w", err)
	}

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+token)

	_, err = c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(pageID), body, headers)
	return err
}

// do runs one gateway call under the retry policy. Only transport failures
// and per-attempt timeouts are retried; any HTTP response is terminal.
func (c *Client) do(ctx context.Context, method, path string, body []byte, headers http.Header) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("request failed, retrying",
				"path", path,
				"attempts_left", c.maxRetries-attempt+1,
			)
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return nil, networkError("Request cancelled", ctx.Err())
			}
		}

		raw, err := c.attempt(ctx, method, path, body, headers)
		if err == nil {
			return raw, nil
		}

		var gatewayErr *Error
		if errors.As(err, &gatewayErr) && !gatewayErr.Retryable() {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, method, path string, body []byte, headers http.Header) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(attemptCtx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || attemptCtx.Err() != nil {
			return nil, networkError("Request timeout", err)
		}
		return nil, networkError("Unable to connect to the server", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError("Unable to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		parsed := struct {
			Error string `json:"error"`
		}{}
		_ = json.Unmarshal(raw, &parsed)
		return nil, classifyStatus(resp.StatusCode, parsed.Error)
	}
	return raw, nil
}
