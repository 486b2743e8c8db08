// Package notion is the server-side client for the Notion REST API. The
// gateway is the only consumer; widget code talks to the gateway instead so
// the integration secret never leaves the server.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

const (
	defaultBaseURL = "https://api.notion.com"
	defaultVersion = "2022-06-28"

	// queryPageSize matches the upstream maximum.
	queryPageSize = 100
)

// Client calls the Notion API on behalf of gateway requests. Calls are
// guarded by a circuit breaker so a misbehaving upstream trips fast instead
// of tying up gateway connections.
type Client struct {
	httpClient *http.Client
	baseURL    string
	version    string
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *slog.Logger
}

// ClientConfig configures the upstream client.
type ClientConfig struct {
	// BaseURL overrides the Notion API origin, used in tests.
	BaseURL string
	// Version is the Notion-Version header value.
	Version string
	// Timeout bounds each upstream call.
	Timeout time.Duration
	// BreakerEnabled guards calls with a circuit breaker.
	BreakerEnabled bool
	// FailureThreshold is the consecutive-failure count that trips the breaker.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

// DefaultClientConfig returns production defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:          defaultBaseURL,
		Version:          defaultVersion,
		Timeout:          15 * time.Second,
		BreakerEnabled:   true,
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
	}
}

// NewClient creates a Notion API client.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Version == "" {
		cfg.Version = defaultVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		version:    cfg.Version,
		logger:     logger,
	}

	if cfg.BreakerEnabled {
		threshold := cfg.FailureThreshold
		if threshold == 0 {
			threshold = 5
		}
		settings := gobreaker.Settings{
			Name:    "notion-api",
			Timeout: cfg.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("circuit breaker state change",
					"breaker", name,
					"from", from.String(),
					"to", to.String(),
				)
			},
		}
		c.breaker = gobreaker.NewCircuitBreaker[[]byte](settings)
	}

	return c
}

// QueryDatabase runs a database query and returns the upstream body
// verbatim, so the gateway can relay it unmodified.
func (c *Client) QueryDatabase(ctx context.Context, databaseID, token string) ([]byte, error) {
	body := map[string]any{"page_size": queryPageSize}
	url := fmt.Sprintf("%s/v1/databases/%s/query", c.baseURL, databaseID)
	return c.do(ctx, http.MethodPost, url, token, body)
}

// SearchDatabases lists the databases visible to token, reduced to the
// projection the widget needs.
func (c *Client) SearchDatabases(ctx context.Context, token string) ([]Database, error) {
	body := map[string]any{
		"filter": map[string]string{
			"value":    "database",
			"property": "object",
		},
		"page_size": queryPageSize,
	}
	raw, err := c.do(ctx, http.MethodPost, c.baseURL+"/v1/search", token, body)
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	databases := make([]Database, 0, len(parsed.Results))
	for _, result := range parsed.Results {
		databases = append(databases, Database{
			ID:             result.ID,
			Title:          titleText(result.Title),
			URL:            result.URL,
			CreatedTime:    result.CreatedTime,
			LastEditedTime: result.LastEditedTime,
		})
	}
	return databases, nil
}

// UpdateTaskCompletion patches the page's Completed checkbox and returns the
// upstream body verbatim.
func (c *Client) UpdateTaskCompletion(ctx context.Context, pageID, token string, completed bool) ([]byte, error) {
	body := map[string]any{
		"properties": map[string]any{
			"Completed": map[string]any{
				"checkbox": completed,
			},
		},
	}
	url := fmt.Sprintf("%s/v1/pages/%s", c.baseURL, pageID)
	return c.do(ctx, http.MethodPatch, url, token, body)
}

// do issues one credentialed upstream call through the breaker.
func (c *Client) do(ctx context.Context, method, url, token string, body any) ([]byte, error) {
	call := func() ([]byte, error) {
		return c.roundTrip(ctx, method, url, token, body)
	}

	if c.breaker == nil {
		return call()
	}

	raw, err := c.breaker.Execute(call)
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, &UpstreamError{
			StatusCode: http.StatusServiceUnavailable,
			Message:    "notion api temporarily unavailable",
		}
	}
	return raw, err
}

func (c *Client) roundTrip(ctx context.Context, method, url, token string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("notion request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read notion response: %w", err)
	}

	c.logger.Debug("notion api call",
		"method", method,
		"url", url,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newUpstreamError(resp.StatusCode, raw)
	}
	return raw, nil
}

// titleText flattens a title rich-text list into plain text.
func titleText(fragments []RichText) string {
	for _, fragment := range fragments {
		if fragment.Text != nil && fragment.Text.Content != "" {
			return fragment.Text.Content
		}
	}
	return "Untitled Database"
}
