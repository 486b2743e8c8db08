package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/claritysync/notioncenter/internal/notion"
)

// upstreamClient is the slice of the Notion client the handler uses.
type upstreamClient interface {
	QueryDatabase(ctx context.Context, databaseID, token string) ([]byte, error)
	SearchDatabases(ctx context.Context, token string) ([]notion.Database, error)
	UpdateTaskCompletion(ctx context.Context, pageID, token string, completed bool) ([]byte, error)
}

// codeExchanger performs the OAuth code exchange.
type codeExchanger interface {
	Exchange(ctx context.Context, code string) (notion.TokenResult, error)
}

// GatewayHandler handles the proxy endpoints. It keeps no state between
// requests; every call is forwarded with the caller's credential.
type GatewayHandler struct {
	upstream  upstreamClient
	exchanger codeExchanger
	logger    *slog.Logger

	// Config presence flags reported by the env-check endpoint.
	hasClientID     bool
	hasClientSecret bool
	hasBaseURL      bool
}

// GatewayHandlerConfig holds dependencies for the gateway handler.
type GatewayHandlerConfig struct {
	Upstream upstreamClient
	// Exchanger is nil when the server-held OAuth configuration is
	// incomplete; the oauth endpoint then fails fast.
	Exchanger codeExchanger
	Logger    *slog.Logger

	HasClientID     bool
	HasClientSecret bool
	HasBaseURL      bool
}

// NewGatewayHandler creates a gateway handler.
func NewGatewayHandler(cfg GatewayHandlerConfig) *GatewayHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &GatewayHandler{
		upstream:        cfg.Upstream,
		exchanger:       cfg.Exchanger,
		logger:          cfg.Logger,
		hasClientID:     cfg.HasClientID,
		hasClientSecret: cfg.HasClientSecret,
		hasBaseURL:      cfg.HasBaseURL,
	}
}

// QueryDatabase handles POST /notion: forwards a database query and relays
// the upstream body verbatim.
func (h *GatewayHandler) QueryDatabase(w http.ResponseWriter, r *http.Request) {
	var body struct {
		DatabaseID string `json:"databaseId"`
		Token      string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.DatabaseID == "" || body.Token == "" {
		writeError(w, http.StatusBadRequest, "Database ID and token are required")
		return
	}

	raw, err := h.upstream.QueryDatabase(r.Context(), body.DatabaseID, body.Token)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "notion query failed",
			"database_id", body.DatabaseID,
			"error", err,
		)
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to fetch data from Notion", errorDetails(err))
		return
	}

	writeRaw(w, http.StatusOK, raw)
}

// ListDatabases handles GET /databases: lists databases visible to the
// token, reduced to the widget's projection.
func (h *GatewayHandler) ListDatabases(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "Access token is required")
		return
	}

	databases, err := h.upstream.SearchDatabases(r.Context(), token)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "database listing failed", "error", err)
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to fetch databases from Notion", errorDetails(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string][]notion.Database{"databases": databases})
}

// ExchangeCode handles GET /oauth: trades an authorization code for an
// access token, keeping the client secret server-side.
func (h *GatewayHandler) ExchangeCode(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "Authorization code is required")
		return
	}

	if h.exchanger == nil {
		h.logger.ErrorContext(r.Context(), "oauth exchange rejected: server configuration incomplete",
			"has_client_id", h.hasClientID,
			"has_client_secret", h.hasClientSecret,
			"has_base_url", h.hasBaseURL,
		)
		writeError(w, http.StatusInternalServerError, "Server configuration error")
		return
	}

	result, err := h.exchanger.Exchange(r.Context(), code)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "oauth exchange failed", "error", err)
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to complete OAuth flow", errorDetails(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// UpdateTask handles PATCH /tasks/{pageID}: patches the page's completion
// checkbox. The caller's credential arrives as a bearer token so the page ID
// stays the only path parameter. Upstream failures keep their status so the
// widget can classify them (auth errors prompt a reconnect).
func (h *GatewayHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	pageID := r.PathValue("pageID")
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusBadRequest, "Access token is required")
		return
	}

	var body struct {
		Completed *bool `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Completed == nil {
		writeError(w, http.StatusBadRequest, "Completed flag is required")
		return
	}

	raw, err := h.upstream.UpdateTaskCompletion(r.Context(), pageID, token, *body.Completed)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "task update failed",
			"page_id", pageID,
			"error", err,
		)
		var upstream *notion.UpstreamError
		if errors.As(err, &upstream) {
			writeErrorDetails(w, upstream.StatusCode, "Failed to update task", upstream.Message)
			return
		}
		writeErrorDetails(w, http.StatusInternalServerError, "Failed to update task", errorDetails(err))
		return
	}

	writeRaw(w, http.StatusOK, raw)
}

// EnvCheck handles GET /env-check: reports which server configuration
// values are present without leaking them.
func (h *GatewayHandler) EnvCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Environment variables check",
		"env": map[string]bool{
			"NOTION_CLIENT_ID":     h.hasClientID,
			"NOTION_CLIENT_SECRET": h.hasClientSecret,
			"BASE_URL":             h.hasBaseURL,
		},
	})
}

// bearerToken extracts the credential from the Authorization header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// errorDetails flattens an upstream error into the details field.
func errorDetails(err error) string {
	var upstream *notion.UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Message
	}
	return err.Error()
}
