package notion

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

	"golang.org/x/oauth2"
)

// OAuth endpoint paths on the Notion origin.
const (
	authorizePath = "/v1/oauth/authorize"
	tokenPath     = "/v1/oauth/token"

	// redirectPage is the static callback page appended to the configured
	// base URL, matching the shipped widget bundle.
	redirectPage = "/oauthcallback.html"
)

// ErrOAuthNotConfigured indicates the server-held OAuth settings (client id,
// client secret, base URL) are incomplete. The exchange fails fast without
// calling upstream.
var ErrOAuthNotConfigured = errors.New("notion: oauth configuration is incomplete")

// OAuthExchanger performs the authorization-code exchange. Notion's token
// endpoint takes Basic client credentials with a JSON body, so the exchange
// itself bypasses oauth2's form-encoded transport; the oauth2.Config is still
// the source of truth for endpoints and the user-facing authorization URL.
type OAuthExchanger struct {
	config     *oauth2.Config
	httpClient *http.Client
	tokenURL   string
}

// NewOAuthExchanger builds an exchanger for the given server-held
// credentials. baseURL is the public origin the callback page is served
// from; apiURL overrides the Notion origin in tests.
func NewOAuthExchanger(clientID, clientSecret, baseURL, apiURL string) (*OAuthExchanger, error) {
	if clientID == "" || clientSecret == "" || baseURL == "" {
		return nil, ErrOAuthNotConfigured
	}
	if apiURL == "" {
		apiURL = defaultBaseURL
	}

	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   apiURL + authorizePath,
			TokenURL:  apiURL + tokenPath,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		RedirectURL: strings.TrimSuffix(baseURL, "/") + redirectPage,
	}

	return &OAuthExchanger{
		config:     cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		tokenURL:   cfg.Endpoint.TokenURL,
	}, nil
}

// AuthURL returns the provider authorization URL for the connect flow.
func (e *OAuthExchanger) AuthURL(state string) string {
	return e.config.AuthCodeURL(state, oauth2.SetAuthURLParam("owner", "user"))
}

// Exchange trades an authorization code for an access token and workspace
// identity.
func (e *OAuthExchanger) Exchange(ctx context.Context, code string) (TokenResult, error) {
	if code == "" {
		return TokenResult{}, errors.New("notion: authorization code is required")
	}

	payload, err := json.Marshal(map[string]string{
		"grant_type":   "authorization_code",
		"code":         code,
		"redirect_uri": e.config.RedirectURL,
	})
	if err != nil {
		return TokenResult{}, fmt.Errorf("encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.tokenURL, bytes.NewReader(payload))
	if err != nil {
		return TokenResult{}, fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(e.config.ClientID, e.config.ClientSecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return TokenResult{}, fmt.Errorf("token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return TokenResult{}, fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		parsed := struct {
			Error string `json:"error"`
		}{}
		_ = json.Unmarshal(raw, &parsed)
		message := parsed.Error
		if message == "" {
			message = fmt.Sprintf("HTTP %d: Failed to exchange code for token", resp.StatusCode)
		}
		return TokenResult{}, &UpstreamError{StatusCode: resp.StatusCode, Message: message}
	}

	var result TokenResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return TokenResult{}, fmt.Errorf("decode token response: %w", err)
	}
	return result, nil
}
