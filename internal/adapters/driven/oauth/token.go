// Package oauth implements the provider token endpoint over HTTP:
// authorization-code exchange and refresh grants.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
	"github.com/infinityjp-maker/urms-sync/internal/core/ports/driven"
)

const defaultTimeout = 30 * time.Second

// Ensure Client implements the interface.
var _ driven.TokenEndpoint = (*Client)(nil)

// Client talks to an OAuth2 token endpoint.
type Client struct {
	resolveURL func() string
	httpClient *http.Client
}

// NewClient creates a token endpoint client for a fixed URL.
func NewClient(tokenURL string) *Client {
	return NewResolvingClient(func() string { return tokenURL })
}

// NewResolvingClient creates a client that resolves the endpoint URL on
// every request, so a configured override takes effect in a running
// process without a restart.
func NewResolvingClient(resolve func() string) *Client {
	return &Client{
		resolveURL: resolve,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Exchange redeems an authorization code plus the PKCE verifier for a
// token set.
func (c *Client) Exchange(ctx context.Context, creds domain.ClientCredentials,
	code, redirectURI, codeVerifier string) (*domain.OAuthToken, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("client_id", creds.ClientID)
	data.Set("client_secret", creds.ClientSecret)
	data.Set("code", code)
	data.Set("redirect_uri", redirectURI)
	if codeVerifier != "" {
		data.Set("code_verifier", codeVerifier)
	}

	return c.post(ctx, data)
}

// Refresh exchanges a refresh token for a new access token. The reply
// may or may not rotate the refresh token; the caller decides what to
// carry forward.
func (c *Client) Refresh(ctx context.Context, creds domain.ClientCredentials,
	refreshToken string) (*domain.OAuthToken, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("client_id", creds.ClientID)
	data.Set("client_secret", creds.ClientSecret)
	data.Set("refresh_token", refreshToken)

	return c.post(ctx, data)
}

func (c *Client) post(ctx context.Context, data url.Values) (*domain.OAuthToken, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolveURL(), strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: token request: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var token domain.OAuthToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("%w: decode token response: %v", domain.ErrInvalidResponse, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: token response has no access token", domain.ErrInvalidResponse)
	}
	if token.ExpiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	return &token, nil
}

// decodeError maps a non-200 token endpoint reply to a domain error.
// invalid_grant means the refresh token or code is dead at the provider
// and a new interactive authorization is the only way forward.
func decodeError(resp *http.Response) error {
	var body struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		return fmt.Errorf("%w: token request failed with status %d", domain.ErrInvalidResponse, resp.StatusCode)
	}

	if body.Error == "invalid_grant" {
		return fmt.Errorf("%w: %s", domain.ErrGrantRevoked, body.Description)
	}
	return fmt.Errorf("%w: token error %s: %s", domain.ErrInvalidResponse, body.Error, body.Description)
}
