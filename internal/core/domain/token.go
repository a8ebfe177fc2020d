package domain

import "time"

// OAuthToken represents the stored OAuth credentials for the connected
// account. There is exactly one current token per account; the secret
// store is the single source of truth for it.
type OAuthToken struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken is used to obtain new access tokens.
	// A token without one can be replaced but never refreshed.
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type"`
	// ExpiresIn is the access token lifetime in seconds as reported
	// by the provider at issue time.
	ExpiresIn int `json:"expires_in,omitempty"`
	// Scope is the space-separated scopes granted by the provider.
	Scope string `json:"scope,omitempty"`
	// Expiry is when the access token expires.
	Expiry time.Time `json:"expiry,omitzero"`
}

// IsExpired returns true if the access token has expired.
func (t *OAuthToken) IsExpired() bool {
	if t.Expiry.IsZero() {
		return false
	}
	return time.Now().After(t.Expiry)
}

// HasRefreshToken returns true if a refresh token is available.
func (t *OAuthToken) HasRefreshToken() bool {
	return t.RefreshToken != ""
}

// ClientCredentials identify the OAuth application at the provider.
// Written once during authorization, read again for refresh grants.
// Never logged and never serialized into event payloads.
type ClientCredentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// Secret store keys. Stable logical names shared with the desktop shell,
// so either process can read credentials the other wrote.
const (
	// SecretKeyToken holds the current OAuthToken as a JSON document.
	SecretKeyToken = "google_oauth_token"
	// SecretKeyClientID holds the OAuth application client ID.
	SecretKeyClientID = "google_oauth_client_id"
	// SecretKeyClientSecret holds the OAuth application client secret.
	SecretKeyClientSecret = "google_oauth_client_secret"
	// SecretKeyAPIKey holds the plain API key for the key-based fetch variant.
	SecretKeyAPIKey = "google_api_key"
)
