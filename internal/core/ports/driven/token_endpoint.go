package driven

import (
	"context"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
)

// TokenEndpoint performs OAuth2 grant exchanges at the provider's token
// endpoint.
type TokenEndpoint interface {
	// Exchange redeems an authorization code plus the PKCE verifier for
	// a token. Exchange failure is terminal for the authorization run:
	// the code is single-use and must not be retried.
	Exchange(ctx context.Context, creds domain.ClientCredentials,
		code, redirectURI, codeVerifier string) (*domain.OAuthToken, error)

	// Refresh exchanges a refresh token for a new access token.
	// Provider rejection (invalid or revoked grant) surfaces as
	// domain.ErrGrantRevoked.
	Refresh(ctx context.Context, creds domain.ClientCredentials,
		refreshToken string) (*domain.OAuthToken, error)
}
