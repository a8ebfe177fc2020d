package driving

import (
	"context"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
)

// Authorizer drives the interactive authorization-code-with-PKCE flow
// and persists the resulting credentials. Only one flow may be in
// flight per account at a time; callers serialize invocations.
type Authorizer interface {
	// Connect runs the full loopback flow: bind, launch browser, await
	// the callback, exchange the code, persist token and client
	// credentials. A missed callback surfaces as
	// domain.ErrAuthorizationTimeout.
	Connect(ctx context.Context, creds domain.ClientCredentials) (*domain.OAuthToken, error)

	// Disconnect removes the stored token and client credentials.
	Disconnect(ctx context.Context) error
}
