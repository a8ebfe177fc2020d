package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
	"github.com/infinityjp-maker/urms-sync/internal/core/ports/driven"
	"github.com/infinityjp-maker/urms-sync/internal/core/ports/driving"
)

// Ensure AuthorizeService implements the interface.
var _ driving.Authorizer = (*AuthorizeService)(nil)

// AuthorizeService drives the interactive authorization-code-with-PKCE
// exchange: loopback listener, system browser, code exchange,
// credential persistence. One flow per invocation; callers serialize.
type AuthorizeService struct {
	creds       *CredentialService
	endpoint    driven.TokenEndpoint
	config      driven.ConfigStore
	newReceiver driven.CodeReceiverFactory
	openBrowser driven.BrowserOpener
	timeout     time.Duration
}

// NewAuthorizeService creates an authorize service.
func NewAuthorizeService(
	creds *CredentialService,
	endpoint driven.TokenEndpoint,
	config driven.ConfigStore,
	newReceiver driven.CodeReceiverFactory,
	openBrowser driven.BrowserOpener,
) *AuthorizeService {
	return &AuthorizeService{
		creds:       creds,
		endpoint:    endpoint,
		config:      config,
		newReceiver: newReceiver,
		openBrowser: openBrowser,
		timeout:     domain.AuthorizationTimeout,
	}
}

// Connect runs the full loopback flow and persists the resulting token
// and client credentials. The browser launch is best effort; the
// authorization URL is logged so the user can open it manually.
func (s *AuthorizeService) Connect(ctx context.Context, client domain.ClientCredentials) (*domain.OAuthToken, error) {
	if client.ClientID == "" || client.ClientSecret == "" {
		return nil, domain.ErrInvalidInput
	}

	verifier, err := generateCodeVerifier()
	if err != nil {
		return nil, fmt.Errorf("generate code verifier: %w", err)
	}
	challenge := generateCodeChallenge(verifier)

	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}

	receiver := s.newReceiver(state)
	if err := receiver.Start(); err != nil {
		return nil, fmt.Errorf("start callback listener: %w", err)
	}
	defer receiver.Stop() //nolint:errcheck // shutdown is best effort

	provider := ResolveProviderConfig(s.config)
	authURL := buildAuthURL(provider, client.ClientID, receiver.RedirectURI(), state, challenge)

	if err := s.openBrowser(authURL); err != nil {
		log.Warn().Err(err).Msg("could not open browser, open the URL manually")
	}
	log.Info().Str("url", authURL).Msg("waiting for authorization in browser")

	code, err := receiver.WaitForCode(s.timeout)
	if err != nil {
		return nil, err
	}

	token, err := s.endpoint.Exchange(ctx, client, code, receiver.RedirectURI(), verifier)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	// Client credentials are stored alongside the token: the refresh
	// manager needs them later, possibly in a different process.
	if err := s.creds.SaveClient(ctx, client); err != nil {
		return nil, fmt.Errorf("save client credentials: %w", err)
	}
	if err := s.creds.SaveToken(ctx, token); err != nil {
		return nil, fmt.Errorf("save token: %w", err)
	}

	log.Info().Msg("account connected")
	return token, nil
}

// Disconnect removes all stored credential material.
func (s *AuthorizeService) Disconnect(ctx context.Context) error {
	return s.creds.Clear(ctx)
}

// buildAuthURL constructs the provider authorization URL.
// access_type=offline and prompt=consent ask Google for a refresh
// token on every connect, not only the first.
func buildAuthURL(provider domain.ProviderConfig, clientID, redirectURI, state, challenge string) string {
	params := url.Values{
		"response_type":         {"code"},
		"client_id":             {clientID},
		"redirect_uri":          {redirectURI},
		"scope":                 {strings.Join(provider.Scopes, " ")},
		"state":                 {state},
		"code_challenge":        {challenge},
		"code_challenge_method": {"S256"},
		"access_type":           {"offline"},
		"prompt":                {"consent"},
	}
	return provider.AuthURL + "?" + params.Encode()
}

// ResolveProviderConfig reads the provider contract from configuration,
// falling back to the Google defaults for anything unset.
func ResolveProviderConfig(config driven.ConfigStore) domain.ProviderConfig {
	provider := domain.ProviderConfig{
		AuthURL:  domain.DefaultAuthURL,
		TokenURL: domain.DefaultTokenURL,
		Scopes:   domain.DefaultScopes,
	}
	if config == nil {
		return provider
	}

	if v := config.GetString(domain.KeyAuthURL); v != "" {
		provider.AuthURL = v
	}
	if v := config.GetString(domain.KeyTokenURL); v != "" {
		provider.TokenURL = v
	}
	if v := config.GetStringSlice(domain.KeyScopes); len(v) > 0 {
		provider.Scopes = v
	}
	return provider
}
