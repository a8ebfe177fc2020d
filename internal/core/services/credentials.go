package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
	"github.com/infinityjp-maker/urms-sync/internal/core/ports/driven"
)

// CredentialService manages token and client-identity state in the
// secret store. It is the sole writer of that state; callers hold an
// injected handle rather than a global.
type CredentialService struct {
	store driven.SecretStore
}

// NewCredentialService creates a credential service over a secret store.
func NewCredentialService(store driven.SecretStore) *CredentialService {
	return &CredentialService{store: store}
}

// SaveToken persists the current token, overwriting any previous one.
func (s *CredentialService) SaveToken(ctx context.Context, token *domain.OAuthToken) error {
	if token == nil || token.AccessToken == "" {
		return domain.ErrInvalidInput
	}
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	return s.store.Put(ctx, domain.SecretKeyToken, string(data))
}

// Token loads the current token. Returns domain.ErrNotAuthorized when
// no token is stored.
func (s *CredentialService) Token(ctx context.Context) (*domain.OAuthToken, error) {
	raw, err := s.store.Get(ctx, domain.SecretKeyToken)
	if errors.Is(err, domain.ErrSecretNotFound) {
		return nil, domain.ErrNotAuthorized
	}
	if err != nil {
		return nil, err
	}

	var token domain.OAuthToken
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		return nil, fmt.Errorf("decode stored token: %w", err)
	}
	if token.AccessToken == "" {
		return nil, domain.ErrNotAuthorized
	}
	return &token, nil
}

// SaveClient persists the OAuth application credentials needed for
// later refresh grants.
func (s *CredentialService) SaveClient(ctx context.Context, creds domain.ClientCredentials) error {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return domain.ErrInvalidInput
	}
	if err := s.store.Put(ctx, domain.SecretKeyClientID, creds.ClientID); err != nil {
		return err
	}
	return s.store.Put(ctx, domain.SecretKeyClientSecret, creds.ClientSecret)
}

// Client loads the stored OAuth application credentials.
func (s *CredentialService) Client(ctx context.Context) (domain.ClientCredentials, error) {
	id, err := s.store.Get(ctx, domain.SecretKeyClientID)
	if err != nil {
		return domain.ClientCredentials{}, err
	}
	secret, err := s.store.Get(ctx, domain.SecretKeyClientSecret)
	if err != nil {
		return domain.ClientCredentials{}, err
	}
	return domain.ClientCredentials{ClientID: id, ClientSecret: secret}, nil
}

// SaveAPIKey persists the plain API key for the key-based fetch variant.
func (s *CredentialService) SaveAPIKey(ctx context.Context, key string) error {
	if key == "" {
		return domain.ErrInvalidInput
	}
	return s.store.Put(ctx, domain.SecretKeyAPIKey, key)
}

// APIKey loads the stored API key.
func (s *CredentialService) APIKey(ctx context.Context) (string, error) {
	return s.store.Get(ctx, domain.SecretKeyAPIKey)
}

// Clear removes all stored credential material: token, client identity
// and API key. Missing keys are not an error.
func (s *CredentialService) Clear(ctx context.Context) error {
	keys := []string{
		domain.SecretKeyToken,
		domain.SecretKeyClientID,
		domain.SecretKeyClientSecret,
		domain.SecretKeyAPIKey,
	}
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}
