// Package secrets stores credentials in the operating system keyring.
package secrets

import (
	"context"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
	"github.com/infinityjp-maker/urms-sync/internal/core/ports/driven"
)

// keyringService is the OS keyring service name. Shared with the
// desktop shell so both processes read the same entries.
const keyringService = "URMS"

// Ensure KeyringStore implements the interface.
var _ driven.SecretStore = (*KeyringStore)(nil)

// KeyringStore is a SecretStore backed by the OS keyring
// (Keychain on macOS, Secret Service on Linux, Credential Manager
// on Windows). Secrets never touch plain files.
type KeyringStore struct {
	service string
}

// NewKeyringStore creates a keyring-backed secret store.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: keyringService}
}

// Put stores a secret under the given key, replacing any previous value.
func (s *KeyringStore) Put(ctx context.Context, key, secret string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := keyring.Set(s.service, key, secret); err != nil {
		return fmt.Errorf("%w: set %s: %v", domain.ErrStoreUnavailable, key, err)
	}
	return nil
}

// Get retrieves a secret. A missing entry is domain.ErrSecretNotFound;
// anything else means the keyring itself is unusable.
func (s *KeyringStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	secret, err := keyring.Get(s.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", domain.ErrSecretNotFound, key)
		}
		return "", fmt.Errorf("%w: get %s: %v", domain.ErrStoreUnavailable, key, err)
	}
	return secret, nil
}

// Delete removes a secret. Deleting a missing entry is not an error.
func (s *KeyringStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := keyring.Delete(s.service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%w: delete %s: %v", domain.ErrStoreUnavailable, key, err)
	}
	return nil
}
