package driven

import "context"

// SecretStore persists credential material keyed by stable logical names
// (see domain.SecretKey* constants). Implementations are backed by the
// host's secret-storage facility and provide confidentiality at rest.
//
// There is deliberately no in-memory cache: every read hits the backing
// store, since tokens may be rotated by another process instance.
type SecretStore interface {
	// Put stores a secret under the given key, overwriting any previous
	// value. Backend failures surface as domain.ErrStoreUnavailable.
	Put(ctx context.Context, key, secret string) error

	// Get retrieves a secret. A missing key returns domain.ErrSecretNotFound;
	// callers looking up credentials treat that as "not connected yet".
	Get(ctx context.Context, key string) (string, error)

	// Delete removes a secret. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
