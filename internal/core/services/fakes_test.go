package services

import (
	"context"
	"sync"
	"time"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
)

// fakeSecretStore is an in-memory secret store for tests.
type fakeSecretStore struct {
	mu      sync.Mutex
	secrets map[string]string
	putErr  error
}

func newFakeSecretStore() *fakeSecretStore {
	return &fakeSecretStore{secrets: make(map[string]string)}
}

func (s *fakeSecretStore) Put(_ context.Context, key, secret string) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.secrets[key] = secret
	return nil
}

func (s *fakeSecretStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	secret, ok := s.secrets[key]
	if !ok {
		return "", domain.ErrSecretNotFound
	}
	return secret, nil
}

func (s *fakeSecretStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.secrets, key)
	return nil
}

// fakeCalendarAPI scripts per-token responses and counts calls.
type fakeCalendarAPI struct {
	mu sync.Mutex
	// responses maps access token to the result for that token.
	responses map[string]domain.SyncResult
	// errs maps access token to the error for that token.
	errs  map[string]error
	calls []string
}

func newFakeCalendarAPI() *fakeCalendarAPI {
	return &fakeCalendarAPI{
		responses: make(map[string]domain.SyncResult),
		errs:      make(map[string]error),
	}
}

func (f *fakeCalendarAPI) ListEvents(_ context.Context, accessToken string, _ domain.SyncRequest) (domain.SyncResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, accessToken)
	if err, ok := f.errs[accessToken]; ok {
		return nil, err
	}
	return f.responses[accessToken], nil
}

func (f *fakeCalendarAPI) ListEventsByKey(_ context.Context, apiKey string, _ domain.SyncRequest) (domain.SyncResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "key:"+apiKey)
	if err, ok := f.errs[apiKey]; ok {
		return nil, err
	}
	return f.responses[apiKey], nil
}

func (f *fakeCalendarAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeTokenEndpoint scripts exchange and refresh responses.
type fakeTokenEndpoint struct {
	mu           sync.Mutex
	exchangeTok  *domain.OAuthToken
	exchangeErr  error
	refreshTok   *domain.OAuthToken
	refreshErr   error
	refreshCalls int
}

func (f *fakeTokenEndpoint) Exchange(_ context.Context, _ domain.ClientCredentials,
	_, _, _ string) (*domain.OAuthToken, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.exchangeTok, nil
}

func (f *fakeTokenEndpoint) Refresh(_ context.Context, _ domain.ClientCredentials,
	_ string) (*domain.OAuthToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshTok, nil
}

// fakeNotifier records published results.
type fakeNotifier struct {
	mu        sync.Mutex
	published []domain.SyncResult
}

func (f *fakeNotifier) Publish(_ context.Context, result domain.SyncResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, result)
	return nil
}

// fakeReceiver hands out a scripted code.
type fakeReceiver struct {
	code    string
	err     error
	uri     string
	started bool
	stopped bool
}

func (r *fakeReceiver) Start() error { r.started = true; return nil }

func (r *fakeReceiver) RedirectURI() string { return r.uri }

func (r *fakeReceiver) WaitForCode(time.Duration) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.code, nil
}

func (r *fakeReceiver) Stop() error { r.stopped = true; return nil }

// events builds a result with n opaque items.
func events(n int) domain.SyncResult {
	result := make(domain.SyncResult, 0, n)
	for i := 0; i < n; i++ {
		result = append(result, domain.CalendarEvent{"summary": "event", "sequence": i})
	}
	return result
}
