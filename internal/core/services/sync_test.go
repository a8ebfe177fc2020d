package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
)

// engineFixture wires a sync engine over in-memory fakes with a stored
// token.
func engineFixture(t *testing.T, token *domain.OAuthToken) (*SyncEngine, *fakeCalendarAPI, *fakeTokenEndpoint, *CredentialService) {
	t.Helper()

	store := newFakeSecretStore()
	creds := NewCredentialService(store)
	ctx := context.Background()

	require.NoError(t, creds.SaveClient(ctx, domain.ClientCredentials{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
	}))
	if token != nil {
		require.NoError(t, creds.SaveToken(ctx, token))
	}

	api := newFakeCalendarAPI()
	endpoint := &fakeTokenEndpoint{}
	engine := NewSyncEngine(creds, api, api, NewRefreshService(creds, endpoint), nil)
	return engine, api, endpoint, creds
}

func TestSyncEngine_ValidToken_SingleRequest(t *testing.T) {
	engine, api, endpoint, _ := engineFixture(t, &domain.OAuthToken{
		AccessToken:  "A1",
		RefreshToken: "R1",
		TokenType:    "Bearer",
	})
	api.responses["A1"] = events(3)

	result, err := engine.Sync(context.Background(), domain.SyncRequest{CalendarID: "primary", MaxResults: 5})

	require.NoError(t, err)
	assert.Len(t, result, 3)
	assert.Equal(t, 1, api.callCount(), "exactly one list-events request")
	assert.Equal(t, 0, endpoint.refreshCalls, "no refresh call for a valid token")
}

func TestSyncEngine_Unauthorized_RefreshesOnceAndRetries(t *testing.T) {
	engine, api, endpoint, creds := engineFixture(t, &domain.OAuthToken{
		AccessToken:  "A1",
		RefreshToken: "R1",
		TokenType:    "Bearer",
	})
	api.errs["A1"] = domain.ErrNotAuthorized
	api.responses["A2"] = events(2)
	endpoint.refreshTok = &domain.OAuthToken{AccessToken: "A2", TokenType: "Bearer"}

	result, err := engine.Sync(context.Background(), domain.SyncRequest{CalendarID: "primary", MaxResults: 5})

	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, []string{"A1", "A2"}, api.calls, "one refresh, one retry")
	assert.Equal(t, 1, endpoint.refreshCalls)

	// The store now holds the refreshed token, with the previous
	// refresh token carried forward.
	stored, err := creds.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A2", stored.AccessToken)
	assert.Equal(t, "R1", stored.RefreshToken)
}

func TestSyncEngine_SecondUnauthorized_Terminal(t *testing.T) {
	engine, api, endpoint, _ := engineFixture(t, &domain.OAuthToken{
		AccessToken:  "A1",
		RefreshToken: "R1",
		TokenType:    "Bearer",
	})
	api.errs["A1"] = domain.ErrNotAuthorized
	api.errs["A2"] = domain.ErrNotAuthorized
	endpoint.refreshTok = &domain.OAuthToken{AccessToken: "A2", TokenType: "Bearer"}

	_, err := engine.Sync(context.Background(), domain.SyncRequest{CalendarID: "primary", MaxResults: 5})

	assert.ErrorIs(t, err, domain.ErrReauthorizationRequired)
	assert.Equal(t, 1, endpoint.refreshCalls, "refresh is never looped")
	assert.Equal(t, 2, api.callCount())
}

func TestSyncEngine_NoRefreshToken_ImmediateReauth(t *testing.T) {
	engine, api, endpoint, _ := engineFixture(t, &domain.OAuthToken{
		AccessToken: "A1",
		TokenType:   "Bearer",
	})
	api.errs["A1"] = domain.ErrNotAuthorized

	_, err := engine.Sync(context.Background(), domain.SyncRequest{CalendarID: "primary", MaxResults: 5})

	assert.ErrorIs(t, err, domain.ErrReauthorizationRequired)
	assert.Equal(t, 0, endpoint.refreshCalls)
	assert.Equal(t, 1, api.callCount(), "no third network call")
}

func TestSyncEngine_RevokedGrant_Terminal(t *testing.T) {
	engine, api, endpoint, _ := engineFixture(t, &domain.OAuthToken{
		AccessToken:  "A1",
		RefreshToken: "R1",
		TokenType:    "Bearer",
	})
	api.errs["A1"] = domain.ErrNotAuthorized
	endpoint.refreshErr = domain.ErrGrantRevoked

	_, err := engine.Sync(context.Background(), domain.SyncRequest{CalendarID: "primary", MaxResults: 5})

	assert.ErrorIs(t, err, domain.ErrReauthorizationRequired)
	assert.Equal(t, 1, api.callCount(), "no retry after a failed refresh")
}

func TestSyncEngine_Forbidden_NoRefresh(t *testing.T) {
	engine, api, endpoint, _ := engineFixture(t, &domain.OAuthToken{
		AccessToken:  "A1",
		RefreshToken: "R1",
		TokenType:    "Bearer",
	})
	api.errs["A1"] = fmt.Errorf("%w: Rate Limit Exceeded", domain.ErrForbidden)

	_, err := engine.Sync(context.Background(), domain.SyncRequest{CalendarID: "primary", MaxResults: 5})

	// A permission or quota rejection is not a dead token: no refresh
	// is spent on it and the user is not told to reconnect.
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.False(t, domain.IsReauthorization(err))
	assert.Equal(t, 0, endpoint.refreshCalls)
	assert.Equal(t, 1, api.callCount())
}

func TestSyncEngine_NoStoredToken(t *testing.T) {
	engine, api, _, _ := engineFixture(t, nil)

	_, err := engine.Sync(context.Background(), domain.SyncRequest{CalendarID: "primary", MaxResults: 5})

	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	assert.Equal(t, 0, api.callCount())
}

func TestSyncEngine_TransportError_NotRetried(t *testing.T) {
	engine, api, endpoint, _ := engineFixture(t, &domain.OAuthToken{
		AccessToken:  "A1",
		RefreshToken: "R1",
		TokenType:    "Bearer",
	})
	api.errs["A1"] = domain.ErrTransport

	_, err := engine.Sync(context.Background(), domain.SyncRequest{CalendarID: "primary", MaxResults: 5})

	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Equal(t, 1, api.callCount())
	assert.Equal(t, 0, endpoint.refreshCalls)
}

func TestSyncEngine_InvalidRequest(t *testing.T) {
	engine, api, _, _ := engineFixture(t, &domain.OAuthToken{AccessToken: "A1", TokenType: "Bearer"})

	_, err := engine.Sync(context.Background(), domain.SyncRequest{CalendarID: "", MaxResults: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = engine.Sync(context.Background(), domain.SyncRequest{CalendarID: "primary"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Equal(t, 0, api.callCount())
}

func TestSyncEngine_SyncWithKey(t *testing.T) {
	engine, api, _, creds := engineFixture(t, nil)
	require.NoError(t, creds.SaveAPIKey(context.Background(), "k-123"))
	api.responses["k-123"] = events(4)

	result, err := engine.SyncWithKey(context.Background(), domain.SyncRequest{CalendarID: "primary", MaxResults: 5})

	require.NoError(t, err)
	assert.Len(t, result, 4)
	assert.Equal(t, []string{"key:k-123"}, api.calls)
}

func TestSyncEngine_SyncWithKey_NoKey(t *testing.T) {
	engine, api, _, _ := engineFixture(t, nil)

	_, err := engine.SyncWithKey(context.Background(), domain.SyncRequest{CalendarID: "primary", MaxResults: 5})

	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	assert.Equal(t, 0, api.callCount())
}
