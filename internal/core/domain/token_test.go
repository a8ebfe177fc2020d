package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOAuthToken_IsExpired(t *testing.T) {
	tests := []struct {
		name    string
		expiry  time.Time
		expired bool
	}{
		{"zero expiry never expires", time.Time{}, false},
		{"future expiry", time.Now().Add(time.Hour), false},
		{"past expiry", time.Now().Add(-time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := &OAuthToken{AccessToken: "A1", Expiry: tt.expiry}
			assert.Equal(t, tt.expired, token.IsExpired())
		})
	}
}

func TestOAuthToken_HasRefreshToken(t *testing.T) {
	token := &OAuthToken{AccessToken: "A1"}
	assert.False(t, token.HasRefreshToken())

	token.RefreshToken = "R1"
	assert.True(t, token.HasRefreshToken())
}

func TestOAuthToken_JSONRoundTrip(t *testing.T) {
	original := OAuthToken{
		AccessToken:  "ya29.sample",
		RefreshToken: "1//refresh",
		TokenType:    "Bearer",
		ExpiresIn:    3600,
		Scope:        "https://www.googleapis.com/auth/calendar.events.readonly",
		Expiry:       time.Now().Add(time.Hour).Truncate(time.Second),
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var restored OAuthToken
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, original.AccessToken, restored.AccessToken)
	assert.Equal(t, original.RefreshToken, restored.RefreshToken)
	assert.Equal(t, original.TokenType, restored.TokenType)
	assert.Equal(t, original.ExpiresIn, restored.ExpiresIn)
	assert.Equal(t, original.Scope, restored.Scope)
	assert.True(t, original.Expiry.Equal(restored.Expiry))
}

func TestOAuthToken_ZeroExpiryOmitted(t *testing.T) {
	data, err := json.Marshal(OAuthToken{AccessToken: "A1", TokenType: "Bearer"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "expiry")
}

func TestSyncRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     SyncRequest
		wantErr bool
	}{
		{"valid", SyncRequest{CalendarID: "primary", MaxResults: 5}, false},
		{"missing calendar", SyncRequest{MaxResults: 5}, true},
		{"zero max results", SyncRequest{CalendarID: "primary"}, true},
		{"negative max results", SyncRequest{CalendarID: "primary", MaxResults: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsReauthorization(t *testing.T) {
	assert.True(t, IsReauthorization(ErrReauthorizationRequired))
	assert.True(t, IsReauthorization(ErrGrantRevoked))
	assert.True(t, IsReauthorization(ErrNotAuthorized))
	assert.False(t, IsReauthorization(ErrTransport))
	assert.False(t, IsReauthorization(nil))
}
