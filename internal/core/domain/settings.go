package domain

import "time"

// Configuration keys. Names match the settings file of the desktop shell
// so either process reads the same values.
const (
	// KeySyncIntervalMinutes is the scheduler interval in minutes.
	// Zero or absent means sync is disabled.
	KeySyncIntervalMinutes = "sync_interval_minutes"

	// KeyCalendarID is the target calendar, e.g. "primary".
	KeyCalendarID = "google_calendar_id"

	// KeyMaxResults is the maximum number of events per sync.
	KeyMaxResults = "max_results"

	// KeyAuthURL overrides the provider authorization endpoint.
	KeyAuthURL = "oauth_auth_url"

	// KeyTokenURL overrides the provider token endpoint.
	KeyTokenURL = "oauth_token_url"

	// KeyScopes overrides the requested OAuth scopes.
	KeyScopes = "oauth_scopes"
)

// Google OAuth and Calendar defaults. Used when the config file carries
// no overrides.
const (
	DefaultAuthURL = "https://accounts.google.com/o/oauth2/v2/auth"
	//nolint:gosec // G101: not credentials, OAuth endpoint URL
	DefaultTokenURL = "https://oauth2.googleapis.com/token"

	// DefaultCalendarID is the account's primary calendar.
	DefaultCalendarID = "primary"

	// DefaultMaxResults matches the desktop shell's event card size.
	DefaultMaxResults = 5
)

// DefaultScopes grant read-only access to calendar events.
var DefaultScopes = []string{"https://www.googleapis.com/auth/calendar.events.readonly"}

// AuthorizationTimeout bounds the wait for the interactive OAuth callback.
const AuthorizationTimeout = 120 * time.Second

// SchedulerFallbackInterval is the sleep used when sync is disabled, so
// re-enabling it in configuration takes effect without a restart.
const SchedulerFallbackInterval = 30 * time.Second

// ProviderConfig is the resolved OAuth provider contract for a run:
// endpoints, scopes and the loopback redirect. Built from configuration
// with Google defaults.
type ProviderConfig struct {
	// AuthURL is the authorization endpoint.
	AuthURL string
	// TokenURL is the token exchange endpoint.
	TokenURL string
	// Scopes are the OAuth scopes to request.
	Scopes []string
}
