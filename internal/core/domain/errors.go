package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Authentication errors.

	// ErrNotAuthorized indicates no token is stored; the user must run
	// the interactive authorization flow first.
	ErrNotAuthorized = errors.New("not authorized: connect your account first")

	// ErrAuthorizationTimeout indicates the interactive flow received
	// no provider callback within the allotted time.
	ErrAuthorizationTimeout = errors.New("authorization timed out waiting for callback")

	// ErrReauthorizationRequired indicates the stored grant can no longer
	// be refreshed. Terminal and user-actionable; never auto-retried.
	ErrReauthorizationRequired = errors.New("reauthorization required: reconnect your account")

	// ErrGrantRevoked indicates the provider rejected the refresh token.
	// Callers must treat it as reauthorization-required.
	ErrGrantRevoked = errors.New("grant revoked by provider")

	// Provider errors.

	// ErrTransport indicates a network-level failure, possibly transient.
	ErrTransport = errors.New("transport failure")

	// ErrForbidden indicates the provider rejected the call for a reason
	// a token refresh cannot fix: the grant lacks the required scope or
	// the calendar is not shared with the account.
	ErrForbidden = errors.New("forbidden: insufficient permissions")

	// ErrInvalidResponse indicates a malformed or unexpected provider payload.
	ErrInvalidResponse = errors.New("invalid provider response")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Secret store errors.

	// ErrSecretNotFound indicates the requested secret is not in the store.
	// During credential lookup callers treat this as "not connected yet".
	ErrSecretNotFound = errors.New("secret not found")

	// ErrStoreUnavailable indicates the credential backend could not be
	// reached (locked store, permission denied). Never silently swallowed
	// for writes.
	ErrStoreUnavailable = errors.New("credential store unavailable")
)

// IsReauthorization returns true for the terminal authorization-failure
// class of errors that must surface to the user instead of being retried.
func IsReauthorization(err error) bool {
	return errors.Is(err, ErrReauthorizationRequired) ||
		errors.Is(err, ErrGrantRevoked) ||
		errors.Is(err, ErrNotAuthorized)
}
