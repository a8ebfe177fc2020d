package google

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"google.golang.org/api/googleapi"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
)

// WrapError maps a Google API error to the domain error taxonomy.
// Only 401 means the access token was rejected; that is the one status
// a refresh may recover from. 403 carries quota exhaustion or a
// permission rejection, neither fixable by refreshing.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}

	switch gerr.Code {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrNotAuthorized, gerr.Message)
	case http.StatusForbidden:
		if isQuotaReason(gerr) {
			return fmt.Errorf("%w: %s", domain.ErrRateLimited, gerr.Message)
		}
		return fmt.Errorf("%w: %s", domain.ErrForbidden, gerr.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, gerr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, gerr.Message)
	default:
		return fmt.Errorf("%w: calendar request failed with status %d: %s", domain.ErrTransport, gerr.Code, gerr.Message)
	}
}

// Calendar reports quota exhaustion as 403 with one of these reasons
// rather than as 429.
func isQuotaReason(gerr *googleapi.Error) bool {
	for _, item := range gerr.Errors {
		switch item.Reason {
		case "rateLimitExceeded", "userRateLimitExceeded", "dailyLimitExceeded", "quotaExceeded":
			return true
		}
	}
	return false
}

// RetryAfter reports whether err is a rate limit rejection and, if so,
// the provider's requested backoff in seconds (0 when unspecified).
// Covers both 429 and the 403 quota-reason spelling.
func RetryAfter(err error) (int, bool) {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return 0, false
	}
	if gerr.Code != http.StatusTooManyRequests &&
		!(gerr.Code == http.StatusForbidden && isQuotaReason(gerr)) {
		return 0, false
	}

	for _, v := range gerr.Header.Values("Retry-After") {
		if seconds, err := strconv.Atoi(v); err == nil {
			return seconds, true
		}
	}
	return 0, true
}
