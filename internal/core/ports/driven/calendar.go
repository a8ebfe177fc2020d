package driven

import (
	"context"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
)

// CalendarAPI lists events from the remote calendar with an explicit
// access token attached per call. Token refresh is the caller's concern;
// an authorization failure surfaces as domain.ErrNotAuthorized so the
// sync engine can apply its single-refresh-then-retry policy.
type CalendarAPI interface {
	ListEvents(ctx context.Context, accessToken string, req domain.SyncRequest) (domain.SyncResult, error)
}

// KeyedCalendarAPI is the API-key fetch variant: no OAuth grant, no
// refresh path. Selected at construction, not at call time.
type KeyedCalendarAPI interface {
	ListEventsByKey(ctx context.Context, apiKey string, req domain.SyncRequest) (domain.SyncResult, error)
}
