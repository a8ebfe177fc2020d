package driving

import (
	"context"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
)

// SyncService fetches events from the remote calendar, recovering from
// credential expiry with at most one refresh per call.
type SyncService interface {
	Sync(ctx context.Context, req domain.SyncRequest) (domain.SyncResult, error)
}

// KeyedSyncService is the API-key fetch variant, selected at
// construction when the account uses a plain API key instead of an
// OAuth grant.
type KeyedSyncService interface {
	SyncWithKey(ctx context.Context, req domain.SyncRequest) (domain.SyncResult, error)
}
