package driven

import (
	"context"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
)

// SyncRunStore records sync engine invocations for inspection.
type SyncRunStore interface {
	// RecordRun persists one run.
	RecordRun(ctx context.Context, run *domain.SyncRun) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]domain.SyncRun, error)

	// PruneHistory removes all but the most recent keep runs.
	PruneHistory(ctx context.Context, keep int) error
}
