package domain

import "time"

// CalendarEvent is an opaque event record as returned by the provider.
// The subsystem treats each event as an atomic unit of list output and
// does not interpret fields beyond existence.
type CalendarEvent map[string]any

// SyncResult is an ordered sequence of events. Order is the provider
// response order; size is at most the requested maximum.
type SyncResult []CalendarEvent

// SyncRequest describes a single sync invocation.
type SyncRequest struct {
	// CalendarID is the target calendar, e.g. "primary".
	CalendarID string
	// MaxResults is the maximum number of events to fetch. Must be > 0.
	MaxResults int64
}

// Validate checks the request fields.
func (r SyncRequest) Validate() error {
	if r.CalendarID == "" {
		return ErrInvalidInput
	}
	if r.MaxResults <= 0 {
		return ErrInvalidInput
	}
	return nil
}

// SyncTrigger identifies what initiated a sync run.
type SyncTrigger string

// Sync triggers.
const (
	// TriggerManual is a user-initiated sync (CLI invocation).
	TriggerManual SyncTrigger = "manual"
	// TriggerScheduled is a sync started by the background scheduler.
	TriggerScheduled SyncTrigger = "scheduled"
)

// SyncRun records one engine invocation for the history store.
type SyncRun struct {
	// ID is the unique run identifier (UUID).
	ID string `json:"id"`
	// CalendarID is the calendar that was synced.
	CalendarID string `json:"calendar_id"`
	// Trigger is what initiated the run.
	Trigger SyncTrigger `json:"trigger"`
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`
	// EndedAt is when the run finished.
	EndedAt time.Time `json:"ended_at"`
	// ItemCount is the number of events fetched on success.
	ItemCount int `json:"item_count"`
	// Success is true if the run completed without error.
	Success bool `json:"success"`
	// Error holds the failure message for unsuccessful runs.
	Error string `json:"error,omitempty"`
}

// Duration returns the elapsed time of the run.
func (r *SyncRun) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}
