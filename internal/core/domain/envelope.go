package domain

import "time"

// NotificationEnvelope is a snapshot of the latest sync result as read
// from the shared data file by the watcher. The producer and consumer
// may be different operating-system processes; hand-off is expressed
// purely through file presence and modification time.
type NotificationEnvelope struct {
	// Events is the sync result parsed from the data file.
	Events SyncResult
	// WrittenAt is the data file's modification time at read.
	WrittenAt time.Time
	// Doorbell is true when the marker file triggered this delivery
	// rather than an observed modification-time change.
	Doorbell bool
}
