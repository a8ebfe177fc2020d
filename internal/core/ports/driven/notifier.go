package driven

import (
	"context"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
)

// Notifier hands a freshly fetched sync result to the long-running
// consumer. The production implementation is a durable file mailbox;
// producer and consumer may be different operating-system processes.
type Notifier interface {
	Publish(ctx context.Context, result domain.SyncResult) error
}

// EventSink receives parsed envelopes on the consumer side and relays
// them to whatever displays them (the GUI event channel, a terminal).
// Delivery is at-least-once; sinks must be idempotent.
type EventSink interface {
	Deliver(ctx context.Context, envelope domain.NotificationEnvelope) error
}
