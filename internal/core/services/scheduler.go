package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
	"github.com/infinityjp-maker/urms-sync/internal/core/ports/driven"
	"github.com/infinityjp-maker/urms-sync/internal/core/ports/driving"
)

// Scheduler triggers the sync engine at a configurable interval and
// hands successful results to the notification bridge. The interval is
// re-read from configuration every cycle, so changes take effect on the
// next tick without a restart. The loop survives arbitrarily many
// consecutive failures; it stops only with its context.
type Scheduler struct {
	config   driven.ConfigStore
	syncSvc  driving.SyncService
	notifier driven.Notifier

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewScheduler creates a scheduler.
func NewScheduler(config driven.ConfigStore, syncSvc driving.SyncService, notifier driven.Notifier) *Scheduler {
	return &Scheduler{
		config:   config,
		syncSvc:  syncSvc,
		notifier: notifier,
	}
}

// Start begins the scheduler loop. This method blocks until Stop is
// called or the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	for {
		interval := s.interval()
		if interval == 0 {
			// Sync disabled; sleep briefly and re-check so enabling
			// it in configuration takes effect.
			if !sleep(ctx, stopCh, domain.SchedulerFallbackInterval) {
				return ctx.Err()
			}
			continue
		}

		s.tick(ctx)

		if !sleep(ctx, stopCh, interval) {
			return ctx.Err()
		}
	}
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false
	close(s.stopCh)
	return nil
}

// interval reads the configured interval; zero means disabled.
func (s *Scheduler) interval() time.Duration {
	minutes := s.config.GetInt(domain.KeySyncIntervalMinutes)
	if minutes <= 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}

// tick runs one sync cycle. Failures are logged, never fatal: the next
// scheduled tick is the retry.
func (s *Scheduler) tick(ctx context.Context) {
	req := domain.SyncRequest{
		CalendarID: s.config.GetString(domain.KeyCalendarID),
		MaxResults: int64(s.config.GetInt(domain.KeyMaxResults)),
	}
	if req.CalendarID == "" {
		req.CalendarID = domain.DefaultCalendarID
	}
	if req.MaxResults <= 0 {
		req.MaxResults = domain.DefaultMaxResults
	}

	result, err := s.syncSvc.Sync(ctx, req)
	if err != nil {
		if domain.IsReauthorization(err) {
			log.Warn().Err(err).Msg("sync needs reauthorization; reconnect your account")
		} else {
			log.Error().Err(err).Str("calendar_id", req.CalendarID).Msg("scheduled sync failed")
		}
		return
	}

	log.Info().Int("events", len(result)).Str("calendar_id", req.CalendarID).Msg("sync complete")

	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, result); err != nil {
		log.Error().Err(err).Msg("failed to publish sync result")
	}
}

// sleep waits for d, returning false if the context or scheduler was
// stopped first.
func sleep(ctx context.Context, stopCh <-chan struct{}, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-stopCh:
		return false
	case <-timer.C:
		return true
	}
}
