package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
	"github.com/infinityjp-maker/urms-sync/internal/core/ports/driven"
	"github.com/infinityjp-maker/urms-sync/internal/core/ports/driving"
)

// Ensure SyncEngine implements the driving interfaces.
var (
	_ driving.SyncService      = (*SyncEngine)(nil)
	_ driving.KeyedSyncService = (*SyncEngine)(nil)
)

// SyncEngine fetches events from the remote calendar using the current
// access token, transparently refreshing it once on authorization
// failure. Retries are bounded to exactly one refresh per call, so the
// engine terminates even under persistent authorization failure.
type SyncEngine struct {
	creds     *CredentialService
	api       driven.CalendarAPI
	keyed     driven.KeyedCalendarAPI
	refresher *RefreshService
	runs      driven.SyncRunStore

	// trigger tags recorded runs; defaults to manual.
	trigger domain.SyncTrigger
}

// runHistoryKeep bounds the stored run history.
const runHistoryKeep = 100

// NewSyncEngine creates a sync engine. runs may be nil, in which case
// no history is recorded.
func NewSyncEngine(
	creds *CredentialService,
	api driven.CalendarAPI,
	keyed driven.KeyedCalendarAPI,
	refresher *RefreshService,
	runs driven.SyncRunStore,
) *SyncEngine {
	return &SyncEngine{
		creds:     creds,
		api:       api,
		keyed:     keyed,
		refresher: refresher,
		runs:      runs,
		trigger:   domain.TriggerManual,
	}
}

// WithTrigger returns a shallow copy that tags recorded runs with the
// given trigger. Used by the scheduler.
func (e *SyncEngine) WithTrigger(trigger domain.SyncTrigger) *SyncEngine {
	clone := *e
	clone.trigger = trigger
	return &clone
}

// Sync fetches events for the request. Algorithm:
//  1. Load the current token; absent means domain.ErrNotAuthorized.
//  2. List events with the access token attached.
//  3. On authorization failure, refresh exactly once and retry once.
//     A second authorization failure is terminal
//     (domain.ErrReauthorizationRequired).
//  4. Any other failure is reported upward, not retried in-call.
func (e *SyncEngine) Sync(ctx context.Context, req domain.SyncRequest) (domain.SyncResult, error) {
	started := time.Now()
	result, err := e.sync(ctx, req)
	e.record(ctx, req, started, result, err)
	return result, err
}

func (e *SyncEngine) sync(ctx context.Context, req domain.SyncRequest) (domain.SyncResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	token, err := e.creds.Token(ctx)
	if err != nil {
		return nil, err
	}

	result, err := e.api.ListEvents(ctx, token.AccessToken, req)
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, domain.ErrNotAuthorized) {
		return nil, err
	}

	// One refresh, one retry. Never loop.
	log.Debug().Str("calendar_id", req.CalendarID).Msg("access token rejected, refreshing")
	fresh, err := e.refresher.Refresh(ctx, token)
	if err != nil {
		if domain.IsReauthorization(err) {
			return nil, domain.ErrReauthorizationRequired
		}
		return nil, err
	}

	result, err = e.api.ListEvents(ctx, fresh.AccessToken, req)
	if errors.Is(err, domain.ErrNotAuthorized) {
		return nil, domain.ErrReauthorizationRequired
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SyncWithKey fetches events with the stored API key. No OAuth grant
// and no refresh path; a rejected key surfaces directly.
func (e *SyncEngine) SyncWithKey(ctx context.Context, req domain.SyncRequest) (domain.SyncResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key, err := e.creds.APIKey(ctx)
	if errors.Is(err, domain.ErrSecretNotFound) {
		return nil, domain.ErrNotAuthorized
	}
	if err != nil {
		return nil, err
	}

	started := time.Now()
	result, err := e.keyed.ListEventsByKey(ctx, key, req)
	e.record(ctx, req, started, result, err)
	return result, err
}

// record writes the run to the history store, best effort.
func (e *SyncEngine) record(
	ctx context.Context,
	req domain.SyncRequest,
	started time.Time,
	result domain.SyncResult,
	runErr error,
) {
	if e.runs == nil {
		return
	}

	run := &domain.SyncRun{
		ID:         uuid.New().String(),
		CalendarID: req.CalendarID,
		Trigger:    e.trigger,
		StartedAt:  started,
		EndedAt:    time.Now(),
		ItemCount:  len(result),
		Success:    runErr == nil,
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}

	if err := e.runs.RecordRun(ctx, run); err != nil {
		log.Warn().Err(err).Msg("failed to record sync run")
		return
	}
	if err := e.runs.PruneHistory(ctx, runHistoryKeep); err != nil {
		log.Warn().Err(err).Msg("failed to prune sync history")
	}
}
