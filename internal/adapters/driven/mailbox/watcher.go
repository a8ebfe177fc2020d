package mailbox

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
	"github.com/infinityjp-maker/urms-sync/internal/core/ports/driven"
)

// DefaultPollInterval is how often the watcher checks the mailbox when
// no filesystem events arrive.
const DefaultPollInterval = 2 * time.Second

// Watcher consumes the mailbox: on every poll it checks whether the
// data file's modification time moved past its bookmark or the
// doorbell marker exists, and on either signal parses the data file
// and delivers it to the sink.
//
// Polling is the correctness mechanism; filesystem notifications only
// shorten the latency between a write and the next check. Two signals
// are needed because mtime comparison alone is unreliable across
// processes on filesystems with coarse timestamp resolution.
type Watcher struct {
	dir      string
	sink     driven.EventSink
	interval time.Duration

	// lastMod is the bookmark: the data file mtime at the last
	// successful delivery. Not advanced on parse or delivery failure,
	// so a corrected rewrite is retried on the next poll.
	lastMod time.Time
}

// NewWatcher creates a watcher over the given mailbox directory
// delivering to sink. An empty dir uses DefaultDirName; a
// non-positive interval uses DefaultPollInterval.
func NewWatcher(dir string, sink driven.EventSink, interval time.Duration) *Watcher {
	if dir == "" {
		dir = DefaultDirName
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		dir:      dir,
		sink:     sink,
		interval: interval,
	}
}

// Run polls the mailbox until the context is cancelled. Malformed
// payloads are logged and never stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}

	// A notify watch on the mailbox directory wakes the loop early
	// when the producer writes. Failure to establish it degrades to
	// plain polling.
	var wake <-chan fsnotify.Event
	fsw, err := fsnotify.NewWatcher()
	if err == nil {
		defer fsw.Close()
		if err := fsw.Add(w.dir); err != nil {
			log.Debug().Err(err).Str("dir", w.dir).Msg("mailbox notify watch unavailable, polling only")
		} else {
			wake = fsw.Events
		}
	} else {
		log.Debug().Err(err).Msg("mailbox notify watch unavailable, polling only")
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.Check(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case event := <-wake:
			if !w.relevant(event.Name) {
				continue
			}
		}
	}
}

// Check performs one poll of the mailbox.
func (w *Watcher) Check(ctx context.Context) {
	dataPath := filepath.Join(w.dir, DataFileName)
	markerPath := filepath.Join(w.dir, MarkerFileName)

	doorbell := false
	if _, err := os.Stat(markerPath); err == nil {
		doorbell = true
	}

	var modTime time.Time
	info, err := os.Stat(dataPath)
	if err == nil {
		modTime = info.ModTime()
	}

	changed := err == nil && modTime.After(w.lastMod)
	if !changed && !doorbell {
		return
	}
	if err != nil {
		// Marker without a data file: a half-finished publish. Leave
		// the marker so the completed write is picked up next poll.
		log.Debug().Str("path", dataPath).Msg("doorbell rung but no data file yet")
		return
	}

	payload, err := os.ReadFile(dataPath)
	if err != nil {
		log.Error().Err(err).Str("path", dataPath).Msg("failed to read events file")
		return
	}

	var events domain.SyncResult
	if err := json.Unmarshal(payload, &events); err != nil {
		// Bookmark stays put: a corrected rewrite bumps the mtime and
		// is retried on the next poll.
		log.Error().Err(err).Str("path", dataPath).Msg("malformed events file, skipping")
		return
	}

	envelope := domain.NotificationEnvelope{
		Events:    events,
		WrittenAt: modTime,
		Doorbell:  doorbell,
	}
	if err := w.sink.Deliver(ctx, envelope); err != nil {
		log.Error().Err(err).Msg("failed to deliver events")
		return
	}

	w.lastMod = modTime
	if doorbell {
		if err := os.Remove(markerPath); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", markerPath).Msg("failed to clear marker")
		}
	}

	log.Debug().Int("events", len(events)).Bool("doorbell", doorbell).Msg("delivered sync result")
}

// relevant reports whether a filesystem event path is one of ours.
func (w *Watcher) relevant(name string) bool {
	base := filepath.Base(name)
	return base == DataFileName || base == MarkerFileName
}
