// Package mailbox implements the cross-process notification bridge: a
// pretty-printed JSON data file plus a doorbell marker whose presence
// signals new data. The producer and consumer are typically different
// operating-system processes; all hand-off goes through the
// filesystem.
package mailbox

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/infinityjp-maker/urms-sync/internal/core/domain"
	"github.com/infinityjp-maker/urms-sync/internal/core/ports/driven"
)

const (
	// DataFileName is the shared events document.
	DataFileName = "calendar_events.json"
	// MarkerFileName is the doorbell; its existence is the signal.
	MarkerFileName = "calendar_emit.trigger"
	// DefaultDirName is the mailbox directory relative to the working
	// directory, shared with the consuming desktop shell.
	DefaultDirName = "data"
)

// Ensure Producer implements the interface.
var _ driven.Notifier = (*Producer)(nil)

// Producer writes sync results to the shared mailbox. The data file is
// written to a temporary name and renamed into place, so a reader
// never observes a torn document; the marker is dropped only after the
// data file is complete.
type Producer struct {
	dir string
}

// NewProducer creates a producer for the given mailbox directory.
// An empty dir uses DefaultDirName.
func NewProducer(dir string) *Producer {
	if dir == "" {
		dir = DefaultDirName
	}
	return &Producer{dir: dir}
}

// DataPath returns the path of the events document.
func (p *Producer) DataPath() string {
	return filepath.Join(p.dir, DataFileName)
}

// MarkerPath returns the path of the doorbell marker.
func (p *Producer) MarkerPath() string {
	return filepath.Join(p.dir, MarkerFileName)
}

// Publish writes the result to the data file and rings the doorbell.
// A nil result publishes an empty array; consumers distinguish "no
// events" from "no new data" by the marker, not the payload.
func (p *Producer) Publish(ctx context.Context, result domain.SyncResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return fmt.Errorf("create mailbox directory: %w", err)
	}

	if result == nil {
		result = domain.SyncResult{}
	}
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}

	if err := p.writeAtomic(p.DataPath(), payload); err != nil {
		return fmt.Errorf("write events file: %w", err)
	}

	if err := os.WriteFile(p.MarkerPath(), []byte{}, 0644); err != nil {
		return fmt.Errorf("write marker file: %w", err)
	}

	log.Debug().Int("events", len(result)).Str("path", p.DataPath()).Msg("published sync result")
	return nil
}

// writeAtomic writes data to a temp file in the same directory and
// renames it over the target.
func (p *Producer) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(p.dir, DataFileName+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
