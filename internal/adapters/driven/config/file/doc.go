// Package file provides the TOML-backed configuration store. Values
// are persisted to ~/.urms-sync/config.toml and re-read when the file
// changes on disk, so edits from another process take effect without a
// restart.
package file
