// Package settingsstore defines the storage contract for fitted spec
// settings (§ SUPPLEMENTED FEATURES "settings store"), so a fitted spec can
// be persisted once and replayed by many extraction workers without
// re-running Aggregate over the training dataset.
package settingsstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no settings are stored under key.
var ErrNotFound = errors.New("settingsstore: key not found")

// Store persists raw, already-marshaled settings JSON keyed by spec name.
type Store interface {
	// Get retrieves the settings JSON stored at key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores settings JSON at key, overwriting any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the settings stored at key. Not an error if absent.
	Delete(ctx context.Context, key string) error

	// List returns every key stored under prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
