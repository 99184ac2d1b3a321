// Package redis implements settingsstore.Store over Redis via rueidis
// (§ AMBIENT STACK, internal/config "settings.driver=redis"), so a fitted
// spec's settings survive process restarts and are shared across
// extraction workers.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/featureflow/internal/settingsstore"
)

// Compile-time check: Store implements settingsstore.Store.
var _ settingsstore.Store = (*Store)(nil)

// Config holds connection parameters for a Redis-backed settings store.
type Config struct {
	Addrs     []string
	Username  string
	Password  string
	DB        int
	KeyPrefix string
}

// Store implements settingsstore.Store via rueidis.
type Store struct {
	client rueidis.Client
	prefix string
}

// NewStore creates a Redis-backed settings store.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("settingsstore/redis: addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("settingsstore/redis: failed to create client: %w", err)
	}

	return &Store{client: client, prefix: cfg.KeyPrefix}, nil
}

// NewStoreForTest constructs a Store around an injected client, for use
// with github.com/redis/rueidis/mock in tests.
func NewStoreForTest(client rueidis.Client) *Store {
	return &Store{client: client, prefix: "test:"}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("settingsstore/redis: ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() { s.client.Close() }

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("settingsstore/redis: timeout waiting for readiness: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// Get implements settingsstore.Store.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.client.B().Get().Key(s.prefix + key).Build()
	data, err := s.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, settingsstore.ErrNotFound
		}
		return nil, fmt.Errorf("settingsstore/redis: get %q: %w", key, err)
	}
	return data, nil
}

// Put implements settingsstore.Store.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	cmd := s.client.B().Set().Key(s.prefix + key).Value(string(value)).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("settingsstore/redis: put %q: %w", key, err)
	}
	return nil
}

// Delete implements settingsstore.Store.
func (s *Store) Delete(ctx context.Context, key string) error {
	cmd := s.client.B().Del().Key(s.prefix + key).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("settingsstore/redis: delete %q: %w", key, err)
	}
	return nil
}

// List implements settingsstore.Store via SCAN, cursoring until exhausted.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	cursor := uint64(0)
	pattern := s.prefix + prefix + "*"

	for {
		cmd := s.client.B().Scan().Cursor(cursor).Match(pattern).Build()
		entry, err := s.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("settingsstore/redis: list %q: %w", prefix, err)
		}
		for _, k := range entry.Elements {
			keys = append(keys, k[len(s.prefix):])
		}
		if entry.Cursor == 0 {
			break
		}
		cursor = entry.Cursor
	}
	return keys, nil
}
