// Package memory implements an in-process settingsstore.Store, the default
// driver for tests and single-process deployments (§ AMBIENT STACK,
// internal/config "settings.driver=memory").
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/kailas-cloud/featureflow/internal/settingsstore"
)

// Store is a mutex-guarded map implementing settingsstore.Store.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Get implements settingsstore.Store.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, settingsstore.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put implements settingsstore.Store.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete implements settingsstore.Store.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// List implements settingsstore.Store.
func (s *Store) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}
