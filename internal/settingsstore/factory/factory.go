// Package factory builds a settingsstore.Store from configuration. It lives
// outside package settingsstore because it imports both the memory and
// redis driver packages, which themselves import settingsstore.Store.
package factory

import (
	"fmt"

	"github.com/kailas-cloud/featureflow/internal/config"
	"github.com/kailas-cloud/featureflow/internal/settingsstore"
	"github.com/kailas-cloud/featureflow/internal/settingsstore/memory"
	"github.com/kailas-cloud/featureflow/internal/settingsstore/redis"
)

// New builds the settings Store selected by cfg.Driver ("memory" or
// "redis"). config.Config.Validate already rejects any other driver value
// before this is ever called.
func New(cfg config.SettingsConfig) (settingsstore.Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return memory.New(), nil
	case "redis":
		store, err := redis.NewStore(redis.Config{
			Addrs:     cfg.Addrs,
			Password:  cfg.Password,
			KeyPrefix: cfg.KeyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("settingsstore: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("settingsstore: unknown driver %q", cfg.Driver)
	}
}
