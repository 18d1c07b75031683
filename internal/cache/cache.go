// Package cache stores memoized calculation results keyed on their inputs.
package cache

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/iwvelando/loan-calculator/internal/config"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/redis/go-redis/v9"
)

// Store is a key/value store for encoded results.
type Store interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key. A zero ttl keeps the entry until evicted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// New builds the store selected by cfg. It returns a nil Store when caching
// is disabled.
func New(cfg config.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case "", constants.CacheBackendNone:
		return nil, nil
	case constants.CacheBackendMemory:
		return NewMemoryStore(cfg.MaxEntries), nil
	case constants.CacheBackendRedis:
		if cfg.Address == "" {
			return nil, fmt.Errorf("redis cache requires an address")
		}
		return NewRedisStore(&redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Backend)
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Check verifies that store can be reached. Stores without a remote
// connection always pass.
func Check(ctx context.Context, store Store) error {
	if p, ok := store.(pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Close releases the connections held by store, if any.
func Close(store Store) error {
	if c, ok := store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
