// Package cache stores simulation results and rendered charts so repeated
// runs with identical options are served without re-running the trials.
//
// Simulations are deterministic for a given set of options (including the
// seed), which makes their results safe to cache by content key. Three
// backends are provided: [FileCache] for the CLI, [RedisCache] for shared
// deployments of the API, and [NullCache] when caching is disabled.
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries.
const (
	// TTLSimulation is how long simulation results are kept.
	TTLSimulation = 7 * 24 * time.Hour

	// TTLChart is how long rendered charts are kept.
	TTLChart = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the cached value and whether it was found. A missing or
	// expired entry is a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}
