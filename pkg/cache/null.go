package cache

import (
	"context"
	"time"
)

// NullCache never stores anything, so every simulation runs fresh. It backs
// --no-cache and the "none" backend.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return NullCache{}
}

// Get always misses.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards data.
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }

var (
	_ Cache = NullCache{}
	_ Cache = (*FileCache)(nil)
	_ Cache = (*RedisCache)(nil)
)
