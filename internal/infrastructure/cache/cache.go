// Package cache names and invalidates cached aggregates.
//
// Keys follow a fixed naming scheme (family, store, optional sub-dimension)
// so that whole families can be invalidated by pattern when a domain event
// changes the underlying data. Invalidation is advisory and eventually
// consistent: a failed or unsupported pattern delete degrades to a no-op
// and the entry lives until its TTL expires.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired
var ErrCacheMiss = errors.New("cache: key not found")

// ErrPatternUnsupported is returned by backends that cannot enumerate keys
var ErrPatternUnsupported = errors.New("cache: pattern deletion not supported")

// TTL tiers. Fixed named constants chosen per aggregate type, never
// computed dynamically.
const (
	TTLShort    = 1 * time.Minute
	TTLMedium   = 5 * time.Minute
	TTLLong     = 30 * time.Minute
	TTLVeryLong = 6 * time.Hour
)

// Store is the backing cache store. Implementations must support exact-key
// get/set/delete; DeletePattern is required for family-wide invalidation
// and may return ErrPatternUnsupported.
type Store interface {
	// Get returns the raw value for key, or ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with the given TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a single key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error

	// DeletePattern removes all keys matching a glob-style pattern
	DeletePattern(ctx context.Context, pattern string) error
}
