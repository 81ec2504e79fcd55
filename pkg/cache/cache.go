// Package cache stores parsed puzzles and conversion results so repeated
// work on the same input is skipped.
//
// Entries are addressed by content: a [Keyer] derives keys from a BLAKE3
// hash of the input document and the options that affect the result, so
// an edited file can never hit a stale entry.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for servers
//   - [NullCache]: stores nothing, for --no-cache
//
// # Usage
//
//	c, err := cache.NewFileCache(dir)
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.PuzzleKey(cache.Hash(data), codec.FormatIPuz)
//	if blob, ok, _ := c.Get(ctx, key); ok {
//	    // decode blob
//	}
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long entries live when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}
