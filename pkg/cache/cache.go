// Package cache provides the key/value cache behind NocoDB table-id lookups
// and rendered diagram artifacts.
//
// # Backends
//
//   - [NullCache]: caching disabled
//   - [MemoryCache]: in-process map, the default for a single server
//   - [FileCache]: JSON files on disk, used by the CLI
//   - [RedisCache]: shared cache for multi-instance deployments
//   - [MongoCache]: shared cache in a MongoDB collection
//
// Use [Open] to build the backend named in configuration.
//
// # Keys
//
// Keys are produced by a [Keyer] so every component agrees on the layout:
//
//	k := cache.NewDefaultKeyer()
//	k.TableKey("p_base", "Customers")  // "nocodb:table:p_base:Customers"
//	k.TablePrefix("p_base")            // "nocodb:table:p_base:"
//
// [ScopedKeyer] prefixes every key, so several NocoDB instances can share a
// Redis or Mongo backend without colliding.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and whether it was found. Expired entries
	// are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key starting with prefix and reports how
	// many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	// Close releases backend resources.
	Close() error
}
