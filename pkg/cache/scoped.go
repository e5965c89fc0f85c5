package cache

import (
	"context"
	"time"
)

// ScopedKeyer wraps a Keyer with a prefix for isolation. The NocoDB endpoint
// scopes its keys by instance host so two servers pointing at different
// NocoDB instances can share one Redis:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "nocodb.example.com:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// TableKey generates a prefixed table-id key.
func (k *ScopedKeyer) TableKey(baseID, tableName string) string {
	return k.prefix + k.inner.TableKey(baseID, tableName)
}

// TablePrefix generates the prefixed invalidation prefix of a base.
func (k *ScopedKeyer) TablePrefix(baseID string) string {
	return k.prefix + k.inner.TablePrefix(baseID)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(graphHash, opts)
}

// ScopedCache prefixes every key before delegating to the wrapped cache.
type ScopedCache struct {
	inner  Cache
	prefix string
}

// NewScopedCache wraps c so all keys live under prefix.
func NewScopedCache(c Cache, prefix string) *ScopedCache {
	return &ScopedCache{inner: c, prefix: prefix}
}

func (s *ScopedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *ScopedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

func (s *ScopedCache) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

func (s *ScopedCache) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	return s.inner.DeletePrefix(ctx, s.prefix+prefix)
}

// Close closes the wrapped cache.
func (s *ScopedCache) Close() error { return s.inner.Close() }

var _ Cache = (*ScopedCache)(nil)
