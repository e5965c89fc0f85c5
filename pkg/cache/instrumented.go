package cache

import (
	"context"
	"time"

	"github.com/matzehuels/mcptools/pkg/observability"
)

// Instrumented reports hits, misses, writes and invalidations to
// [observability.Cache], labelled with a fixed key type such as "table" or
// "artifact".
type Instrumented struct {
	Cache
	keyType string
}

// Instrument wraps c so its operations emit cache hooks under keyType.
func Instrument(c Cache, keyType string) *Instrumented {
	return &Instrumented{Cache: c, keyType: keyType}
}

func (i *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := i.Cache.Get(ctx, key)
	if err != nil {
		return data, hit, err
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, i.keyType)
	} else {
		observability.Cache().OnCacheMiss(ctx, i.keyType)
	}
	return data, hit, nil
}

func (i *Instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := i.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, i.keyType, len(data))
	return nil
}

func (i *Instrumented) Delete(ctx context.Context, key string) error {
	if err := i.Cache.Delete(ctx, key); err != nil {
		return err
	}
	observability.Cache().OnCacheInvalidate(ctx, i.keyType)
	return nil
}

func (i *Instrumented) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	n, err := i.Cache.DeletePrefix(ctx, prefix)
	if err == nil {
		observability.Cache().OnCacheInvalidate(ctx, i.keyType)
	}
	return n, err
}

var _ Cache = (*Instrumented)(nil)
