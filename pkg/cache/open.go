package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by [Open].
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists the valid backend names.
var Backends = []string{BackendNone, BackendMemory, BackendFile, BackendRedis, BackendMongo}

// Config selects and configures a cache backend.
type Config struct {
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir"`        // file backend
	URL        string `toml:"url"`        // redis or mongo connection string
	Database   string `toml:"database"`   // mongo
	Collection string `toml:"collection"` // mongo
}

// Open builds the backend named by cfg.Backend. An empty name selects the
// in-memory cache.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryCache(), nil
	case BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		dir := cfg.Dir
		if dir == "" {
			dir = DefaultDir()
		}
		return NewFileCache(dir)
	case BackendRedis:
		if cfg.URL == "" {
			return nil, fmt.Errorf("redis cache: url is required")
		}
		return NewRedisCache(ctx, cfg.URL)
	case BackendMongo:
		if cfg.URL == "" {
			return nil, fmt.Errorf("mongo cache: url is required")
		}
		return NewMongoCache(ctx, cfg.URL, cfg.Database, cfg.Collection)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
