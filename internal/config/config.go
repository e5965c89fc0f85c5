// Package config loads the mcptools server configuration.
//
// Values are layered: built-in defaults, then the TOML file, then
// environment variables. Command-line flags are applied last by the caller.
//
//	[server]
//	host = "0.0.0.0"
//	port = 8000
//	transport = "http"
//
//	[nocodb]
//	url = "https://app.nocodb.com"
//	token = "..."
//	table_ttl = "1h"
//
//	[cache]
//	backend = "redis"
//	url = "redis://localhost:6379/0"
//
//	[drawings]
//	default_preset = "corporate"
//	[drawings.presets.corporate]
//	extends = "professional"
//	[drawings.presets.corporate.roles.company]
//	fill = "#112233"
//	stroke = "#000000"
//	text = "white"
package config

import (
	"net"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mcptools/pkg/cache"
	"github.com/matzehuels/mcptools/pkg/errors"
	"github.com/matzehuels/mcptools/pkg/integrations/nocodb"
	"github.com/matzehuels/mcptools/pkg/render/orgchart/styles"
)

const appName = "mcptools"

// Transports.
const (
	TransportHTTP       = "http" // streamable HTTP and SSE
	TransportStreamable = "streamable-http"
	TransportSSE        = "sse"
	TransportStdio      = "stdio"
)

// Transports lists every accepted transport name.
var Transports = []string{TransportHTTP, TransportStreamable, TransportSSE, TransportStdio}

// Config is the complete server configuration.
type Config struct {
	Server   Server       `toml:"server"`
	NocoDB   NocoDB       `toml:"nocodb"`
	Cache    cache.Config `toml:"cache"`
	Drawings Drawings     `toml:"drawings"`
}

// Server configures the tool server.
type Server struct {
	Host      string   `toml:"host"`
	Port      int      `toml:"port"`
	Transport string   `toml:"transport"`
	Endpoints []string `toml:"endpoints"` // empty mounts every endpoint
}

// NocoDB configures the nocodb endpoint. The endpoint is mounted only when
// both URL and Token are set.
type NocoDB struct {
	URL      string        `toml:"url"`
	Token    string        `toml:"token"`
	Timeout  time.Duration `toml:"timeout"`
	TableTTL time.Duration `toml:"table_ttl"`
}

// Drawings configures the drawings endpoint.
type Drawings struct {
	DefaultPreset string                  `toml:"default_preset"`
	Presets       map[string]styles.Theme `toml:"presets"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Host:      "0.0.0.0",
			Port:      8000,
			Transport: TransportHTTP,
		},
		NocoDB: NocoDB{
			Timeout:  nocodb.DefaultTimeout,
			TableTTL: cache.TTLTable,
		},
		Cache: cache.Config{Backend: cache.BackendMemory},
	}
}

// DefaultPath returns the config file location following the XDG standard
// (~/.config/mcptools/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load builds a configuration from defaults, the file at path and the
// environment read through getenv (os.Getenv if nil). An empty path loads
// the default file when it exists; a named file must exist.
func Load(path string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if getenv == nil {
		getenv = os.Getenv
	}

	if path == "" {
		if p, err := DefaultPath(); err == nil {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
		}
	}

	if err := cfg.ApplyEnv(getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.NocoDB.URL, "NOCODB_URL")
	set(&c.NocoDB.Token, "NOCODB_API_TOKEN")
	set(&c.Server.Transport, "MCP_TRANSPORT")
	set(&c.Server.Host, "MCP_HOST")
	set(&c.Cache.Backend, "MCP_CACHE_BACKEND")
	set(&c.Cache.Database, "MONGO_DATABASE")

	if v := strings.TrimSpace(getenv("MCP_PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "MCP_PORT")
		}
		c.Server.Port = port
	}

	switch strings.ToLower(c.Cache.Backend) {
	case cache.BackendRedis:
		set(&c.Cache.URL, "REDIS_URL")
	case cache.BackendMongo:
		set(&c.Cache.URL, "MONGO_URI")
	}
	return nil
}

// Validate checks names and ranges.
func (c Config) Validate() error {
	c.Server.Transport = strings.ToLower(c.Server.Transport)
	if !slices.Contains(Transports, c.Server.Transport) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown transport %q, want one of: %s", c.Server.Transport, strings.Join(Transports, ", "))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.New(errors.ErrCodeInvalidConfig, "port %d out of range", c.Server.Port)
	}

	backend := strings.ToLower(c.Cache.Backend)
	if backend != "" && !slices.Contains(cache.Backends, backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q, want one of: %s", c.Cache.Backend, strings.Join(cache.Backends, ", "))
	}
	if (backend == cache.BackendRedis || backend == cache.BackendMongo) && c.Cache.URL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend %q needs a url", backend)
	}

	if c.NocoDBEnabled() {
		if err := c.NocoDB.ClientConfig().Validate(); err != nil {
			return err
		}
	}

	if _, err := c.Drawings.Catalog(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "drawings presets")
	}
	return nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// NocoDBEnabled reports whether the nocodb endpoint can be mounted.
func (c Config) NocoDBEnabled() bool {
	return c.NocoDB.URL != "" && c.NocoDB.Token != ""
}

// EndpointEnabled reports whether name is selected by Server.Endpoints.
func (c Config) EndpointEnabled(name string) bool {
	return len(c.Server.Endpoints) == 0 || slices.Contains(c.Server.Endpoints, name)
}

// ClientConfig converts to the NocoDB client settings.
func (n NocoDB) ClientConfig() nocodb.Config {
	return nocodb.Config{URL: n.URL, Token: n.Token, Timeout: n.Timeout, TableTTL: n.TableTTL}
}

// Catalog returns the built-in presets plus the configured ones. It fails
// when the default preset is unknown.
func (d Drawings) Catalog() (*styles.Catalog, error) {
	cat := styles.NewCatalog()
	if err := cat.AddAll(d.Presets); err != nil {
		return nil, err
	}
	if d.DefaultPreset != "" && !cat.Known(d.DefaultPreset) {
		return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown default preset %q", d.DefaultPreset)
	}
	return cat, nil
}
