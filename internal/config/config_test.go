package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/mcptools/pkg/errors"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Addr() != "0.0.0.0:8000" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if cfg.Server.Transport != TransportHTTP || cfg.Cache.Backend != "memory" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.NocoDB.TableTTL != time.Hour {
		t.Errorf("table ttl = %v", cfg.NocoDB.TableTTL)
	}
	if cfg.NocoDBEnabled() {
		t.Error("nocodb enabled without credentials")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9000
transport = "sse"
endpoints = ["drawings", "health"]

[nocodb]
url = "https://file.example.com"
token = "from-file"
table_ttl = "5m"

[cache]
backend = "redis"
url = "redis://file:6379/0"
`)
	cfg, err := Load(path, env(map[string]string{
		"NOCODB_API_TOKEN": "from-env",
		"MCP_PORT":         "9100",
		"REDIS_URL":        "redis://env:6379/1",
	}))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("port = %d, want env value 9100", cfg.Server.Port)
	}
	if cfg.Server.Transport != TransportSSE {
		t.Errorf("transport = %q, want file value", cfg.Server.Transport)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("host = %q, want default", cfg.Server.Host)
	}
	if cfg.NocoDB.URL != "https://file.example.com" || cfg.NocoDB.Token != "from-env" {
		t.Errorf("nocodb = %+v", cfg.NocoDB)
	}
	if cfg.NocoDB.TableTTL != 5*time.Minute {
		t.Errorf("table ttl = %v", cfg.NocoDB.TableTTL)
	}
	if cfg.Cache.URL != "redis://env:6379/1" {
		t.Errorf("cache url = %q", cfg.Cache.URL)
	}
	if !cfg.EndpointEnabled("drawings") || cfg.EndpointEnabled("nocodb") {
		t.Errorf("endpoint selection = %v", cfg.Server.Endpoints)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadMongoEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("", env(map[string]string{
		"MCP_CACHE_BACKEND": "mongo",
		"MONGO_URI":         "mongodb://localhost:27017",
		"MONGO_DATABASE":    "tools",
		"REDIS_URL":         "redis://ignored",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.URL != "mongodb://localhost:27017" || cfg.Cache.Database != "tools" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{"bad toml", "[server\nport = 1", nil},
		{"unknown key", "[server]\nprot = 8080\n", nil},
		{"bad port env", "", map[string]string{"MCP_PORT": "eighty"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file)
			_, err := Load(path, env(tt.env))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml"), env(nil)); err == nil {
		t.Error("missing explicit config file should fail")
	}
}

func TestDefaultPathXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/custom-config", appName, "config.toml"); path != want {
		t.Errorf("DefaultPath() = %q, want %q", path, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		code   errors.Code
	}{
		{"unknown transport", func(c *Config) { c.Server.Transport = "grpc" }, errors.ErrCodeInvalidConfig},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, errors.ErrCodeInvalidConfig},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, errors.ErrCodeInvalidConfig},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, errors.ErrCodeInvalidConfig},
		{"redis without url", func(c *Config) { c.Cache.Backend = "redis" }, errors.ErrCodeInvalidConfig},
		{"nocodb bad url", func(c *Config) { c.NocoDB.URL, c.NocoDB.Token = "ftp://x", "t" }, errors.ErrCodeInvalidConfig},
		{"unknown default preset", func(c *Config) { c.Drawings.DefaultPreset = "neon" }, errors.ErrCodeInvalidConfig},
		{"stdio upper case", func(c *Config) { c.Server.Transport = "STDIO" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate() = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestDrawingsPresets(t *testing.T) {
	path := writeConfig(t, `
[drawings]
default_preset = "corporate"

[drawings.presets.corporate]
extends = "professional"

[drawings.presets.corporate.roles.company]
fill = "#112233"
stroke = "#000000"
text = "white"
`)
	cfg, err := Load(path, env(nil))
	if err != nil {
		t.Fatal(err)
	}
	cat, err := cfg.Drawings.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	theme := cat.Resolve("corporate", nil)
	if got := theme.Roles["company"].Fill; got != "#112233" {
		t.Errorf("company fill = %q", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestWithEnvFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "test.env")
	content := "NOCODB_URL=https://nocodb.example.com\nNOCODB_API_TOKEN=\"from-file\"\nMCP_PORT=9000\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	getenv, err := WithEnvFile(path, env(map[string]string{"NOCODB_API_TOKEN": "from-env"}))
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("", getenv)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.NocoDB.URL != "https://nocodb.example.com" {
		t.Errorf("url = %q, want value from the env file", cfg.NocoDB.URL)
	}
	if cfg.NocoDB.Token != "from-env" {
		t.Errorf("token = %q, process environment should win", cfg.NocoDB.Token)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}

	if _, err := WithEnvFile(filepath.Join(t.TempDir(), "missing.env"), nil); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("named missing file: err = %v", err)
	}
	t.Chdir(t.TempDir())
	if _, err := WithEnvFile("", nil); err != nil {
		t.Errorf("default file missing: err = %v", err)
	}
}
