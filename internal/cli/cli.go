package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mcptools/internal/config"
	"github.com/matzehuels/mcptools/internal/endpoints"
	"github.com/matzehuels/mcptools/internal/endpoints/drawings"
	"github.com/matzehuels/mcptools/internal/endpoints/example"
	"github.com/matzehuels/mcptools/internal/endpoints/health"
	"github.com/matzehuels/mcptools/internal/endpoints/nocodb"
	"github.com/matzehuels/mcptools/pkg/buildinfo"
	"github.com/matzehuels/mcptools/pkg/cache"
	noco "github.com/matzehuels/mcptools/pkg/integrations/nocodb"
	"github.com/matzehuels/mcptools/pkg/pipeline"
)

const appName = "mcptools"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	envFile    string
	getenv     func(string) string
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), getenv: os.Getenv}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "mcptools serves MCP tools for ownership diagrams and NocoDB",
		Long:         `mcptools is an MCP tool server. It draws company ownership structures, manages NocoDB bases with SQL-style tools and reports its own health, over streamable HTTP, SSE or stdio.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default ~/.config/mcptools/config.toml)")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", "", "dotenv file with NOCODB_* and MCP_* variables (default ./.env when present)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.toolsCommand())
	root.AddCommand(c.nocodbCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.presetsCommand())

	return root
}

func (c *CLI) loadConfig() (config.Config, error) {
	getenv, err := config.WithEnvFile(c.envFile, c.getenv)
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(c.configPath, getenv)
	if err != nil {
		return cfg, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath, "transport", cfg.Server.Transport, "cache", cfg.Cache.Backend)
	return cfg, nil
}

// newRunner creates a pipeline runner with the configured presets.
func (c *CLI) newRunner(cfg config.Config, store cache.Cache) (*pipeline.Runner, error) {
	cat, err := cfg.Drawings.Catalog()
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(store, nil, c.Logger)
	r.Catalog = cat
	return r, nil
}

// newCache opens a file cache for one-shot commands.
func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// buildEndpoints assembles the endpoints cfg selects. nocodb is skipped with
// a warning when its credentials are missing.
func (c *CLI) buildEndpoints(cfg config.Config, store cache.Cache) ([]endpoints.Endpoint, error) {
	var eps []endpoints.Endpoint
	add := func(e endpoints.Endpoint) {
		if cfg.EndpointEnabled(e.Name()) {
			eps = append(eps, e)
		}
	}

	add(health.New(c.Logger.WithPrefix("health")))
	add(example.New(example.Config{Version: buildinfo.Version}, c.Logger.WithPrefix("example")))

	runner, err := c.newRunner(cfg, store)
	if err != nil {
		return nil, err
	}
	add(drawings.New(runner, cfg.Drawings.DefaultPreset, c.Logger.WithPrefix("drawings")))

	if !cfg.EndpointEnabled("nocodb") {
		return eps, nil
	}
	if !cfg.NocoDBEnabled() {
		c.Logger.Warn("nocodb endpoint disabled: set NOCODB_URL and NOCODB_API_TOKEN to enable it")
		return eps, nil
	}
	client, err := c.newNocoDBClient(cfg, store)
	if err != nil {
		return nil, err
	}
	add(nocodb.New(client, c.Logger.WithPrefix("nocodb")))
	return eps, nil
}

func (c *CLI) newNocoDBClient(cfg config.Config, store cache.Cache) (*noco.Client, error) {
	return noco.NewClient(cfg.NocoDB.ClientConfig(), store, c.Logger.WithPrefix("nocodb"))
}

// openCache opens the configured backend.
func (c *CLI) openCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	store, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opened cache", "backend", cfg.Cache.Backend)
	return store, nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/mcptools/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats parses a comma-separated format list.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
