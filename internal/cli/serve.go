package cli

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mcptools/internal/config"
	"github.com/matzehuels/mcptools/internal/metrics"
	"github.com/matzehuels/mcptools/internal/server"
	"github.com/matzehuels/mcptools/pkg/buildinfo"
	"github.com/matzehuels/mcptools/pkg/observability"
)

type serveOpts struct {
	host      string
	port      int
	transport string
	endpoints []string
	cache     string
	noMetrics bool
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP tool server",
		Long: `Run the MCP tool server.

Settings are read from the config file, then the environment (MCP_HOST,
MCP_PORT, MCP_TRANSPORT, NOCODB_URL, NOCODB_API_TOKEN, ...), then flags.
With --transport stdio all tools are served on stdin/stdout and logs go to
stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.serve(cmd.Context(), cfg, !opts.noMetrics)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "listen host (default 0.0.0.0)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "listen port (default 8000)")
	cmd.Flags().StringVarP(&opts.transport, "transport", "t", "", "transport: http, streamable-http, sse or stdio")
	cmd.Flags().StringSliceVarP(&opts.endpoints, "endpoints", "e", nil, "endpoints to mount (default all)")
	cmd.Flags().StringVar(&opts.cache, "cache", "", "cache backend: memory, file, redis, mongo or none")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "do not serve /metrics")
	return cmd
}

// apply overrides cfg with the flags the user set.
func (o serveOpts) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host = o.host
	}
	if flags.Changed("port") {
		cfg.Server.Port = o.port
	}
	if flags.Changed("transport") {
		cfg.Server.Transport = o.transport
	}
	if flags.Changed("endpoints") {
		cfg.Server.Endpoints = o.endpoints
	}
	if flags.Changed("cache") {
		cfg.Cache.Backend = o.cache
	}
}

func (c *CLI) serve(ctx context.Context, cfg config.Config, withMetrics bool) error {
	ctx = withLogger(ctx, c.Logger)

	var metricsHandler http.Handler
	if withMetrics {
		m := metrics.New()
		m.Install()
		defer observability.Reset()
		metricsHandler = m.Handler()
	}

	store, err := c.openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	eps, err := c.buildEndpoints(cfg, store)
	if err != nil {
		return err
	}
	srv, err := server.New(server.Options{
		Name:      appName,
		Version:   buildinfo.Version,
		Addr:      cfg.Addr(),
		Transport: cfg.Server.Transport,
		Metrics:   metricsHandler,
		Logger:    c.Logger,
	}, eps...)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
