// Package server mounts endpoints on an HTTP router or runs them over stdio.
//
// Over HTTP each endpoint gets its own MCP server, reachable at
// /<name>/mcp (streamable HTTP) and /<name>/sse depending on the transport.
// The router also answers GET /healthz and, when a metrics handler is
// configured, GET /metrics.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matzehuels/mcptools/internal/config"
	"github.com/matzehuels/mcptools/internal/endpoints"
	"github.com/matzehuels/mcptools/pkg/errors"
)

// ShutdownTimeout bounds the graceful HTTP shutdown.
const ShutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	Name      string // implementation name reported to clients
	Version   string
	Addr      string // listen address, e.g. 0.0.0.0:8000
	Transport string // one of config.Transports
	Metrics   http.Handler
	Logger    *log.Logger
}

// Server serves a set of endpoints.
type Server struct {
	opts      Options
	endpoints []endpoints.Endpoint
	started   time.Time
}

// New creates a server for eps. It fails when eps is empty or two endpoints
// share a name.
func New(opts Options, eps ...endpoints.Endpoint) (*Server, error) {
	if len(eps) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no endpoints available to run")
	}
	seen := map[string]bool{}
	for _, ep := range eps {
		if seen[ep.Name()] {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "endpoint %q registered twice", ep.Name())
		}
		seen[ep.Name()] = true
	}
	if opts.Transport == "" {
		opts.Transport = config.TransportHTTP
	}
	opts.Transport = strings.ToLower(opts.Transport)
	if opts.Name == "" {
		opts.Name = "mcptools"
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Server{opts: opts, endpoints: eps, started: time.Now()}, nil
}

// Endpoints lists the names of the mounted endpoints.
func (s *Server) Endpoints() []string {
	names := make([]string, len(s.endpoints))
	for i, ep := range s.endpoints {
		names[i] = ep.Name()
	}
	return names
}

func (s *Server) mcpServer(name, instructions string, eps ...endpoints.Endpoint) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: name, Version: s.opts.Version}, &mcp.ServerOptions{
		Instructions: instructions,
	})
	for _, ep := range eps {
		ep.Register(srv)
	}
	return srv
}

func (s *Server) streamable() bool {
	return s.opts.Transport == config.TransportHTTP || s.opts.Transport == config.TransportStreamable
}

func (s *Server) sse() bool {
	return s.opts.Transport == config.TransportHTTP || s.opts.Transport == config.TransportSSE
}

// Handler returns the HTTP router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(s.opts.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics)
	}

	for _, ep := range s.endpoints {
		srv := s.mcpServer(s.opts.Name+"-"+ep.Name(), ep.Instructions(), ep)
		get := func(*http.Request) *mcp.Server { return srv }
		if s.streamable() {
			r.Handle("/"+ep.Name()+"/mcp", mcp.NewStreamableHTTPHandler(get, nil))
		}
		if s.sse() {
			r.Handle("/"+ep.Name()+"/sse", mcp.NewSSEHandler(get, nil))
		}
	}
	return r
}

type healthz struct {
	Status    string   `json:"status"`
	Version   string   `json:"version,omitempty"`
	Transport string   `json:"transport"`
	Endpoints []string `json:"endpoints"`
	Uptime    string   `json:"uptime"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthz{
		Status:    "ok",
		Version:   s.opts.Version,
		Transport: s.opts.Transport,
		Endpoints: s.Endpoints(),
		Uptime:    time.Since(s.started).Round(time.Second).String(),
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s.opts.Transport == config.TransportStdio {
		return s.RunStdio(ctx)
	}

	httpServer := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()

	s.opts.Logger.Info("serving", "addr", s.opts.Addr, "transport", s.opts.Transport, "endpoints", strings.Join(s.Endpoints(), ","))
	for _, name := range s.Endpoints() {
		if s.streamable() {
			s.opts.Logger.Debug("mounted", "path", "/"+name+"/mcp")
		}
		if s.sse() {
			s.opts.Logger.Debug("mounted", "path", "/"+name+"/sse")
		}
	}

	select {
	case <-ctx.Done():
		s.opts.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == nil || stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeNetwork, err, "listen %s", s.opts.Addr)
	}
}

// RunStdio serves every endpoint's tools from one MCP server over
// stdin/stdout.
func (s *Server) RunStdio(ctx context.Context) error {
	var instructions []string
	for _, ep := range s.endpoints {
		instructions = append(instructions, ep.Name()+": "+ep.Instructions())
	}
	srv := s.mcpServer(s.opts.Name, strings.Join(instructions, "\n"), s.endpoints...)
	s.opts.Logger.Info("serving over stdio", "endpoints", strings.Join(s.Endpoints(), ","))
	if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
