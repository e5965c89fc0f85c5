// Package example is a minimal endpoint to copy when adding new ones.
package example

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matzehuels/mcptools/internal/endpoints"
)

const name = "example"

// Config is what get_config reports.
type Config struct {
	Version     string `json:"version"`
	Description string `json:"description"`
}

// Endpoint greets callers and reports its configuration.
type Endpoint struct {
	cfg    Config
	logger *log.Logger
}

// New creates the example endpoint.
func New(cfg Config, logger *log.Logger) *Endpoint {
	if cfg.Description == "" {
		cfg.Description = "Example endpoint"
	}
	return &Endpoint{cfg: cfg, logger: logger}
}

func (e *Endpoint) Name() string { return name }

func (e *Endpoint) Instructions() string {
	return "Example tools: hello_world greets by name, get_config shows the endpoint configuration."
}

type helloInput struct {
	Name string `json:"name,omitempty" jsonschema:"Who to greet (default World)"`
}

type helloOutput struct {
	Message  string `json:"message"`
	Endpoint string `json:"endpoint"`
	Success  bool   `json:"success"`
}

type configOutput struct {
	Endpoint string `json:"endpoint"`
	Config   Config `json:"config"`
	Success  bool   `json:"success"`
}

func (e *Endpoint) Register(srv *mcp.Server) {
	endpoints.AddTool(srv, name, e.logger, &mcp.Tool{
		Name:        "hello_world",
		Description: "Say hello to someone.",
	}, e.hello)
	endpoints.AddTool(srv, name, e.logger, &mcp.Tool{
		Name:        "get_config",
		Description: "Get the endpoint configuration.",
	}, e.config)
}

func (e *Endpoint) hello(_ context.Context, _ *mcp.CallToolRequest, in helloInput) (*mcp.CallToolResult, helloOutput, error) {
	who := strings.TrimSpace(in.Name)
	if who == "" {
		who = "World"
	}
	return nil, helloOutput{Message: "Hello, " + who + "!", Endpoint: name, Success: true}, nil
}

func (e *Endpoint) config(context.Context, *mcp.CallToolRequest, struct{}) (*mcp.CallToolResult, configOutput, error) {
	return nil, configOutput{Endpoint: name, Config: e.cfg, Success: true}, nil
}
