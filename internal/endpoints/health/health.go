// Package health serves the liveness tool.
package health

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matzehuels/mcptools/internal/endpoints"
)

const name = "health"

// Endpoint reports service liveness.
type Endpoint struct {
	logger *log.Logger
	now    func() time.Time
}

// New creates the health endpoint.
func New(logger *log.Logger) *Endpoint {
	return &Endpoint{logger: logger, now: time.Now}
}

func (e *Endpoint) Name() string { return name }

func (e *Endpoint) Instructions() string {
	return "Call get_health_status to check that the tool server is live."
}

// Status is the result of get_health_status.
type Status struct {
	Status    string  `json:"status"`
	Timestamp float64 `json:"timestamp" jsonschema:"Unix time in seconds"`
	Message   string  `json:"message"`
	Endpoint  string  `json:"endpoint"`
	Success   bool    `json:"success"`
}

func (e *Endpoint) Register(srv *mcp.Server) {
	endpoints.AddTool(srv, name, e.logger, &mcp.Tool{
		Name:        "get_health_status",
		Description: "Get the health status of the service.",
	}, e.status)
}

func (e *Endpoint) status(context.Context, *mcp.CallToolRequest, struct{}) (*mcp.CallToolResult, Status, error) {
	now := e.now()
	return nil, Status{
		Status:    "Healthy",
		Timestamp: float64(now.Unix()) + float64(now.Nanosecond())/1e9,
		Message:   "Service is live and healthy",
		Endpoint:  name,
		Success:   true,
	}, nil
}
