// Package endpoints defines what the tool server mounts: an [Endpoint] owns
// a group of MCP tools under one name, served at /<name>/mcp and
// /<name>/sse.
//
// Subpackages implement the endpoints (health, example, drawings, nocodb).
// Tools register through [AddTool], which logs every call and reports it to
// the observability tool hooks.
package endpoints

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matzehuels/mcptools/pkg/errors"
	"github.com/matzehuels/mcptools/pkg/observability"
)

// Endpoint is a named group of tools.
type Endpoint interface {
	// Name is the mount path segment, e.g. "drawings".
	Name() string
	// Instructions is sent to clients on initialization.
	Instructions() string
	// Register adds the endpoint's tools to srv.
	Register(srv *mcp.Server)
}

// failure is implemented by outputs that carry an error in-band.
type failure interface {
	Failed() error
}

// AddTool registers h on srv. Each call is logged on logger and reported to
// the tool hooks; a failed envelope counts as an error. Panics in h are
// returned as tool errors.
func AddTool[In, Out any](srv *mcp.Server, endpoint string, logger *log.Logger, tool *mcp.Tool, h mcp.ToolHandlerFor[In, Out]) {
	mcp.AddTool(srv, tool, instrument(endpoint, tool.Name, logger, h))
}

func instrument[In, Out any](endpoint, tool string, logger *log.Logger, h mcp.ToolHandlerFor[In, Out]) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (res *mcp.CallToolResult, out Out, err error) {
		hooks := observability.Tool()
		hooks.OnToolStart(ctx, endpoint, tool)
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				var zero Out
				res, out = nil, zero
				err = fmt.Errorf("tool %s panicked: %v", tool, r)
				logger.Error("tool panicked", "endpoint", endpoint, "tool", tool, "panic", r)
			}
			reported := err
			if f, ok := any(out).(failure); ok && reported == nil {
				reported = f.Failed()
			}
			elapsed := time.Since(start)
			hooks.OnToolComplete(ctx, endpoint, tool, elapsed, reported)
			if reported != nil {
				logger.Warn("tool call failed", "endpoint", endpoint, "tool", tool, "duration", elapsed.Round(time.Millisecond), "error", reported)
				return
			}
			logger.Info("tool call", "endpoint", endpoint, "tool", tool, "duration", elapsed.Round(time.Millisecond))
		}()

		return h(ctx, req, in)
	}
}

// Response is the envelope every data tool returns. Exactly one of Success
// and Error is set.
type Response struct {
	Success           bool           `json:"success,omitempty"`
	Error             bool           `json:"error,omitempty"`
	Code              string         `json:"code,omitempty"`
	Operation         string         `json:"operation,omitempty"`
	StructuredContent any            `json:"structuredContent,omitempty"`
	Message           string         `json:"message"`
	Metadata          map[string]any `json:"metadata,omitempty"`
}

// Success builds a successful envelope.
func Success(op string, result any, message string) Response {
	return Response{Success: true, Operation: op, StructuredContent: map[string]any{"result": result}, Message: message}
}

// WithMetadata returns r with metadata attached.
func (r Response) WithMetadata(md map[string]any) Response {
	r.Metadata = md
	return r
}

// Failure builds an error envelope for a failed action, e.g.
// Failure("retrieve records", err) reads "Failed to retrieve records: ...".
func Failure(action string, err error) Response {
	return Response{
		Error:   true,
		Code:    string(errors.GetCode(err)),
		Message: "Failed to " + action + ": " + errors.UserMessage(err),
	}
}

// Failed returns the envelope's error, or nil on success.
func (r Response) Failed() error {
	if !r.Error {
		return nil
	}
	code := errors.Code(r.Code)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errors.New(code, "%s", r.Message)
}
