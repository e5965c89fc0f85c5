// Package drawings serves the company structure diagram tool.
package drawings

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/matzehuels/mcptools/internal/endpoints"
	"github.com/matzehuels/mcptools/pkg/errors"
	"github.com/matzehuels/mcptools/pkg/pipeline"
	"github.com/matzehuels/mcptools/pkg/render/orgchart/sink"
)

const name = "drawings"

// Formats company_structure can return inline.
var formats = []string{pipeline.FormatSVG, pipeline.FormatJSON, pipeline.FormatDOT}

// Endpoint draws ownership structures.
type Endpoint struct {
	runner        *pipeline.Runner
	defaultPreset string
	logger        *log.Logger
}

// New creates the drawings endpoint. defaultPreset applies when a request
// names neither a color category nor custom colors.
func New(runner *pipeline.Runner, defaultPreset string, logger *log.Logger) *Endpoint {
	return &Endpoint{runner: runner, defaultPreset: defaultPreset, logger: logger}
}

func (e *Endpoint) Name() string { return name }

func (e *Endpoint) Instructions() string {
	return "Draw company ownership structures. company_structure takes a map of entity id to " +
		"{name, type, parents: [{id, percentage}]} and returns an SVG diagram; list_presets shows the color presets."
}

type companyStructureInput struct {
	Companies     any               `json:"companies" jsonschema:"Map of entity id to {name, type, parents}; type is person, investor, trust, foundation or company"`
	CustomColors  map[string]string `json:"custom_colors,omitempty" jsonschema:"Color overrides such as company_color or person_color (#rgb or #rrggbb)"`
	FocusCompany  string            `json:"focus_company,omitempty" jsonschema:"Id of the entity to highlight"`
	ColorCategory string            `json:"color_category,omitempty" jsonschema:"Color preset: professional, vibrant, pastel, monochrome, minimal or custom"`
	Format        string            `json:"format,omitempty" jsonschema:"Output format: svg (default), json or dot"`
}

// Diagram describes a generated diagram.
type Diagram struct {
	Format      string `json:"format"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Levels      int    `json:"levels"`
	Entities    int    `json:"entities"`
	Connections int    `json:"connections"`
	Issues      int    `json:"issues"`
	Cached      bool   `json:"cached"`
	Data        string `json:"data,omitempty" jsonschema:"The json or dot document"`
	Error       string `json:"error,omitempty"`
}

type preset struct {
	Name    string `json:"name"`
	Extends string `json:"extends,omitempty"`
	Default bool   `json:"default,omitempty"`
}

type presetsOutput struct {
	Presets []preset `json:"presets"`
}

func (e *Endpoint) Register(srv *mcp.Server) {
	endpoints.AddTool(srv, name, e.logger, &mcp.Tool{
		Name: "company_structure",
		Description: "Generates a company structure diagram as SVG. Example: " +
			`company_structure(companies={"mindro": {"name": "Mindro BV", "parents": []}}, custom_colors={"company_color": "#4A90E2"})`,
	}, e.companyStructure)
	endpoints.AddTool(srv, name, e.logger, &mcp.Tool{
		Name:        "list_presets",
		Description: "List the color presets available to company_structure.",
	}, e.listPresets)
}

func (e *Endpoint) companyStructure(ctx context.Context, req *mcp.CallToolRequest, in companyStructureInput) (*mcp.CallToolResult, Diagram, error) {
	e.logger.Info("company structure request", "focus", in.FocusCompany, "preset", in.ColorCategory)

	format := strings.ToLower(strings.TrimSpace(in.Format))
	if format == "" {
		format = pipeline.FormatSVG
	}
	if !slices.Contains(formats, format) {
		err := errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q, want one of: %s", in.Format, strings.Join(formats, ", "))
		return e.failed(err)
	}

	data, err := companiesJSON(req, in.Companies)
	if err != nil {
		return e.failed(err)
	}

	res, err := e.execute(ctx, data, pipeline.Options{
		Preset:  e.preset(in),
		Colors:  in.CustomColors,
		Focus:   in.FocusCompany,
		Formats: []string{format},
	})
	if err != nil {
		return e.failed(err)
	}

	artifact := res.Artifacts[format]
	out := Diagram{
		Format:      format,
		Width:       res.Scene.Width,
		Height:      res.Scene.Height,
		Levels:      res.Stats.Levels,
		Entities:    res.Stats.Entities,
		Connections: res.Stats.Connections,
		Issues:      res.Stats.Issues,
		Cached:      res.CacheInfo.RenderHit,
	}
	var content []mcp.Content
	if format == pipeline.FormatSVG {
		content = svgContent(artifact)
	} else {
		out.Data = string(artifact)
		content = []mcp.Content{&mcp.TextContent{Text: out.Data}}
	}
	e.logger.Info("company structure diagram generated successfully", "entities", out.Entities, "format", format)
	return &mcp.CallToolResult{Content: content}, out, nil
}

// execute runs the pipeline, turning a panic into an error.
func (e *Endpoint) execute(ctx context.Context, data []byte, opts pipeline.Options) (res *pipeline.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, errors.New(errors.ErrCodeInternal, "panic: %v", r)
		}
	}()
	return e.runner.Execute(ctx, data, opts)
}

// failed answers with the error placeholder; the tool never reports a
// protocol error.
func (e *Endpoint) failed(err error) (*mcp.CallToolResult, Diagram, error) {
	e.logger.Error("failed to generate company structure diagram", "error", err)
	msg := errors.UserMessage(err)
	svg := sink.ErrorSVG(msg)
	return &mcp.CallToolResult{Content: svgContent(svg)}, Diagram{
		Format: pipeline.FormatSVG,
		Width:  400,
		Height: 200,
		Error:  msg,
	}, nil
}

func (e *Endpoint) preset(in companyStructureInput) string {
	if in.ColorCategory != "" {
		return in.ColorCategory
	}
	if len(in.CustomColors) == 0 {
		return e.defaultPreset
	}
	return ""
}

func (e *Endpoint) listPresets(context.Context, *mcp.CallToolRequest, struct{}) (*mcp.CallToolResult, presetsOutput, error) {
	var out presetsOutput
	def := strings.ToLower(e.defaultPreset)
	if def == "" {
		def = "professional"
	}
	for _, n := range e.runner.Catalog.Names() {
		p := preset{Name: n, Default: n == def}
		if t, ok := e.runner.Catalog.Lookup(n); ok {
			p.Extends = t.Extends
		}
		out.Presets = append(out.Presets, p)
	}
	return nil, out, nil
}

func svgContent(svg []byte) []mcp.Content {
	return []mcp.Content{
		&mcp.TextContent{Text: string(svg)},
		&mcp.ImageContent{Data: svg, MIMEType: pipeline.ContentType(pipeline.FormatSVG)},
	}
}

// companiesJSON returns the companies argument as sent, keeping the key
// order that decides horizontal placement. A decoded value is re-encoded
// only when the raw arguments are unavailable.
func companiesJSON(req *mcp.CallToolRequest, decoded any) ([]byte, error) {
	if req != nil && req.Params != nil && len(req.Params.Arguments) > 0 {
		var args struct {
			Companies json.RawMessage `json:"companies"`
		}
		if err := json.Unmarshal(req.Params.Arguments, &args); err == nil && len(args.Companies) > 0 {
			return args.Companies, nil
		}
	}
	data, err := json.Marshal(decoded)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "encode companies")
	}
	return data, nil
}

var _ endpoints.Endpoint = (*Endpoint)(nil)
