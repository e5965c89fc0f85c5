package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/mcptools/pkg/errors"
	"github.com/matzehuels/mcptools/pkg/hierarchy"
	"github.com/matzehuels/mcptools/pkg/observability"
	"github.com/matzehuels/mcptools/pkg/render/nodelink"
	"github.com/matzehuels/mcptools/pkg/render/orgchart"
	"github.com/matzehuels/mcptools/pkg/render/orgchart/sink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, g *hierarchy.Graph, s orgchart.Scene, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(ctx, g, s, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat renders a single format and reports it to the pipeline hooks.
func RenderFormat(ctx context.Context, g *hierarchy.Graph, s orgchart.Scene, format string, opts Options) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format, g.Len())
	start := time.Now()

	data, err := renderFormat(ctx, g, s, format, opts)
	hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		return nil, errors.Wrap(code, err, "render %s", format)
	}
	return data, nil
}

func renderFormat(ctx context.Context, g *hierarchy.Graph, s orgchart.Scene, format string, opts Options) ([]byte, error) {
	svgOpts := svgOptions(opts)
	switch format {
	case FormatSVG:
		return sink.RenderSVG(s, svgOpts...), nil
	case FormatJSON:
		return sink.RenderJSON(s, sink.WithJSONPreset(s.Theme.Name))
	case FormatPNG:
		return sink.RenderPNG(ctx, s, sink.WithScale(opts.Scale), sink.WithPNGSVGOptions(svgOpts...))
	case FormatPDF:
		return sink.RenderPDF(ctx, s, sink.WithPDFSVGOptions(svgOpts...))
	case FormatDOT:
		return []byte(nodelink.ToDOT(g, dotOptions(s, opts))), nil
	case FormatNodelink:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(g, dotOptions(s, opts)))
	default:
		return nil, ValidateFormat(format)
	}
}

func svgOptions(opts Options) []sink.SVGOption {
	if opts.Title == "" {
		return nil
	}
	return []sink.SVGOption{sink.WithTitle(opts.Title)}
}

func dotOptions(s orgchart.Scene, opts Options) nodelink.Options {
	return nodelink.Options{Detailed: opts.Detailed, Theme: s.Theme, Focus: s.FocusID}
}
