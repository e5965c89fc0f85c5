package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/mcptools/pkg/render/orgchart/sink"
)

// RenderSafe parses data and renders it as SVG. It always returns a
// well-formed SVG document: any failure, including a panic inside layout or
// rendering, yields [sink.ErrorSVG] carrying the message, and err reports
// what went wrong.
func RenderSafe(ctx context.Context, data []byte, opts Options) (svg []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			svg = sink.ErrorSVG(err.Error())
		}
	}()

	opts.Formats = []string{FormatSVG}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return sink.ErrorSVG(err.Error()), err
	}
	g, issues := Parse(ctx, data)
	logIssues(opts, issues)
	return sink.RenderSVG(ComputeScene(g, opts), svgOptions(opts)...), nil
}
