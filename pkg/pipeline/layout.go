package pipeline

import (
	"github.com/matzehuels/mcptools/pkg/hierarchy"
	"github.com/matzehuels/mcptools/pkg/render/orgchart"
)

// ComputeScene runs the layout stage with the theme and geometry implied by
// opts.
func ComputeScene(g *hierarchy.Graph, opts Options) orgchart.Scene {
	return orgchart.ComputeScene(g, opts.Theme(), opts.Focus, opts.LayoutOptions()...)
}
