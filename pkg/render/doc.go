// Package render provides visualization rendering for ownership graphs.
//
// # Overview
//
// This package contains the rendering pipeline that transforms ownership
// graphs into visual outputs. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Tiered ownership charts (in [orgchart] subpackage)
//   - Node-link diagrams (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). They are used by both
// the org chart and node-link renderers.
//
//	svg := sink.RenderSVG(scene)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Org Charts
//
// The [orgchart] subpackage places entities in tiers, one per ownership
// level, and draws connectors styled by ownership percentage.
//
// Key orgchart subpackages:
//   - [orgchart/styles]: Color presets and custom themes
//   - [orgchart/sink]: Output formats (SVG, JSON, PNG, PDF)
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the same graph as a directed graph
// laid out by Graphviz.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [orgchart]: github.com/matzehuels/mcptools/pkg/render/orgchart
// [orgchart/styles]: github.com/matzehuels/mcptools/pkg/render/orgchart/styles
// [orgchart/sink]: github.com/matzehuels/mcptools/pkg/render/orgchart/sink
// [nodelink]: github.com/matzehuels/mcptools/pkg/render/nodelink
package render
