// Package nodelink renders ownership graphs as node-link diagrams.
//
// # Overview
//
// Where the org chart places entities on fixed tiers, this package hands the
// graph to Graphviz and lets its dot engine pick positions. Every entity is
// drawn, including ones the tiered layout leaves out, which makes it a useful
// second view of messy inputs.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Theme: styles.Resolve("pastel", nil)})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
