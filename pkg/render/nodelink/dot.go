package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mcptools/pkg/errors"
	"github.com/matzehuels/mcptools/pkg/hierarchy"
	"github.com/matzehuels/mcptools/pkg/render"
	"github.com/matzehuels/mcptools/pkg/render/orgchart/styles"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the entity id and type below the display name.
	Detailed bool
	// Theme colors the nodes. A zero theme draws plain white boxes.
	Theme styles.Theme
	// Focus highlights one entity with the theme's focus role.
	Focus string
}

// ToDOT converts an ownership graph to Graphviz DOT format. Edges point from
// owner to owned entity and carry the ownership percentage as label; their
// pen width follows the same majority/minority buckets as the org chart.
//
// Every entity is emitted, including those the tiered layout cannot reach.
// References to unknown parents are skipped.
func ToDOT(g *hierarchy.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Arial\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#999999\", arrowsize=0.6];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, e := range g.Entities() {
		fmt.Fprintf(&buf, "  %q [%s];\n", e.ID, strings.Join(fmtAttrs(e, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Entities() {
		for _, ref := range e.Parents {
			if _, ok := g.Entity(ref.ID); !ok {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q", ref.ID, e.ID)
			if attrs := edgeAttrs(ref); len(attrs) > 0 {
				fmt.Fprintf(&buf, " [%s]", strings.Join(attrs, ", "))
			}
			buf.WriteString(";\n")
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(e hierarchy.Entity, detailed bool) string {
	if !detailed {
		return e.Label()
	}
	return fmt.Sprintf("%s\nid: %s\ntype: %s", e.Label(), e.ID, e.Type)
}

func fmtAttrs(e hierarchy.Entity, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(e, opts.Detailed))}
	if len(opts.Theme.Roles) == 0 {
		return attrs
	}
	role := styles.RoleFor(e.Type)
	if opts.Focus != "" && e.ID == opts.Focus {
		role = styles.RoleFocus
	}
	st := opts.Theme.For(role)
	if st.Filled() {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", st.Fill))
	} else {
		attrs = append(attrs, `style="rounded"`)
	}
	attrs = append(attrs,
		fmt.Sprintf("color=%q", st.Stroke),
		fmt.Sprintf("fontcolor=%q", st.Text),
		fmt.Sprintf("penwidth=%s", strconv.FormatFloat(st.Width(), 'f', -1, 64)),
	)
	return attrs
}

func edgeAttrs(ref hierarchy.ParentRef) []string {
	line := hierarchy.Classify(ref.Percentage).Line()
	attrs := []string{fmt.Sprintf("penwidth=%s", strconv.FormatFloat(line.Width, 'f', -1, 64))}
	if line.Dash != "" {
		attrs = append(attrs, `style="dashed"`)
	}
	if ref.Percentage != nil {
		attrs = append(attrs, fmt.Sprintf("label=%q", hierarchy.FormatPercentage(*ref.Percentage)))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz root element (pt units, odd origin)
// into a plain pixel-sized svg tag.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
