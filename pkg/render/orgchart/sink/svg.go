package sink

import (
	"bytes"
	"fmt"
	"html"
	"strconv"

	"github.com/matzehuels/mcptools/pkg/hierarchy"
	"github.com/matzehuels/mcptools/pkg/render/orgchart"
	"github.com/matzehuels/mcptools/pkg/render/orgchart/styles"
)

const svgNS = "http://www.w3.org/2000/svg"

// markerIDs are always defined, whether or not a connector uses them.
var markerIDs = []string{"arrowhead", "majority-arrow", "minority-arrow", "joint-arrow"}

const textCSS = `
            .entity-text {
                font-family: 'Segoe UI', Arial, sans-serif;
                font-size: 9px;
                font-weight: 600;
                text-anchor: middle;
                dominant-baseline: middle;
            }
            .percentage-text {
                font-family: 'Segoe UI', Arial, sans-serif;
                font-size: 12px;
                font-weight: bold;
                text-anchor: middle;
                dominant-baseline: middle;
            }`

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	title      string
	header     bool
}

// WithBackground sets the background rect fill (default "transparent").
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithTitle adds an accessible <title> element.
func WithTitle(title string) SVGOption { return func(r *svgRenderer) { r.title = title } }

// WithoutXMLHeader omits the <?xml ...?> declaration, for inline embedding.
func WithoutXMLHeader() SVGOption { return func(r *svgRenderer) { r.header = false } }

// RenderSVG serializes a scene. Connectors are drawn before boxes so lines
// sit behind them. Entity names are XML-escaped.
func RenderSVG(s orgchart.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{background: "transparent", header: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	if r.header {
		buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	}
	fmt.Fprintf(&buf, `<svg width="%d" height="%d" xmlns="%s">`+"\n", s.Width, s.Height, svgNS)
	if r.title != "" {
		fmt.Fprintf(&buf, "    <title>%s</title>\n", html.EscapeString(r.title))
	}

	renderDefs(&buf, s.Theme)
	fmt.Fprintf(&buf, "    <rect width=\"%d\" height=\"%d\" fill=\"%s\"/>\n", s.Width, s.Height, html.EscapeString(r.background))

	for _, c := range s.Connectors {
		renderConnector(&buf, c)
	}
	for _, b := range s.Boxes {
		renderBox(&buf, b, s.Theme.Gradients())
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderDefs(buf *bytes.Buffer, th styles.Theme) {
	buf.WriteString("    <defs>\n")
	for _, id := range markerIDs {
		fmt.Fprintf(buf, `        <marker id="%s" markerWidth="6" markerHeight="5" refX="5" refY="2.5" orient="auto">`+"\n", id)
		buf.WriteString(`            <polygon points="0 0, 6 2.5, 0 5" fill="#999999" />` + "\n")
		buf.WriteString("        </marker>\n")
	}
	if th.Gradients() {
		for _, role := range styles.Roles {
			st := th.For(role)
			fmt.Fprintf(buf, `        <linearGradient id="%s" x1="0%%" y1="0%%" x2="100%%" y2="100%%">`+"\n", gradientID(role))
			fmt.Fprintf(buf, `            <stop offset="0%%" style="stop-color:%s;stop-opacity:1" />`+"\n", html.EscapeString(st.Fill))
			fmt.Fprintf(buf, `            <stop offset="100%%" style="stop-color:%s;stop-opacity:1" />`+"\n", html.EscapeString(st.Stroke))
			buf.WriteString("        </linearGradient>\n")
		}
	}
	fmt.Fprintf(buf, "        <style>%s\n        </style>\n", textCSS)
	buf.WriteString("    </defs>\n")
}

func gradientID(r styles.Role) string { return string(r) + "Gradient" }

func renderConnector(buf *bytes.Buffer, c orgchart.Connector) {
	fmt.Fprintf(buf, `    <line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="%s" `,
		c.X1, c.Y1, c.X2, c.Y2, c.Line.Color, num(c.Line.Width))
	if c.Line.Dash != "" {
		fmt.Fprintf(buf, `stroke-dasharray="%s" `, c.Line.Dash)
	}
	fmt.Fprintf(buf, "marker-end=\"url(#%s)\"/>\n", c.Line.Marker)

	if c.Label != "" {
		fmt.Fprintf(buf, "    <text x=\"%s\" y=\"%s\" class=\"percentage-text\" fill=\"#000000\">%s</text>\n",
			hierarchy.FormatDecimal(c.LabelX), hierarchy.FormatDecimal(c.LabelY-5), html.EscapeString(c.Label))
	}
}

func renderBox(buf *bytes.Buffer, b orgchart.Box, gradients bool) {
	fill := styles.None
	if gradients && b.Style.Filled() {
		fill = "url(#" + gradientID(b.Role) + ")"
	}
	fmt.Fprintf(buf, `    <rect x="%d" y="%d" width="%d" height="%d" fill="%s" stroke="%s" stroke-width="%s" rx="8" ry="8"/>`+"\n",
		b.X, b.Y, b.Width, b.Height, fill, html.EscapeString(b.Style.Stroke), num(b.Style.Width()))
	fmt.Fprintf(buf, "    <text x=\"%d\" y=\"%d\" class=\"entity-text\" fill=\"%s\">%s</text>\n",
		b.CenterX(), b.TextY(), html.EscapeString(b.Style.Text), html.EscapeString(b.Label))
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
