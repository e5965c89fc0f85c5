// Package sink encodes an [orgchart.Scene] into output formats.
//
// [RenderSVG] produces the diagram itself: gradient definitions per theme
// role, arrow markers, connectors styled by ownership bucket and one rounded
// box per entity. [RenderJSON] emits the same scene as data. [RenderPNG] and
// [RenderPDF] rasterize the SVG through rsvg-convert.
//
// [ErrorSVG] is the fixed placeholder returned when drawing fails.
package sink
