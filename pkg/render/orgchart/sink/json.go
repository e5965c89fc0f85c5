package sink

import (
	"encoding/json"

	"github.com/matzehuels/mcptools/pkg/render/orgchart"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	preset  string
	compact bool
}

// WithJSONPreset records the requested preset name in the output.
func WithJSONPreset(name string) JSONOption { return func(r *jsonRenderer) { r.preset = name } }

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

type jsonOutput struct {
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	MaxLevel    int             `json:"max_level"`
	Theme       string          `json:"theme"`
	Preset      string          `json:"preset,omitempty"`
	Focus       string          `json:"focus,omitempty"`
	Roots       []string        `json:"roots"`
	Boxes       []jsonBox       `json:"boxes"`
	Connections []jsonConnector `json:"connections"`
	Unreachable []string        `json:"unreachable,omitempty"`
}

type jsonBox struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Type        string  `json:"type"`
	Role        string  `json:"role"`
	Level       int     `json:"level"`
	Index       int     `json:"index"`
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"stroke_width"`
	Text        string  `json:"text"`
	Focused     bool    `json:"focused,omitempty"`
}

type jsonConnector struct {
	From       string   `json:"from"`
	To         string   `json:"to"`
	X1         int      `json:"x1"`
	Y1         int      `json:"y1"`
	X2         int      `json:"x2"`
	Y2         int      `json:"y2"`
	LabelX     float64  `json:"label_x"`
	LabelY     float64  `json:"label_y"`
	Label      string   `json:"label,omitempty"`
	Percentage *float64 `json:"percentage,omitempty"`
	Bucket     string   `json:"bucket"`
	Width      float64  `json:"stroke_width"`
	Dash       string   `json:"dash,omitempty"`
	Marker     string   `json:"marker"`
}

// RenderJSON exports the scene as a JSON document. The output is a plain
// description of every box and connector, suitable for clients that draw
// the diagram themselves.
func RenderJSON(s orgchart.Scene, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:       s.Width,
		Height:      s.Height,
		MaxLevel:    s.MaxLevel,
		Theme:       s.Theme.Name,
		Preset:      r.preset,
		Focus:       s.FocusID,
		Roots:       nonNil(s.Roots),
		Boxes:       make([]jsonBox, 0, len(s.Boxes)),
		Connections: make([]jsonConnector, 0, len(s.Connectors)),
		Unreachable: s.Unreachable,
	}
	for _, b := range s.Boxes {
		out.Boxes = append(out.Boxes, jsonBox{
			ID: b.ID, Label: b.Label, Type: string(b.Type), Role: string(b.Role),
			Level: b.Level, Index: b.Index,
			X: b.X, Y: b.Y, Width: b.Width, Height: b.Height,
			Fill: b.Style.Fill, Stroke: b.Style.Stroke, StrokeWidth: b.Style.Width(), Text: b.Style.Text,
			Focused: b.Focused,
		})
	}
	for _, c := range s.Connectors {
		out.Connections = append(out.Connections, jsonConnector{
			From: c.From, To: c.To,
			X1: c.X1, Y1: c.Y1, X2: c.X2, Y2: c.Y2,
			LabelX: c.LabelX, LabelY: c.LabelY,
			Label: c.Label, Percentage: c.Percentage,
			Bucket: string(c.Bucket), Width: c.Line.Width, Dash: c.Line.Dash, Marker: c.Line.Marker,
		})
	}

	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
