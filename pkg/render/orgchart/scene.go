package orgchart

import (
	"github.com/matzehuels/mcptools/pkg/hierarchy"
	"github.com/matzehuels/mcptools/pkg/render/orgchart/styles"
)

// Scene is a fully resolved ownership diagram: geometry from the layout
// engine bound to the colors of a theme. Sinks only serialize a scene.
type Scene struct {
	Width       int
	Height      int
	MaxLevel    int
	Roots       []string
	Theme       styles.Theme
	Boxes       []Box
	Connectors  []Connector
	Dimensions  hierarchy.Dimensions
	FocusID     string
	Unreachable []string // entities that were not placed
}

// Box is one entity box. X and Y are the top-left corner.
type Box struct {
	ID      string
	Label   string
	Type    hierarchy.EntityType
	Role    styles.Role
	Level   int
	Index   int
	X, Y    int
	Width   int
	Height  int
	Style   styles.RoleStyle
	Focused bool
}

// CenterX returns the horizontal center, where the label is anchored.
func (b Box) CenterX() int { return b.X + b.Width/2 }

// TextY returns the label baseline.
func (b Box) TextY() int { return b.Y + b.Height/2 + 4 }

// Connector is a styled parent-to-child line.
type Connector struct {
	From, To       string
	X1, Y1, X2, Y2 int
	LabelX, LabelY float64
	Label          string
	Percentage     *float64
	Bucket         hierarchy.Bucket
	Line           hierarchy.LineStyle
}

// ComputeScene lays out g and styles the result with theme. The entity whose
// id equals focusID (if any) takes the focus role. ComputeScene is pure and
// safe to call concurrently on distinct or shared graphs.
func ComputeScene(g *hierarchy.Graph, theme styles.Theme, focusID string, opts ...hierarchy.Option) Scene {
	l := hierarchy.Compute(g, opts...)

	s := Scene{
		Width:      l.Width,
		Height:     l.Height,
		MaxLevel:   l.Levels.Max,
		Roots:      l.Roots,
		Theme:      theme,
		Dimensions: l.Dimensions,
	}
	if _, ok := g.Entity(focusID); ok {
		s.FocusID = focusID
	}

	for _, id := range l.Placed() {
		e, _ := g.Entity(id)
		p := l.Positions[id]
		role := styles.RoleFor(e.Type)
		focused := s.FocusID != "" && id == s.FocusID
		if focused {
			role = styles.RoleFocus
		}
		s.Boxes = append(s.Boxes, Box{
			ID:      id,
			Label:   e.Label(),
			Type:    e.Type,
			Role:    role,
			Level:   p.Level,
			Index:   p.Index,
			X:       p.Left(),
			Y:       p.Top(),
			Width:   p.Width,
			Height:  p.Height,
			Style:   theme.For(role),
			Focused: focused,
		})
	}

	for _, c := range l.Connections {
		s.Connectors = append(s.Connectors, Connector{
			From:       c.ParentID,
			To:         c.ChildID,
			X1:         c.X1,
			Y1:         c.Y1,
			X2:         c.X2,
			Y2:         c.Y2,
			LabelX:     c.LabelX,
			LabelY:     c.LabelY,
			Label:      c.Label(),
			Percentage: c.Percentage,
			Bucket:     c.Bucket,
			Line:       c.Bucket.Line(),
		})
	}

	for _, e := range g.Entities() {
		if _, ok := l.Positions[e.ID]; !ok {
			s.Unreachable = append(s.Unreachable, e.ID)
		}
	}
	return s
}

// Box looks up the box of an entity.
func (s Scene) Box(id string) (Box, bool) {
	for _, b := range s.Boxes {
		if b.ID == id {
			return b, true
		}
	}
	return Box{}, false
}
