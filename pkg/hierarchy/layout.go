package hierarchy

// Dimensions holds the fixed geometry of a diagram, in pixels.
type Dimensions struct {
	CanvasWidth  int `json:"canvas_width" toml:"canvas_width"`
	BoxWidth     int `json:"box_width" toml:"box_width"`
	BoxHeight    int `json:"box_height" toml:"box_height"`
	Margin       int `json:"margin" toml:"margin"`               // horizontal gap between boxes
	TopOffset    int `json:"top_offset" toml:"top_offset"`       // top edge of tier 0
	LevelSpacing int `json:"level_spacing" toml:"level_spacing"` // vertical distance between tiers
	BaseHeight   int `json:"base_height" toml:"base_height"`     // canvas height before tiers are added
}

// DefaultDimensions returns the standard 900px-wide diagram geometry.
func DefaultDimensions() Dimensions {
	return Dimensions{
		CanvasWidth:  900,
		BoxWidth:     180,
		BoxHeight:    70,
		Margin:       20,
		TopOffset:    80,
		LevelSpacing: 120,
		BaseHeight:   200,
	}
}

// CanvasHeight returns the height needed for tiers 0..maxLevel.
func (d Dimensions) CanvasHeight(maxLevel int) int {
	return d.BaseHeight + (maxLevel+1)*d.LevelSpacing
}

// Position is the placement of one box. X and Y are the box center.
type Position struct {
	ID     string `json:"id"`
	Level  int    `json:"level"`
	Index  int    `json:"index"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (p Position) Left() int { return p.X - p.Width/2 }
func (p Position) Top() int  { return p.Y - p.Height/2 }

// BottomCenter is where outgoing connectors start.
func (p Position) BottomCenter() (x, y int) { return p.X, p.Y + p.Height/2 }

// TopCenter is where incoming connectors end.
func (p Position) TopCenter() (x, y int) { return p.X, p.Y - p.Height/2 }

// PlacePositions centers every tier horizontally on the canvas. Rows wider
// than the canvas start at a negative x and are not clamped.
func PlacePositions(groups [][]string, d Dimensions) map[string]Position {
	positions := make(map[string]Position)
	step := d.BoxWidth + d.Margin
	for level, ids := range groups {
		n := len(ids)
		if n == 0 {
			continue
		}
		rowWidth := n*d.BoxWidth + (n-1)*d.Margin
		startX := floorDiv(d.CanvasWidth-rowWidth, 2)
		y := d.TopOffset + level*d.LevelSpacing + d.BoxHeight/2
		for i, id := range ids {
			positions[id] = Position{
				ID:     id,
				Level:  level,
				Index:  i,
				X:      startX + i*step + d.BoxWidth/2,
				Y:      y,
				Width:  d.BoxWidth,
				Height: d.BoxHeight,
			}
		}
	}
	return positions
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Layout is the complete geometry of an ownership diagram.
type Layout struct {
	Dimensions  Dimensions
	Roots       []string
	Levels      Levels
	Groups      [][]string
	Positions   map[string]Position
	Connections []Connection
	Width       int
	Height      int
}

// Option configures [Compute].
type Option func(*Dimensions)

// WithDimensions replaces the default geometry.
func WithDimensions(d Dimensions) Option { return func(o *Dimensions) { *o = d } }

// WithCanvasWidth overrides only the canvas width.
func WithCanvasWidth(w int) Option { return func(o *Dimensions) { o.CanvasWidth = w } }

// Compute runs root discovery, level assignment, grouping, placement and
// connector derivation. An empty or nil graph yields an empty layout sized
// for a single tier.
func Compute(g *Graph, opts ...Option) Layout {
	d := DefaultDimensions()
	for _, opt := range opts {
		opt(&d)
	}

	roots := FindRoots(g)
	levels := AssignLevels(g, roots)
	groups := GroupByLevel(levels)
	positions := PlacePositions(groups, d)

	return Layout{
		Dimensions:  d,
		Roots:       roots,
		Levels:      levels,
		Groups:      groups,
		Positions:   positions,
		Connections: Connect(g, positions),
		Width:       d.CanvasWidth,
		Height:      d.CanvasHeight(levels.Max),
	}
}

// Placed returns the ids that received a position, tier by tier.
func (l Layout) Placed() []string {
	var ids []string
	for _, tier := range l.Groups {
		ids = append(ids, tier...)
	}
	return ids
}
