package hierarchy

// Bucket is the connector style class derived from an ownership percentage.
type Bucket string

const (
	BucketDefault  Bucket = "default"
	BucketMinority Bucket = "minority"
	BucketMajority Bucket = "majority"
)

// Ownership thresholds, in percent.
const (
	MajorityThreshold = 50.0
	MinorityThreshold = 25.0
)

// ConnectorColor is the stroke color shared by all connectors.
const ConnectorColor = "#999999"

// Classify maps a resolved percentage onto a bucket. Absent percentages are
// [BucketDefault].
func Classify(pct *float64) Bucket {
	switch {
	case pct == nil:
		return BucketDefault
	case *pct >= MajorityThreshold:
		return BucketMajority
	case *pct >= MinorityThreshold:
		return BucketMinority
	default:
		return BucketDefault
	}
}

// LineStyle is the stroke used for a bucket.
type LineStyle struct {
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Dash   string  `json:"dash,omitempty"`
	Marker string  `json:"marker"`
}

// Line returns the stroke for b. Majority lines are the widest and solid,
// minority lines dashed, default lines the thinnest.
func (b Bucket) Line() LineStyle {
	switch b {
	case BucketMajority:
		return LineStyle{Color: ConnectorColor, Width: 3, Marker: "majority-arrow"}
	case BucketMinority:
		return LineStyle{Color: ConnectorColor, Width: 2, Dash: "5,5", Marker: "minority-arrow"}
	default:
		return LineStyle{Color: ConnectorColor, Width: 1.5, Marker: "arrowhead"}
	}
}

// Connection is a connector from a parent box to a child box.
type Connection struct {
	ParentID   string
	ChildID    string
	X1, Y1     int // parent bottom-center
	X2, Y2     int // child top-center
	LabelX     float64
	LabelY     float64
	Percentage *float64
	Bucket     Bucket
}

// Label returns the percentage label, or "" when no percentage is known.
func (c Connection) Label() string {
	if c.Percentage == nil {
		return ""
	}
	return FormatPercentage(*c.Percentage)
}

// Connect derives one connection per parent reference whose parent and
// child both have a position. Other references are skipped silently.
func Connect(g *Graph, positions map[string]Position) []Connection {
	var conns []Connection
	for _, e := range g.Entities() {
		child, ok := positions[e.ID]
		if !ok {
			continue
		}
		for _, ref := range e.Parents {
			parent, ok := positions[ref.ID]
			if !ok {
				continue
			}
			x1, y1 := parent.BottomCenter()
			x2, y2 := child.TopCenter()
			conns = append(conns, Connection{
				ParentID:   ref.ID,
				ChildID:    e.ID,
				X1:         x1,
				Y1:         y1,
				X2:         x2,
				Y2:         y2,
				LabelX:     float64(x1+x2) / 2,
				LabelY:     float64(y1+y2) / 2,
				Percentage: ref.Percentage,
				Bucket:     Classify(ref.Percentage),
			})
		}
	}
	return conns
}
