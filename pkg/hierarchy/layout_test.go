package hierarchy

import (
	"testing"
)

func TestPlacePositions(t *testing.T) {
	d := DefaultDimensions()
	pos := PlacePositions([][]string{{"p"}, {"c1", "c2"}}, d)

	tests := []struct {
		id   string
		x, y int
	}{
		{"p", 450, 115},
		{"c1", 350, 235},
		{"c2", 550, 235},
	}
	for _, tt := range tests {
		p, ok := pos[tt.id]
		if !ok {
			t.Fatalf("%s not placed", tt.id)
		}
		if p.X != tt.x || p.Y != tt.y {
			t.Errorf("%s at (%d,%d), want (%d,%d)", tt.id, p.X, p.Y, tt.x, tt.y)
		}
	}
	if got := pos["c1"].Left(); got != 260 {
		t.Errorf("c1 Left() = %d, want 260", got)
	}
	if got := pos["c1"].Top(); got != 200 {
		t.Errorf("c1 Top() = %d, want 200", got)
	}
}

func TestPlacePositionsOverflow(t *testing.T) {
	d := DefaultDimensions()
	pos := PlacePositions([][]string{{"a", "b", "c", "d", "e"}}, d)
	// 5*180 + 4*20 = 980, so the row starts at (900-980)/2 = -40.
	if got := pos["a"].Left(); got != -40 {
		t.Errorf("a Left() = %d, want -40", got)
	}
	if got := pos["e"].Left(); got != -40+4*200 {
		t.Errorf("e Left() = %d, want %d", got, -40+4*200)
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{10, 2, 5},
		{11, 2, 5},
		{-80, 2, -40},
		{-81, 2, -41},
		{-1, 2, -1},
		{0, 2, 0},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestComputeHeight(t *testing.T) {
	tests := []struct {
		name  string
		graph *Graph
		want  int
	}{
		{"Empty", NewGraph(), 320},
		{"Nil", nil, 320},
		{"Single", NewGraph(Entity{ID: "a"}), 320},
		{
			"TwoTiers",
			NewGraph(Entity{ID: "a"}, Entity{ID: "b", Parents: []ParentRef{Plain("a")}}),
			440,
		},
		{
			"Cycle",
			NewGraph(
				Entity{ID: "a", Parents: []ParentRef{Plain("b")}},
				Entity{ID: "b", Parents: []ParentRef{Plain("a")}},
			),
			560,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Compute(tt.graph)
			if l.Height != tt.want {
				t.Errorf("Height = %d, want %d", l.Height, tt.want)
			}
			if l.Width != 900 {
				t.Errorf("Width = %d, want 900", l.Width)
			}
		})
	}
}

func TestComputeEmpty(t *testing.T) {
	l := Compute(NewGraph())
	if len(l.Positions) != 0 || len(l.Connections) != 0 || len(l.Roots) != 0 {
		t.Errorf("empty graph produced %d positions, %d connections, %d roots",
			len(l.Positions), len(l.Connections), len(l.Roots))
	}
}

func TestComputeChildrenBelowParents(t *testing.T) {
	// Two roots feed a joint venture; the venture and a subsidiary both own
	// the leaf, so the fixture spans four tiers with several multi-parent
	// entities.
	g := NewGraph(
		Entity{ID: "r1"},
		Entity{ID: "r2"},
		Entity{ID: "a", Parents: []ParentRef{Plain("r1")}},
		Entity{ID: "jv", Parents: []ParentRef{Weighted("r1", Percent(50)), Weighted("r2", Percent(50))}},
		Entity{ID: "b", Parents: []ParentRef{Plain("a")}},
		Entity{ID: "sub", Parents: []ParentRef{Plain("jv")}},
		Entity{ID: "leaf", Parents: []ParentRef{Weighted("b", Percent(30)), Plain("sub")}},
	)
	l := Compute(g)

	if l.Levels.Max != 3 {
		t.Fatalf("Max level = %d, want 3", l.Levels.Max)
	}
	if len(l.Connections) != 7 {
		t.Fatalf("got %d connections, want 7", len(l.Connections))
	}
	for _, c := range l.Connections {
		if c.Y1 >= c.Y2 {
			t.Errorf("%s -> %s: parent bottom y=%d not above child top y=%d", c.ParentID, c.ChildID, c.Y1, c.Y2)
		}
		if l.Positions[c.ParentID].Y >= l.Positions[c.ChildID].Y {
			t.Errorf("%s -> %s: child center not below parent", c.ParentID, c.ChildID)
		}
		if l.Levels.ByID[c.ChildID] <= l.Levels.ByID[c.ParentID] {
			t.Errorf("%s -> %s: level %d not below %d", c.ParentID, c.ChildID,
				l.Levels.ByID[c.ChildID], l.Levels.ByID[c.ParentID])
		}
	}
}

func TestComputeConnections(t *testing.T) {
	g := NewGraph(
		Entity{ID: "p"},
		Entity{ID: "c", Parents: []ParentRef{Weighted("p", Percent(60))}},
		Entity{ID: "orphan", Parents: []ParentRef{Plain("ghost")}},
	)
	l := Compute(g)

	if _, ok := l.Positions["orphan"]; ok {
		t.Error("orphan should not be placed")
	}
	if len(l.Connections) != 1 {
		t.Fatalf("got %d connections, want 1", len(l.Connections))
	}
	c := l.Connections[0]
	if c.X1 != 450 || c.Y1 != 150 || c.X2 != 450 || c.Y2 != 200 {
		t.Errorf("connection = (%d,%d)->(%d,%d), want (450,150)->(450,200)", c.X1, c.Y1, c.X2, c.Y2)
	}
	if c.LabelX != 450 || c.LabelY != 175 {
		t.Errorf("label at (%v,%v), want (450,175)", c.LabelX, c.LabelY)
	}
	if c.Label() != "60.0%" {
		t.Errorf("Label() = %q, want 60.0%%", c.Label())
	}
	if c.Bucket != BucketMajority {
		t.Errorf("Bucket = %s, want majority", c.Bucket)
	}
}

func TestComputeMultiParent(t *testing.T) {
	g := NewGraph(
		Entity{ID: "a"},
		Entity{ID: "b"},
		Entity{ID: "c", Parents: []ParentRef{Weighted("a", Percent(30)), Plain("b")}},
	)
	l := Compute(g)
	if len(l.Positions) != 3 {
		t.Fatalf("placed %d entities, want 3", len(l.Positions))
	}
	if len(l.Connections) != 2 {
		t.Fatalf("got %d connections, want 2", len(l.Connections))
	}
	if l.Connections[0].Bucket != BucketMinority {
		t.Errorf("a->c bucket = %s, want minority", l.Connections[0].Bucket)
	}
	if l.Connections[1].Label() != "" {
		t.Errorf("b->c label = %q, want empty", l.Connections[1].Label())
	}
}

func TestComputeDisconnectedRoots(t *testing.T) {
	g := NewGraph(
		Entity{ID: "a"},
		Entity{ID: "a1", Parents: []ParentRef{Plain("a")}},
		Entity{ID: "b"},
		Entity{ID: "b1", Parents: []ParentRef{Plain("b")}},
	)
	l := Compute(g)
	if len(l.Groups) != 2 || len(l.Groups[0]) != 2 || len(l.Groups[1]) != 2 {
		t.Fatalf("Groups = %v, want two tiers of two", l.Groups)
	}
	if l.Positions["a"].X >= l.Positions["b"].X {
		t.Error("roots should keep input order left to right")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		pct  *float64
		want Bucket
	}{
		{nil, BucketDefault},
		{Percent(0), BucketDefault},
		{Percent(24.9), BucketDefault},
		{Percent(25), BucketMinority},
		{Percent(49.99), BucketMinority},
		{Percent(50), BucketMajority},
		{Percent(100), BucketMajority},
		{Percent(150), BucketMajority},
	}
	for _, tt := range tests {
		if got := Classify(tt.pct); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}

func TestBucketLineOrdering(t *testing.T) {
	maj, minor, def := BucketMajority.Line(), BucketMinority.Line(), BucketDefault.Line()
	if !(maj.Width > minor.Width && minor.Width > def.Width) {
		t.Errorf("widths not ordered: %v %v %v", maj.Width, minor.Width, def.Width)
	}
	if maj.Dash != "" || minor.Dash == "" {
		t.Errorf("majority must be solid and minority dashed: %q %q", maj.Dash, minor.Dash)
	}
}
