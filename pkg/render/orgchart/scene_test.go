package orgchart

import (
	"testing"

	"github.com/matzehuels/mcptools/pkg/hierarchy"
	"github.com/matzehuels/mcptools/pkg/render/orgchart/styles"
)

func sampleGraph() *hierarchy.Graph {
	return hierarchy.NewGraph(
		hierarchy.Entity{ID: "founder", Name: "Jane Doe", Type: hierarchy.TypePerson},
		hierarchy.Entity{ID: "holding", Name: "Holding AG", Parents: []hierarchy.ParentRef{
			hierarchy.Weighted("founder", hierarchy.Percent(80)),
		}},
		hierarchy.Entity{ID: "opco", Parents: []hierarchy.ParentRef{
			hierarchy.Weighted("holding", hierarchy.Percent(30)),
			hierarchy.Plain("founder"),
		}},
		hierarchy.Entity{ID: "lost", Parents: []hierarchy.ParentRef{hierarchy.Plain("nobody")}},
	)
}

func TestComputeScene(t *testing.T) {
	th := styles.Resolve(styles.Professional, nil)
	s := ComputeScene(sampleGraph(), th, "holding")

	if s.Width != 900 || s.Height != 200+3*120 {
		t.Errorf("size = %dx%d, want 900x560", s.Width, s.Height)
	}
	if len(s.Boxes) != 3 {
		t.Fatalf("got %d boxes, want 3", len(s.Boxes))
	}
	if len(s.Unreachable) != 1 || s.Unreachable[0] != "lost" {
		t.Errorf("Unreachable = %v, want [lost]", s.Unreachable)
	}

	founder, _ := s.Box("founder")
	if founder.Role != styles.RolePerson || founder.Style != th.For(styles.RolePerson) {
		t.Errorf("founder styled as %s %+v", founder.Role, founder.Style)
	}
	if founder.X != 360 || founder.Y != 80 || founder.CenterX() != 450 || founder.TextY() != 119 {
		t.Errorf("founder box at (%d,%d)", founder.X, founder.Y)
	}

	holding, _ := s.Box("holding")
	if !holding.Focused || holding.Role != styles.RoleFocus || holding.Style.Width() != 4 {
		t.Errorf("holding should be focused: %+v", holding)
	}

	opco, _ := s.Box("opco")
	if opco.Label != "opco" || opco.Level != 2 {
		t.Errorf("opco = %+v", opco)
	}

	if len(s.Connectors) != 3 {
		t.Fatalf("got %d connectors, want 3", len(s.Connectors))
	}
	wantBuckets := []hierarchy.Bucket{hierarchy.BucketMajority, hierarchy.BucketMinority, hierarchy.BucketDefault}
	for i, c := range s.Connectors {
		if c.Bucket != wantBuckets[i] {
			t.Errorf("connector %d (%s->%s) bucket = %s, want %s", i, c.From, c.To, c.Bucket, wantBuckets[i])
		}
	}
	if s.Connectors[0].Label != "80%" || s.Connectors[2].Label != "" {
		t.Errorf("labels = %q, %q", s.Connectors[0].Label, s.Connectors[2].Label)
	}
}

func TestComputeSceneUnknownFocus(t *testing.T) {
	s := ComputeScene(sampleGraph(), styles.Resolve("", nil), "ghost")
	if s.FocusID != "" {
		t.Errorf("FocusID = %q, want empty", s.FocusID)
	}
	for _, b := range s.Boxes {
		if b.Focused {
			t.Errorf("%s focused without a matching focus id", b.ID)
		}
	}
}

func TestComputeSceneEmpty(t *testing.T) {
	s := ComputeScene(hierarchy.NewGraph(), styles.Resolve("", nil), "")
	if len(s.Boxes) != 0 || len(s.Connectors) != 0 {
		t.Errorf("empty graph produced %d boxes, %d connectors", len(s.Boxes), len(s.Connectors))
	}
	if s.Height != 320 {
		t.Errorf("Height = %d, want 320", s.Height)
	}
}
