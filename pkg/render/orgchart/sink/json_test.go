package sink

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/mcptools/pkg/render/orgchart/styles"
)

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(scene(t, styles.Pastel, "c1"), WithJSONPreset("pastel"))
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Width != 900 || out.Height != 440 || out.MaxLevel != 1 {
		t.Errorf("size = %dx%d max=%d", out.Width, out.Height, out.MaxLevel)
	}
	if out.Theme != styles.Pastel || out.Preset != "pastel" || out.Focus != "c1" {
		t.Errorf("theme=%q preset=%q focus=%q", out.Theme, out.Preset, out.Focus)
	}
	if len(out.Boxes) != 4 || len(out.Connections) != 3 {
		t.Fatalf("got %d boxes, %d connections", len(out.Boxes), len(out.Connections))
	}
	if !out.Boxes[1].Focused || out.Boxes[1].Role != "focus_company" {
		t.Errorf("c1 box = %+v", out.Boxes[1])
	}
	c := out.Connections[0]
	if c.Bucket != "majority" || c.Label != "60.0%" || c.Percentage == nil || *c.Percentage != 60 {
		t.Errorf("first connection = %+v", c)
	}
	if out.Connections[2].Percentage != nil {
		t.Errorf("plain reference should have no percentage: %+v", out.Connections[2])
	}
}

func TestRenderJSONCompact(t *testing.T) {
	data, err := RenderJSON(scene(t, "", ""), WithJSONCompact())
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	for _, b := range data {
		if b == '\n' {
			t.Fatal("compact output contains newlines")
		}
	}
}
