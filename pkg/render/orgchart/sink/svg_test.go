package sink

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/mcptools/pkg/hierarchy"
	"github.com/matzehuels/mcptools/pkg/render/orgchart"
	"github.com/matzehuels/mcptools/pkg/render/orgchart/styles"
)

func scene(t *testing.T, preset, focus string) orgchart.Scene {
	t.Helper()
	g, issues := hierarchy.Decode([]byte(`{
		"p": {"name": "Parent & Co", "type": "person"},
		"c1": {"name": "Child <One>", "parents": [{"id": "p", "percentage": 60}]},
		"c2": {"name": "Child Two", "parents": [{"id": "p", "percentage": "30%"}]},
		"c3": {"parents": ["p"]}
	}`))
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	return orgchart.ComputeScene(g, styles.Resolve(preset, nil), focus)
}

func wellFormed(t *testing.T, data []byte) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		_, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return
			}
			t.Fatalf("SVG is not well-formed XML: %v\n%s", err, data)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	svg := RenderSVG(scene(t, styles.Professional, "c2"))
	wellFormed(t, svg)
	out := string(svg)

	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`<svg width="900" height="440" xmlns="http://www.w3.org/2000/svg">`,
		`<marker id="arrowhead"`,
		`<marker id="majority-arrow"`,
		`<marker id="minority-arrow"`,
		`<marker id="joint-arrow"`,
		`<linearGradient id="personGradient"`,
		`<linearGradient id="focus_companyGradient"`,
		`.entity-text`,
		`.percentage-text`,
		`<rect width="900" height="440" fill="transparent"/>`,
		// p -> c1, 60%: majority
		`<line x1="450" y1="150" x2="250" y2="200" stroke="#999999" stroke-width="3" marker-end="url(#majority-arrow)"/>`,
		`<text x="350.0" y="170.0" class="percentage-text" fill="#000000">60.0%</text>`,
		// p -> c2, 30%: minority, dashed
		`stroke-width="2" stroke-dasharray="5,5" marker-end="url(#minority-arrow)"`,
		// p -> c3: no label, thinnest
		`<line x1="450" y1="150" x2="650" y2="200" stroke="#999999" stroke-width="1.5" marker-end="url(#arrowhead)"/>`,
		`<rect x="360" y="80" width="180" height="70" fill="url(#personGradient)" stroke="#2C3E50" stroke-width="2" rx="8" ry="8"/>`,
		`fill="url(#focus_companyGradient)" stroke="#FF0000" stroke-width="4"`,
		`>Parent &amp; Co</text>`,
		`>Child &lt;One&gt;</text>`,
		`>c3</text>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderSVG() missing %q", want)
		}
	}

	if strings.Index(out, "<line") > strings.Index(out, `rx="8"`) {
		t.Error("connectors must be drawn before boxes")
	}
	if n := strings.Count(out, "percentage-text\" fill"); n != 2 {
		t.Errorf("got %d percentage labels, want 2", n)
	}
}

func TestRenderSVGMinimal(t *testing.T) {
	out := string(RenderSVG(scene(t, styles.Minimal, "")))
	if strings.Contains(out, "linearGradient") {
		t.Error("minimal preset should not define gradients")
	}
	if !strings.Contains(out, `fill="none" stroke="#000000"`) {
		t.Error("minimal boxes should be unfilled with black stroke")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	out := string(RenderSVG(scene(t, "", ""), WithBackground("#ffffff"), WithTitle("Group <structure>"), WithoutXMLHeader()))
	if strings.HasPrefix(out, "<?xml") {
		t.Error("WithoutXMLHeader should drop the declaration")
	}
	if !strings.Contains(out, `fill="#ffffff"/>`) {
		t.Error("WithBackground not applied")
	}
	if !strings.Contains(out, "<title>Group &lt;structure&gt;</title>") {
		t.Error("WithTitle not applied or not escaped")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	s := orgchart.ComputeScene(hierarchy.NewGraph(), styles.Resolve("", nil), "")
	svg := RenderSVG(s)
	wellFormed(t, svg)
	if !strings.Contains(string(svg), `<svg width="900" height="320"`) {
		t.Errorf("empty scene header wrong:\n%s", svg)
	}
	if strings.Contains(string(svg), "<line") || strings.Contains(string(svg), `rx="8"`) {
		t.Error("empty scene should have no connectors or boxes")
	}
}

func TestErrorSVG(t *testing.T) {
	svg := ErrorSVG(`bad <input> & "stuff"`)
	wellFormed(t, svg)
	out := string(svg)
	for _, want := range []string{
		"<svg width='400' height='200'",
		`<rect width="400" height="200" fill="#f8f9fa"/>`,
		"fill='#e74c3c'",
		"Error generating diagram: bad &lt;input&gt; &amp;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ErrorSVG() missing %q in:\n%s", want, out)
		}
	}
}
