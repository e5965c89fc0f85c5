// Package orgchart turns an ownership graph into a styled diagram scene.
//
// The layout itself comes from [hierarchy.Compute]; this package binds it to
// a [styles.Theme] and marks the focus entity. The resulting [Scene] is what
// the encoders in the [sink] subpackage serialize:
//
//	g, _ := hierarchy.Decode(data)
//	scene := orgchart.ComputeScene(g, styles.Resolve("vibrant", nil), "opco")
//	svg := sink.RenderSVG(scene)
//
// [sink]: github.com/matzehuels/mcptools/pkg/render/orgchart/sink
package orgchart
