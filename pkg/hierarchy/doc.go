// Package hierarchy computes deterministic 2-D layouts for ownership graphs.
//
// An ownership graph is a set of entities (people, investors, trusts,
// foundations and companies), each naming zero or more parents, optionally
// with an ownership percentage. The package turns such a graph into tiers of
// boxes with connectors between parents and children.
//
// # Pipeline
//
// [Compute] runs four stages, each available on its own for testing:
//
//  1. [FindRoots]: entities without parents, in input order. A graph without
//     any such entity uses its first entity as a synthetic root.
//  2. [AssignLevels]: a depth-first walk from every root over a precomputed
//     parent-to-children index. A single visited set is shared by all roots,
//     so an entity keeps the level at which it was first discovered. Entities
//     unreachable from any root get no level and are left out of the layout.
//  3. [GroupByLevel]: ids per level in first-discovery order.
//  4. [PlacePositions] and [Connect]: every level is centered on the canvas;
//     connectors run from a parent's bottom-center to a child's top-center
//     and are classified into a [Bucket] by ownership percentage.
//
// # Input
//
// [Decode] reads the JSON entity mapping while preserving key order, which
// is the "input order" every stage refers to. Malformed values never fail a
// decode: they degrade to defaults and are reported as [ParseIssue] values.
//
//	g, issues := hierarchy.Decode([]byte(`{
//	    "holding": {"name": "Holding BV", "parents": []},
//	    "ops":     {"name": "Ops BV", "parents": [{"id": "holding", "percentage": "60%"}]}
//	}`))
//	l := hierarchy.Compute(g)
//	// l.Levels.ByID: holding=0, ops=1
//	// l.Connections[0].Bucket == hierarchy.BucketMajority
//
// All functions are pure and safe for concurrent use on distinct inputs.
package hierarchy
