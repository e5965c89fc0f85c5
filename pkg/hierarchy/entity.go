package hierarchy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
)

// EntityType classifies an entity for styling. It never affects geometry.
type EntityType string

const (
	TypePerson     EntityType = "person"
	TypeInvestor   EntityType = "investor"
	TypeTrust      EntityType = "trust"
	TypeFoundation EntityType = "foundation"
	TypeCompany    EntityType = "company"
)

// EntityTypes lists every known type in display order.
var EntityTypes = []EntityType{TypePerson, TypeInvestor, TypeTrust, TypeFoundation, TypeCompany}

// ParseEntityType maps s onto a known type, falling back to [TypeCompany].
func ParseEntityType(s string) (EntityType, bool) {
	t := EntityType(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(EntityTypes, t) {
		return t, true
	}
	return TypeCompany, false
}

// ParentRef references a parent entity. A plain reference carries only the
// id; a weighted reference also carries an ownership percentage, which is nil
// when the input value was missing or could not be parsed.
type ParentRef struct {
	ID         string
	Percentage *float64
	Weighted   bool
}

// Plain returns a reference without ownership information.
func Plain(id string) ParentRef { return ParentRef{ID: id} }

// Weighted returns a reference with an optional ownership percentage.
func Weighted(id string, pct *float64) ParentRef {
	return ParentRef{ID: id, Percentage: pct, Weighted: true}
}

// Percent is a helper for building weighted references in code and tests.
func Percent(v float64) *float64 { return &v }

// Entity is a node in the ownership graph.
type Entity struct {
	ID      string
	Name    string
	Type    EntityType
	Parents []ParentRef

	// dropped counts declared parent references that could not be parsed.
	// They still make the entity a non-root.
	dropped int
}

// Label returns the display name, falling back to the id.
func (e Entity) Label() string {
	if e.Name == "" {
		return e.ID
	}
	return e.Name
}

// IsRoot reports whether the entity declared no parents at all.
func (e Entity) IsRoot() bool {
	return len(e.Parents) == 0 && e.dropped == 0
}

// Graph is an ordered set of entities keyed by id.
type Graph struct {
	entities []Entity
	index    map[string]int
}

// NewGraph builds a graph from entities in the given order. A later entity
// with an id already present replaces the earlier one in place.
func NewGraph(entities ...Entity) *Graph {
	g := &Graph{index: make(map[string]int, len(entities))}
	for _, e := range entities {
		g.put(e)
	}
	return g
}

func (g *Graph) put(e Entity) {
	if e.Type == "" {
		e.Type = TypeCompany
	}
	if i, ok := g.index[e.ID]; ok {
		g.entities[i] = e
		return
	}
	g.index[e.ID] = len(g.entities)
	g.entities = append(g.entities, e)
}

// Len returns the number of entities.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.entities)
}

// Entities returns the entities in input order.
func (g *Graph) Entities() []Entity {
	if g == nil {
		return nil
	}
	return g.entities
}

// Entity looks up an entity by id.
func (g *Graph) Entity(id string) (Entity, bool) {
	if g == nil {
		return Entity{}, false
	}
	i, ok := g.index[id]
	if !ok {
		return Entity{}, false
	}
	return g.entities[i], true
}

// Children returns the parent-to-children index. Children appear in input
// order and each child is listed at most once per parent, even if it names
// the same parent twice.
func (g *Graph) Children() map[string][]string {
	children := make(map[string][]string)
	for _, e := range g.Entities() {
		seen := make(map[string]bool, len(e.Parents))
		for _, p := range e.Parents {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			children[p.ID] = append(children[p.ID], e.ID)
		}
	}
	return children
}

// Decode reads a JSON object mapping entity ids to entity descriptions. Key
// order is preserved. Input that is not a JSON object yields an empty graph
// and a single issue; malformed fields degrade to defaults with an issue each.
func Decode(data []byte) (*Graph, []ParseIssue) {
	g := NewGraph()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return g, nil
		}
		return g, []ParseIssue{{Field: "entities", Reason: err.Error()}}
	}
	if tok == nil {
		return g, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return g, []ParseIssue{{Field: "entities", Reason: "expected an object of entities"}}
	}

	var issues []ParseIssue
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return g, append(issues, ParseIssue{Field: "entities", Reason: err.Error()})
		}
		id, _ := keyTok.(string)
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return g, append(issues, ParseIssue{EntityID: id, Field: "entities", Reason: err.Error()})
		}
		e, entIssues := entityFrom(id, raw)
		g.put(e)
		issues = append(issues, entIssues...)
	}
	return g, issues
}

// FromMap builds a graph from an already decoded mapping. Go maps carry no
// order, so ids are taken in lexical order.
func FromMap(m map[string]any) (*Graph, []ParseIssue) {
	g := NewGraph()
	var issues []ParseIssue
	for _, id := range sortedKeys(m) {
		e, entIssues := entityFrom(id, m[id])
		g.put(e)
		issues = append(issues, entIssues...)
	}
	return g, issues
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func entityFrom(id string, raw any) (Entity, []ParseIssue) {
	e := Entity{ID: id, Type: TypeCompany}
	if raw == nil {
		return e, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return e, []ParseIssue{{EntityID: id, Field: "entity", Reason: fmt.Sprintf("expected object, got %T", raw)}}
	}

	var issues []ParseIssue
	if name, ok := obj["name"].(string); ok {
		e.Name = name
	}
	if v, present := obj["type"]; present && v != nil {
		s, _ := v.(string)
		t, known := ParseEntityType(s)
		e.Type = t
		if !known {
			issues = append(issues, ParseIssue{EntityID: id, Field: "type", Reason: fmt.Sprintf("unknown type %v, using company", v)})
		}
	}

	switch parents := obj["parents"].(type) {
	case nil:
	case []any:
		for i, p := range parents {
			ref, issue, ok := parentFrom(p)
			if !ok {
				e.dropped++
				issues = append(issues, ParseIssue{EntityID: id, Field: fmt.Sprintf("parents[%d]", i), Reason: issue})
				continue
			}
			if issue != "" {
				issues = append(issues, ParseIssue{EntityID: id, Field: fmt.Sprintf("parents[%d].percentage", i), Reason: issue})
			}
			e.Parents = append(e.Parents, ref)
		}
	default:
		e.dropped++
		issues = append(issues, ParseIssue{EntityID: id, Field: "parents", Reason: fmt.Sprintf("expected array, got %T", parents)})
	}
	return e, issues
}

// parentFrom resolves one parent reference. A non-empty issue with ok=true
// means the reference was kept but its percentage was dropped.
func parentFrom(v any) (ref ParentRef, issue string, ok bool) {
	switch p := v.(type) {
	case string:
		return Plain(p), "", true
	case map[string]any:
		id, _ := p["id"].(string)
		if id == "" {
			return ParentRef{}, "structured reference without id", false
		}
		raw, present := p["percentage"]
		if !present || raw == nil {
			return Weighted(id, nil), "", true
		}
		pct, err := ParsePercentage(raw)
		if err != nil {
			return Weighted(id, nil), err.Error(), true
		}
		return Weighted(id, &pct), "", true
	default:
		return ParentRef{}, fmt.Sprintf("unsupported reference %T", v), false
	}
}
