package styles

import (
	"maps"
	"slices"

	"github.com/matzehuels/mcptools/pkg/hierarchy"
)

// Role names a styling slot. Every entity type is a role; the focus entity
// uses [RoleFocus] regardless of its type.
type Role string

const (
	RolePerson     Role = "person"
	RoleInvestor   Role = "investor"
	RoleTrust      Role = "trust"
	RoleFoundation Role = "foundation"
	RoleCompany    Role = "company"
	RoleFocus      Role = "focus_company"
)

// Roles lists every role in the order gradients are emitted.
var Roles = []Role{RolePerson, RoleInvestor, RoleTrust, RoleFoundation, RoleCompany, RoleFocus}

// RoleFor maps an entity type onto its role.
func RoleFor(t hierarchy.EntityType) Role {
	switch t {
	case hierarchy.TypePerson, hierarchy.TypeInvestor, hierarchy.TypeTrust, hierarchy.TypeFoundation:
		return Role(t)
	default:
		return RoleCompany
	}
}

// None is the fill value that disables filling.
const None = "none"

// DefaultStrokeWidth is the border width of ordinary boxes.
const DefaultStrokeWidth = 2.0

// FocusStrokeWidth is the border width of the focus box.
const FocusStrokeWidth = 4.0

// RoleStyle is the box appearance for one role.
type RoleStyle struct {
	Fill        string  `json:"fill" toml:"fill"`
	Stroke      string  `json:"stroke" toml:"stroke"`
	Text        string  `json:"text" toml:"text"`
	StrokeWidth float64 `json:"stroke_width,omitempty" toml:"stroke_width"`
}

// Width returns the stroke width, defaulting to [DefaultStrokeWidth].
func (s RoleStyle) Width() float64 {
	if s.StrokeWidth <= 0 {
		return DefaultStrokeWidth
	}
	return s.StrokeWidth
}

// Filled reports whether the box has a fill (and thus a gradient).
func (s RoleStyle) Filled() bool {
	return s.Fill != "" && s.Fill != None
}

// Theme is a named set of role styles.
type Theme struct {
	Name    string               `json:"name" toml:"-"`
	Extends string               `json:"extends,omitempty" toml:"extends"`
	Roles   map[string]RoleStyle `json:"roles" toml:"roles"`
}

// For returns the style of r. Unknown roles fall back to the company role.
func (t Theme) For(r Role) RoleStyle {
	if s, ok := t.Roles[string(r)]; ok {
		return s
	}
	return t.Roles[string(RoleCompany)]
}

// Gradients reports whether any role is filled. Themes without fills emit
// no gradient definitions.
func (t Theme) Gradients() bool {
	for _, s := range t.Roles {
		if s.Filled() {
			return true
		}
	}
	return false
}

// Clone returns a deep copy that can be modified safely.
func (t Theme) Clone() Theme {
	t.Roles = maps.Clone(t.Roles)
	return t
}

func (t Theme) roleNames() []string {
	return slices.Sorted(maps.Keys(t.Roles))
}

func roles(person, investor, trust, foundation, company, focus RoleStyle) map[string]RoleStyle {
	return map[string]RoleStyle{
		string(RolePerson):     person,
		string(RoleInvestor):   investor,
		string(RoleTrust):      trust,
		string(RoleFoundation): foundation,
		string(RoleCompany):    company,
		string(RoleFocus):      focus,
	}
}
