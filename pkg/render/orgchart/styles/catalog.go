package styles

import (
	"maps"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mcptools/pkg/errors"
)

// Catalog resolves preset names to themes. The zero value is not usable;
// use [NewCatalog].
type Catalog struct {
	themes map[string]Theme
}

// NewCatalog returns a catalog holding the built-in presets.
func NewCatalog() *Catalog {
	return &Catalog{themes: builtins()}
}

// Add registers an additional preset. A preset that extends another one
// inherits every role it does not define. Built-in names and "custom" cannot
// be redefined.
func (c *Catalog) Add(name string, t Theme) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return errors.New(errors.ErrCodeInvalidStyle, "preset name is empty")
	}
	if name == Custom {
		return errors.New(errors.ErrCodeInvalidStyle, "preset name %q is reserved", name)
	}
	if _, ok := builtins()[name]; ok {
		return errors.New(errors.ErrCodeInvalidStyle, "preset %q is built in", name)
	}

	merged := Theme{Name: name, Extends: t.Extends, Roles: make(map[string]RoleStyle)}
	if t.Extends != "" {
		base, ok := c.themes[strings.ToLower(t.Extends)]
		if !ok {
			return errors.New(errors.ErrCodeInvalidStyle, "preset %q extends unknown preset %q", name, t.Extends)
		}
		maps.Copy(merged.Roles, base.Roles)
	}
	for role, s := range t.Roles {
		if !slices.Contains(Roles, Role(role)) {
			return errors.New(errors.ErrCodeInvalidStyle, "preset %q: unknown role %q", name, role)
		}
		for _, col := range []string{s.Fill, s.Stroke, s.Text} {
			if err := validColor(col); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidColor, err, "preset %q role %q", name, role)
			}
		}
		merged.Roles[role] = s
	}
	for _, r := range Roles {
		if _, ok := merged.Roles[string(r)]; !ok {
			return errors.New(errors.ErrCodeInvalidStyle, "preset %q does not define role %q", name, r)
		}
	}
	c.themes[name] = merged
	return nil
}

func validColor(s string) error {
	switch s {
	case "", None, white, "black", "transparent":
		return nil
	}
	return errors.ValidateHexColor(s)
}

// LoadTOML registers every preset in a TOML document of the form
//
//	[corporate]
//	extends = "professional"
//	[corporate.roles.company]
//	fill = "#112233"
//	stroke = "#000000"
//	text = "white"
func (c *Catalog) LoadTOML(data []byte) error {
	var defs map[string]Theme
	if _, err := toml.Decode(string(data), &defs); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidStyle, err, "decode presets")
	}
	return c.AddAll(defs)
}

// AddAll registers several presets that may extend each other.
func (c *Catalog) AddAll(defs map[string]Theme) error {
	// Presets may extend each other, so base presets are added first.
	for _, name := range orderByExtends(defs) {
		if err := c.Add(name, defs[name]); err != nil {
			return err
		}
	}
	return nil
}

func orderByExtends(defs map[string]Theme) []string {
	var order []string
	done := make(map[string]bool)
	var visit func(name string, depth int)
	visit = func(name string, depth int) {
		if done[name] || depth > len(defs) {
			return
		}
		if parent := strings.ToLower(defs[name].Extends); parent != "" {
			if _, ok := defs[parent]; ok {
				visit(parent, depth+1)
			}
		}
		if !done[name] {
			done[name] = true
			order = append(order, name)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(defs)) {
		visit(name, 0)
	}
	return order
}

// Names lists every preset name, built-ins first, then "custom", then
// registered presets alphabetically.
func (c *Catalog) Names() []string {
	names := []string{Professional, Vibrant, Pastel, Monochrome, Minimal, Custom}
	for _, n := range slices.Sorted(maps.Keys(c.themes)) {
		if !slices.Contains(names, n) {
			names = append(names, n)
		}
	}
	return names
}

// Lookup returns a registered preset without applying any colors.
func (c *Catalog) Lookup(name string) (Theme, bool) {
	t, ok := c.themes[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// Resolve picks the theme for a drawing request. With no preset named, the
// custom preset is used when colors carries any entity color key, otherwise
// the professional preset. Unknown presets fall back to professional.
func (c *Catalog) Resolve(preset string, colors map[string]string) Theme {
	preset = strings.ToLower(strings.TrimSpace(preset))
	if preset == "" {
		preset = Professional
		for _, k := range entityColorKeys {
			if colors[k] != "" {
				preset = Custom
				break
			}
		}
	}
	if preset == Custom {
		return CustomTheme(colors)
	}
	t, ok := c.themes[preset]
	if !ok {
		t = c.themes[Professional]
	}
	return applyOverrides(t, colors)
}

// Known reports whether name is a preset the catalog can resolve.
func (c *Catalog) Known(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == Custom {
		return true
	}
	_, ok := c.themes[name]
	return ok
}

var defaultCatalog = NewCatalog()

// Resolve resolves against the built-in presets.
func Resolve(preset string, colors map[string]string) Theme {
	return defaultCatalog.Resolve(preset, colors)
}
