package styles

import (
	"testing"

	"github.com/matzehuels/mcptools/pkg/errors"
	"github.com/matzehuels/mcptools/pkg/hierarchy"
)

func TestDarken(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"#FF6B6B", "#cc5555"},
		{"#4A90E2", "#3b73b4"},
		{"#000000", "#000000"},
		{"FFFFFF", "#cccccc"},
		{"#fff", "#fff"},
		{"red", "red"},
		{"#GGGGGG", "#GGGGGG"},
	}
	for _, tt := range tests {
		if got := Darken(tt.in, 0.8); got != tt.want {
			t.Errorf("Darken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolvePresetSelection(t *testing.T) {
	tests := []struct {
		name   string
		preset string
		colors map[string]string
		want   string
	}{
		{"DefaultProfessional", "", nil, Professional},
		{"EntityKeyMeansCustom", "", map[string]string{KeyCompany: "#112233"}, Custom},
		{"FocusKeyAloneIsNotCustom", "", map[string]string{KeyFocusFill: "#112233"}, Professional},
		{"Named", "Pastel", nil, Pastel},
		{"UnknownFallsBack", "neon", nil, Professional},
		{"ExplicitCustom", "custom", nil, Custom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.preset, tt.colors).Name; got != tt.want {
				t.Errorf("Resolve(%q).Name = %q, want %q", tt.preset, got, tt.want)
			}
		})
	}
}

func TestCustomTheme(t *testing.T) {
	th := CustomTheme(map[string]string{
		KeyPerson:   "#FF0000",
		KeyInvestor: "#00FF00",
		KeyFont:     "#111111",
	})

	person := th.For(RolePerson)
	if person.Fill != "#FF0000" || person.Stroke != "#cc0000" || person.Text != "#111111" {
		t.Errorf("person = %+v", person)
	}
	if th.For(RoleTrust) != th.For(RoleInvestor) {
		t.Errorf("trust should share the investor color: %+v vs %+v", th.For(RoleTrust), th.For(RoleInvestor))
	}
	if got := th.For(RoleCompany).Fill; got != "#4A90E2" {
		t.Errorf("company fill = %q, want default #4A90E2", got)
	}
	f := th.For(RoleFocus)
	if f.Fill != "#FFD93D" || f.Stroke != "#FF0000" || f.Width() != FocusStrokeWidth || f.Text != "#333333" {
		t.Errorf("focus = %+v", f)
	}
}

func TestOverridesDoNotLeak(t *testing.T) {
	th := Resolve(Vibrant, map[string]string{KeyBorder: "#123456", KeyFocusFill: "#ABCDEF"})
	if got := th.For(RoleCompany).Stroke; got != "#123456" {
		t.Errorf("company stroke = %q, want #123456", got)
	}
	if got := th.For(RoleFocus).Stroke; got != "#FF0000" {
		t.Errorf("focus stroke = %q, border_color must not apply to focus", got)
	}
	if got := th.For(RoleFocus).Fill; got != "#ABCDEF" {
		t.Errorf("focus fill = %q, want #ABCDEF", got)
	}

	again := Resolve(Vibrant, nil)
	if got := again.For(RoleCompany).Stroke; got != "#2E5C8A" {
		t.Errorf("override leaked into the shared preset: company stroke = %q", got)
	}
}

func TestGradients(t *testing.T) {
	if Resolve(Minimal, nil).Gradients() {
		t.Error("minimal preset should not emit gradients")
	}
	if !Resolve(Professional, nil).Gradients() {
		t.Error("professional preset should emit gradients")
	}
}

func TestRoleFor(t *testing.T) {
	for _, et := range hierarchy.EntityTypes {
		if got := RoleFor(et); string(got) != string(et) {
			t.Errorf("RoleFor(%s) = %s", et, got)
		}
	}
	if got := RoleFor("llc"); got != RoleCompany {
		t.Errorf("RoleFor(llc) = %s, want company", got)
	}
}

func TestCatalogLoadTOML(t *testing.T) {
	c := NewCatalog()
	err := c.LoadTOML([]byte(`
[corporate]
extends = "brand"

[corporate.roles.focus_company]
fill = "#000000"
stroke = "#FF0000"
text = "white"
stroke_width = 4.0

[brand]
extends = "professional"

[brand.roles.company]
fill = "#112233"
stroke = "#000000"
text = "white"
`))
	if err != nil {
		t.Fatalf("LoadTOML: %v", err)
	}

	th := c.Resolve("corporate", nil)
	if th.Name != "corporate" {
		t.Fatalf("Name = %q, want corporate", th.Name)
	}
	if got := th.For(RoleCompany).Fill; got != "#112233" {
		t.Errorf("company fill = %q, want inherited #112233", got)
	}
	if got := th.For(RolePerson).Fill; got != "#34495E" {
		t.Errorf("person fill = %q, want inherited #34495E", got)
	}
	if got := th.For(RoleFocus).Fill; got != "#000000" {
		t.Errorf("focus fill = %q, want #000000", got)
	}

	names := c.Names()
	if names[0] != Professional || names[len(names)-1] != "corporate" {
		t.Errorf("Names() = %v", names)
	}
}

func TestCatalogAddRejects(t *testing.T) {
	tests := []struct {
		name  string
		theme Theme
		code  errors.Code
	}{
		{"professional", Theme{}, errors.ErrCodeInvalidStyle},
		{"custom", Theme{}, errors.ErrCodeInvalidStyle},
		{"partial", Theme{Roles: map[string]RoleStyle{"company": {Fill: "#111111"}}}, errors.ErrCodeInvalidStyle},
		{"badparent", Theme{Extends: "nope"}, errors.ErrCodeInvalidStyle},
		{"badrole", Theme{Extends: "minimal", Roles: map[string]RoleStyle{"llc": {}}}, errors.ErrCodeInvalidStyle},
		{"badcolor", Theme{Extends: "minimal", Roles: map[string]RoleStyle{"company": {Fill: "blue-ish"}}}, errors.ErrCodeInvalidColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCatalog().Add(tt.name, tt.theme)
			if !errors.Is(err, tt.code) {
				t.Errorf("Add(%q) = %v, want code %s", tt.name, err, tt.code)
			}
		})
	}
}
