package styles

import (
	"fmt"
	"strconv"
	"strings"
)

// Built-in preset names.
const (
	Professional = "professional"
	Vibrant      = "vibrant"
	Pastel       = "pastel"
	Monochrome   = "monochrome"
	Minimal      = "minimal"
	Custom       = "custom"
)

const (
	white    = "white"
	darkText = "#333333"
	focusRed = "#FF0000"
)

func box(fill, stroke, text string) RoleStyle {
	return RoleStyle{Fill: fill, Stroke: stroke, Text: text}
}

func focus(fill, text string) RoleStyle {
	return RoleStyle{Fill: fill, Stroke: focusRed, Text: text, StrokeWidth: FocusStrokeWidth}
}

func builtins() map[string]Theme {
	return map[string]Theme{
		Professional: {Name: Professional, Roles: roles(
			box("#34495E", "#2C3E50", white),
			box("#3498DB", "#2980B9", white),
			box("#5D6D7E", "#4A5568", white),
			box("#85929E", "#6C7B7F", white),
			box("#2E86AB", "#1B4F72", white),
			focus("#E67E22", white),
		)},
		Vibrant: {Name: Vibrant, Roles: roles(
			box("#FF6B6B", "#CC5555", white),
			box("#4ECDC4", "#3DA89A", white),
			box("#45B7D1", "#3699B5", white),
			box("#96CEB4", "#7AB894", white),
			box("#4A90E2", "#2E5C8A", white),
			focus("#FFD93D", darkText),
		)},
		Pastel: {Name: Pastel, Roles: roles(
			box("#FFF9C4", "#FFF59D", darkText),
			box("#BBDEFB", "#90CAF9", darkText),
			box("#C8E6C9", "#A5D6A7", darkText),
			box("#F8BBD9", "#E1BEE7", darkText),
			box("#E1BEE7", "#CE93D8", darkText),
			focus("#FFCCBC", darkText),
		)},
		Monochrome: {Name: Monochrome, Roles: roles(
			box("#2C3E50", "#1A252F", white),
			box("#34495E", "#2C3E50", white),
			box("#5D6D7E", "#4A5568", white),
			box("#85929E", "#6C7B7F", white),
			box("#95A5A6", "#7F8C8D", white),
			focus("#E74C3C", white),
		)},
		Minimal: {Name: Minimal, Roles: roles(
			box(None, "#000000", "#000000"),
			box(None, "#000000", "#000000"),
			box(None, "#000000", "#000000"),
			box(None, "#000000", "#000000"),
			box(None, "#000000", "#000000"),
			focus(None, "#000000"),
		)},
	}
}

// Color keys accepted in a custom color mapping.
const (
	KeyPerson      = "person_color"
	KeyInvestor    = "investor_color"
	KeyFoundation  = "foundation_color"
	KeyCompany     = "company_color"
	KeyFont        = "custom_font_color"
	KeyFocusFill   = "focus_company_color"
	KeyFocusBorder = "focus_company_border"
	KeyBorder      = "border_color"
)

var entityColorKeys = []string{KeyPerson, KeyInvestor, KeyFoundation, KeyCompany}

// CustomTheme builds the "custom" preset from a color mapping. Missing keys
// take their defaults; strokes are the fills darkened to 80%.
func CustomTheme(colors map[string]string) Theme {
	get := func(key, def string) string {
		if v := strings.TrimSpace(colors[key]); v != "" {
			return v
		}
		return def
	}
	text := get(KeyFont, darkText)
	fill := func(key, def string) RoleStyle {
		f := get(key, def)
		return box(f, Darken(f, 0.8), text)
	}
	investor := fill(KeyInvestor, "#F8BBD9")
	return Theme{Name: Custom, Roles: roles(
		fill(KeyPerson, "#FF6B6B"),
		investor,
		investor,
		fill(KeyFoundation, "#96CEB4"),
		fill(KeyCompany, "#4A90E2"),
		RoleStyle{
			Fill:        get(KeyFocusFill, "#FFD93D"),
			Stroke:      get(KeyFocusBorder, focusRed),
			Text:        darkText,
			StrokeWidth: FocusStrokeWidth,
		},
	)}
}

// applyOverrides layers the focus and border keys of colors onto a preset.
func applyOverrides(t Theme, colors map[string]string) Theme {
	if len(colors) == 0 {
		return t
	}
	t = t.Clone()
	for _, name := range t.roleNames() {
		s := t.Roles[name]
		if name == string(RoleFocus) {
			if v := colors[KeyFocusFill]; v != "" {
				s.Fill = v
			}
			if v := colors[KeyFocusBorder]; v != "" {
				s.Stroke = v
			}
		} else if v := colors[KeyBorder]; v != "" {
			s.Stroke = v
		}
		t.Roles[name] = s
	}
	return t
}

// Darken scales each RGB channel of a #rrggbb color by factor. Colors that
// cannot be parsed are returned unchanged.
func Darken(hex string, factor float64) string {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return hex
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return hex
	}
	r := int(float64((v>>16)&0xff) * factor)
	g := int(float64((v>>8)&0xff) * factor)
	b := int(float64(v&0xff) * factor)
	return fmt.Sprintf("#%02x%02x%02x", clamp(r), clamp(g), clamp(b))
}

func clamp(c int) int {
	return min(max(c, 0), 255)
}
