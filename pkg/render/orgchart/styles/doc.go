// Package styles defines the color themes used by ownership diagrams.
//
// A [Theme] maps every [Role] (one per entity type plus the focus entity) to
// a fill, stroke and text color. Themes come from the built-in presets
// (professional, vibrant, pastel, monochrome, minimal), from a caller's
// custom color mapping, or from TOML preset files loaded into a [Catalog].
//
//	th := styles.Resolve("vibrant", map[string]string{"border_color": "#000000"})
//	company := th.For(styles.RoleCompany)
package styles
