// Package pipeline provides the parse → layout → render pipeline behind the
// drawings endpoint and the render command.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: decode the entity mapping into a [hierarchy.Graph], collecting
//     parse issues for every value degraded to a default
//  2. Layout: compute the tiered scene and bind it to a resolved theme
//  3. Render: serialize the scene (SVG, JSON, PNG, PDF) or the graph (DOT,
//     Graphviz node-link SVG)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, companiesJSON, pipeline.Options{
//	    Preset:  "vibrant",
//	    Focus:   "opco",
//	    Formats: []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
//
// [RenderSafe] never fails: any error or panic is turned into the fixed
// error placeholder SVG.
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mcptools/pkg/cache"
	"github.com/matzehuels/mcptools/pkg/errors"
	"github.com/matzehuels/mcptools/pkg/hierarchy"
	"github.com/matzehuels/mcptools/pkg/render/orgchart"
	"github.com/matzehuels/mcptools/pkg/render/orgchart/styles"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Endpoints
// =============================================================================

const (
	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// DefaultFormat is rendered when no format is requested.
	DefaultFormat = FormatSVG
)

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatNodelink = "nodelink" // Graphviz-rendered SVG
	FormatPNG      = "png"
	FormatPDF      = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatJSON:     true,
	FormatDOT:      true,
	FormatNodelink: true,
	FormatPNG:      true,
	FormatPDF:      true,
}

// FormatNames lists the formats in display order.
var FormatNames = []string{FormatSVG, FormatJSON, FormatDOT, FormatNodelink, FormatPNG, FormatPDF}

// ContentType returns the media type of a rendered format.
func ContentType(format string) string {
	switch format {
	case FormatSVG, FormatNodelink:
		return "image/svg+xml"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the diagram pipeline.
type Options struct {
	// Style options
	Preset string            `json:"preset,omitempty"`
	Colors map[string]string `json:"colors,omitempty"`
	Focus  string            `json:"focus,omitempty"`

	// Layout options
	Width int `json:"width,omitempty"` // canvas width; 0 keeps the default

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	Title    string   `json:"title,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // DOT labels carry id and type
	Refresh  bool     `json:"refresh,omitempty"`  // bypass the artifact cache

	// Runtime options (not serialized)
	Logger  *log.Logger     `json:"-"`
	Catalog *styles.Catalog `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the parsed ownership graph.
	Graph *hierarchy.Graph

	// Issues lists input values that were degraded to defaults.
	Issues []hierarchy.ParseIssue

	// InputHash is the content hash of the raw input.
	InputHash string

	// Scene is the styled layout.
	Scene orgchart.Scene

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which formats came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Entities    int
	Placed      int
	Levels      int
	Connections int
	Issues      int
	ParseTime   time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits of the render stage.
type CacheInfo struct {
	RenderHit bool     // every artifact came from cache
	Hits      []string // formats served from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePreset reports whether name is known to the catalog. The pipeline
// itself falls back to the professional preset; the CLI uses this to warn.
func ValidatePreset(c *styles.Catalog, name string) error {
	if name == "" || c.Known(name) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidStyle,
		"unknown preset %q (known: %s)", name, strings.Join(c.Names(), ", "))
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks formats and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	formats := make([]string, 0, len(o.Formats))
	for _, f := range o.Formats {
		formats = append(formats, strings.ToLower(strings.TrimSpace(f)))
	}
	if len(formats) == 0 {
		formats = []string{DefaultFormat}
	}
	o.Formats = formats
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Width < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width must not be negative, got %d", o.Width)
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must not be negative, got %v", o.Scale)
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Catalog == nil {
		o.Catalog = styles.NewCatalog()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Theme resolves the preset and color overrides against the catalog.
func (o *Options) Theme() styles.Theme {
	c := o.Catalog
	if c == nil {
		c = styles.NewCatalog()
	}
	return c.Resolve(o.Preset, o.Colors)
}

// LayoutOptions returns the hierarchy options implied by o.
func (o *Options) LayoutOptions() []hierarchy.Option {
	if o.Width > 0 {
		return []hierarchy.Option{hierarchy.WithCanvasWidth(o.Width)}
	}
	return nil
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Preset:   o.Theme().Name,
		Colors:   o.Colors,
		Focus:    o.Focus,
		Width:    o.Width,
		Scale:    o.Scale,
		Title:    o.Title,
		Detailed: o.Detailed,
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("%d entities, %d placed on %d levels, %d connections",
		s.Entities, s.Placed, s.Levels, s.Connections)
}
