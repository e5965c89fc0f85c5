package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/matzehuels/mcptools/pkg/cache"
	"github.com/matzehuels/mcptools/pkg/errors"
	"github.com/matzehuels/mcptools/pkg/hierarchy"
	"github.com/matzehuels/mcptools/pkg/render/orgchart/styles"
)

// Runner encapsulates pipeline execution with artifact caching.
// Both the CLI and the drawings endpoint use it.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Catalog *styles.Catalog
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		Catalog: styles.NewCatalog(),
	}
}

// Execute runs the complete parse → layout → render pipeline on a raw entity
// mapping.
func (r *Runner) Execute(ctx context.Context, data []byte, opts Options) (*Result, error) {
	r.apply(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	parseStart := time.Now()
	g, issues := Parse(ctx, data)
	result := &Result{
		Graph:     g,
		Issues:    issues,
		InputHash: cache.Hash(data),
	}
	result.Stats.ParseTime = time.Since(parseStart)
	logIssues(opts, issues)

	r.Logger.Info("parsed entities",
		"entities", g.Len(),
		"issues", len(issues),
		"duration", result.Stats.ParseTime)

	return r.finish(ctx, result, opts)
}

// ExecuteGraph runs layout and render on an already parsed graph.
func (r *Runner) ExecuteGraph(ctx context.Context, g *hierarchy.Graph, opts Options) (*Result, error) {
	r.apply(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return r.finish(ctx, &Result{Graph: g}, opts)
}

func (r *Runner) finish(ctx context.Context, result *Result, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, err, "pipeline cancelled")
	}
	g := result.Graph

	layoutStart := time.Now()
	scene := ComputeScene(g, opts)
	result.Scene = scene
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Entities = g.Len()
	result.Stats.Placed = len(scene.Boxes)
	result.Stats.Levels = scene.MaxLevel + 1
	result.Stats.Connections = len(scene.Connectors)
	result.Stats.Issues = len(result.Issues)

	if len(scene.Unreachable) > 0 {
		r.Logger.Debug("entities not reachable from any root", "ids", scene.Unreachable)
	}
	r.Logger.Info("computed layout",
		"boxes", len(scene.Boxes),
		"levels", result.Stats.Levels,
		"preset", scene.Theme.Name,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, info, err := r.render(ctx, result, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo = info
	result.Stats.RenderTime = time.Since(renderStart)

	size := 0
	for _, a := range artifacts {
		size += len(a)
	}
	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"size", humanize.Bytes(uint64(size)),
		"cached", info.RenderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// render produces every requested format, serving each from the cache when
// the input hash is known.
func (r *Runner) render(ctx context.Context, result *Result, opts Options) (map[string][]byte, CacheInfo, error) {
	var info CacheInfo
	artifacts := make(map[string][]byte, len(opts.Formats))
	cacheable := result.InputHash != ""

	for _, format := range opts.Formats {
		key := ""
		if cacheable {
			key = r.Keyer.ArtifactKey(result.InputHash, opts.ArtifactKeyOpts(format))
			if !opts.Refresh {
				if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
					artifacts[format] = data
					info.Hits = append(info.Hits, format)
					continue
				}
			}
		}

		data, err := RenderFormat(ctx, result.Graph, result.Scene, format, opts)
		if err != nil {
			return nil, info, err
		}
		artifacts[format] = data

		if cacheable {
			if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
				r.Logger.Warn("artifact cache write failed", "format", format, "error", err)
			}
		}
	}
	info.RenderHit = len(opts.Formats) > 0 && len(info.Hits) == len(opts.Formats)
	return artifacts, info, nil
}

// RenderSVG is the drawings fast path: it never fails and always yields SVG
// bytes, falling back to the error placeholder.
func (r *Runner) RenderSVG(ctx context.Context, data []byte, opts Options) []byte {
	r.apply(&opts)
	svg, err := RenderSafe(ctx, data, opts)
	if err != nil {
		r.Logger.Error("failed to generate company structure diagram", "error", err)
	}
	return svg
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// apply sets the runner's logger and catalog on options if not already set.
func (r *Runner) apply(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.Catalog == nil {
		opts.Catalog = r.Catalog
	}
}

func logIssues(opts Options, issues []hierarchy.ParseIssue) {
	if opts.Logger == nil {
		return
	}
	for _, issue := range issues {
		opts.Logger.Debug("input degraded", "entity", issue.EntityID, "field", issue.Field, "reason", issue.Reason)
	}
}
