package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mcptools/pkg/errors"
	"github.com/matzehuels/mcptools/pkg/pipeline"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	output   string // output file, or base path when several formats are requested
	formats  string
	preset   string
	colors   map[string]string
	focus    string
	width    int
	scale    float64
	title    string
	detailed bool // nodelink/dot labels carry id and type
	noCache  bool
	refresh  bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Draw an ownership structure file",
		Long: `Draw an ownership structure file.

The input is a JSON object mapping entity ids to entity records, the same
payload the company_structure tool accepts. Use "-" to read stdin.`,
		Example: `  mcptools render holding.json
  mcptools render holding.json -f svg,png --preset vibrant --focus opco
  cat holding.json | mcptools render - -f dot -o holding.dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.FormatNames, ", ")+" (comma-separated)")
	cmd.Flags().StringVar(&opts.preset, "preset", "", "color preset (see 'mcptools presets')")
	cmd.Flags().StringToStringVar(&opts.colors, "color", nil, "color override, e.g. --color parent_fill=#003366")
	cmd.Flags().StringVar(&opts.focus, "focus", "", "entity id to highlight")
	cmd.Flags().IntVar(&opts.width, "width", 0, "canvas width in pixels (default 900)")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG resolution multiplier")
	cmd.Flags().StringVar(&opts.title, "title", "", "SVG title")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show entity id and type in node-link diagrams")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	ctx = withLogger(ctx, c.Logger)
	prog := newProgress(c.Logger)

	data, err := readInput(input)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	store, err := newCache(opts.noCache)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(cfg, store)
	if err != nil {
		return err
	}
	defer runner.Close()

	preset := opts.preset
	if preset == "" && len(opts.colors) == 0 {
		preset = cfg.Drawings.DefaultPreset
	}
	if err := pipeline.ValidatePreset(runner.Catalog, preset); err != nil {
		printWarning("%s, using professional", errors.UserMessage(err))
	}

	pipeOpts := pipeline.Options{
		Preset:   preset,
		Colors:   opts.colors,
		Focus:    opts.focus,
		Width:    opts.width,
		Formats:  parseFormats(opts.formats),
		Scale:    opts.scale,
		Title:    opts.title,
		Detailed: opts.detailed,
		Refresh:  opts.refresh,
		Logger:   c.Logger,
	}

	spinner := newSpinner(ctx, "Drawing ownership structure...")
	spinner.Start()
	result, err := runner.Execute(ctx, data, pipeOpts)
	cancelled := spinner.Cancelled()
	spinner.Stop()
	if cancelled {
		return ctx.Err()
	}
	if err != nil {
		return err
	}
	logger := loggerFromContext(ctx)
	for format, data := range result.Artifacts {
		logger.Debug("rendered artifact", "format", format, "size", len(data))
	}

	paths, err := writeArtifacts(result.Artifacts, pipeOpts.Formats, opts.output, input)
	if err != nil {
		return err
	}

	printSuccess("Drew %d entities", result.Stats.Entities)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.Entities, result.Stats.Levels, result.Stats.Connections, result.CacheInfo.RenderHit)
	for _, issue := range result.Issues {
		printDetail("%s", issue)
	}
	if result.Stats.Placed < result.Stats.Entities {
		printWarning("%d entities are not reachable from a top-level entity and were left out of the chart",
			result.Stats.Entities-result.Stats.Placed)
	}
	if len(paths) > 0 && filepath.Ext(paths[0]) == ".svg" {
		printNextStep("Open it", "open "+paths[0])
	}
	prog.done("Rendered " + input)
	return nil
}

// readInput reads path, or stdin for "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read %s", path)
	}
	return data, nil
}

// writeArtifacts writes each rendered format and returns the written paths
// in format order. A single format goes to output as given; several formats
// share output (or the input name) as base path.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) ([]string, error) {
	if len(formats) == 0 {
		formats = make([]string, 0, len(artifacts))
		for f := range artifacts {
			formats = append(formats, f)
		}
		sort.Strings(formats)
	}

	var paths []string
	base := basePath(output, input)
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := artifactPath(base, format)
		if len(formats) == 1 && output != "" {
			path = output
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// artifactPath names the file for one format. nodelink is an SVG and the
// scene JSON would clobber a .json input, so both get a suffix.
func artifactPath(base, format string) string {
	switch format {
	case pipeline.FormatNodelink:
		return base + "_nodelink.svg"
	case pipeline.FormatJSON:
		return base + "_scene.json"
	}
	return base + "." + format
}

// basePath strips a known format extension from output, or derives the base
// from input. Stdin input renders to "ownership".
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "ownership"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
