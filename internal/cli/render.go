package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netgraph/pkg/errors"
	pio "github.com/matzehuels/netgraph/pkg/io"
	"github.com/matzehuels/netgraph/pkg/pipeline"
	"github.com/matzehuels/netgraph/pkg/presets"
)

// renderFlags holds the command-line flags for the render command.
type renderFlags struct {
	preset   string
	file     string
	output   string
	formats  string
	width    float64
	height   float64
	zoom     float64
	style    string
	seed     uint64
	maxNodes int
	title    string
	scale    float64

	interactive bool
	noCache     bool
	refresh     bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a network diagram to SVG, JSON, PNG, PDF or DOT",
		Long: `Render a layered network diagram.

The architecture comes from a TOML or JSON file (positional or --file) or a
built-in preset (--preset, default "dashboard"). Several formats can be
written in one run:

  netgraph render -p mnist-mlp -f svg,json --seed 7
  netgraph render model.toml -z 1.5 --style dark -o model.svg

Weights are random on every run unless --seed is given. Only seeded runs
are cached.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if flags.file != "" {
					return errors.New(errors.ErrCodeInvalidInput, "give the architecture file either as argument or with --file")
				}
				flags.file = args[0]
			}
			opts, base, err := c.renderOptions(cmd, flags)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, base, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.preset, "preset", "p", "", "built-in architecture (see \"netgraph presets list\")")
	f.StringVarP(&flags.file, "file", "i", "", "architecture file (.toml or .json)")
	f.StringVarP(&flags.output, "output", "o", "", "output file (base path when several formats are written)")
	f.StringVarP(&flags.formats, "format", "f", pipeline.FormatSVG, "comma-separated formats: svg, json, png, pdf, dot, graphviz")
	f.Float64Var(&flags.width, "width", pipeline.DefaultWidth, "surface width")
	f.Float64Var(&flags.height, "height", pipeline.DefaultHeight, "surface height")
	f.Float64VarP(&flags.zoom, "zoom", "z", pipeline.DefaultZoom, "zoom factor, clamped to [0.5, 2]")
	f.StringVar(&flags.style, "style", pipeline.DefaultStyle, "colour style: default or dark")
	f.Uint64Var(&flags.seed, "seed", 0, "weight seed (0 draws fresh random weights)")
	f.IntVar(&flags.maxNodes, "max-nodes", pipeline.DefaultMaxNodes, "maximum drawn nodes per layer")
	f.StringVar(&flags.title, "title", "", "SVG document title")
	f.Float64Var(&flags.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	f.BoolVar(&flags.interactive, "interactive", false, "add hover highlighting to SVG output")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable the artifact cache")
	f.BoolVar(&flags.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

// renderOptions merges config defaults and explicitly set flags into
// pipeline options. It also returns the base name for output files.
func (c *CLI) renderOptions(cmd *cobra.Command, flags renderFlags) (pipeline.Options, string, error) {
	rc := c.config.Render
	opts := pipeline.Options{
		Width:    rc.Width,
		Height:   rc.Height,
		Zoom:     rc.Zoom,
		Style:    rc.Style,
		MaxNodes: rc.MaxNodes,

		Formats:     parseFormats(flags.formats),
		Seed:        flags.seed,
		Title:       flags.title,
		Scale:       flags.scale,
		Interactive: flags.interactive,
		Refresh:     flags.refresh,
		Logger:      c.Logger,
	}

	changed := cmd.Flags().Changed
	if changed("width") {
		opts.Width = flags.width
	}
	if changed("height") {
		opts.Height = flags.height
	}
	if changed("zoom") {
		opts.Zoom = flags.zoom
	}
	if changed("style") {
		opts.Style = flags.style
	}
	if changed("max-nodes") {
		opts.MaxNodes = flags.maxNodes
	}

	if flags.file != "" && flags.preset != "" {
		return opts, "", errors.New(errors.ErrCodeInvalidInput, "--file and --preset are mutually exclusive")
	}
	if flags.file != "" {
		arch, err := pio.Import(flags.file)
		if err != nil {
			return opts, "", err
		}
		opts.Layers = arch.Layers
		if opts.Title == "" {
			opts.Title = arch.Title
		}
		return opts, basePath(flags.file), nil
	}

	opts.Preset = flags.preset
	if opts.Preset == "" {
		opts.Preset = presets.Default
	}
	return opts, opts.Preset, nil
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, base string, flags renderFlags) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}

	paths := outputPaths(flags.output, base, opts.Formats)
	for _, format := range opts.Formats {
		if err := os.WriteFile(paths[format], result.Artifacts[format], 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write %s", paths[format])
		}
	}
	prog.done("rendered " + strings.Join(opts.Formats, ", "))

	printSuccess("Rendered %s", StyleTitle.Render(result.Source))
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(result.Stats.LayerCount, result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	if !result.CacheInfo.Cacheable {
		printDetail("weights are random; pass --seed to reproduce this diagram")
	}
	return nil
}

// =============================================================================
// Output Paths
// =============================================================================

// outputPaths maps each format to the file it is written to. A single
// format is written to output verbatim; several formats share output's
// base path with per-format extensions. Without output, files are named
// after base in the working directory.
func outputPaths(output, base string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	if output != "" {
		base = basePath(output)
	}
	for _, f := range formats {
		paths[f] = base + "." + pipeline.FileExtension(f)
	}
	return paths
}

// basePath strips the extension from path.
func basePath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
