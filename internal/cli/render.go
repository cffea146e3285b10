package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	rmerrors "github.com/matzehuels/railmap/pkg/errors"
	"github.com/matzehuels/railmap/pkg/pipeline"
	"github.com/matzehuels/railmap/pkg/render"
	"github.com/matzehuels/railmap/pkg/topology"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file path (or base path for multiple outputs)
	formats    []string // output formats: "svg", "json", "png", "pdf"
	names      bool     // label stations
	noStations bool     // draw only the lines
	background string   // canvas fill colour
	runs       bool     // include run geometry in JSON
	scale      float64  // PNG scale factor
	cache      string   // cache backend spec
	refresh    bool     // bypass cached artifacts
	params     paramFlags
}

func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: render.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a topology to SVG, JSON, PNG or PDF",
		Example: `  railmap render line1.toml
  railmap render line1.toml --current 12 -f svg,png -o out/line1
  railmap render line1.json --direction l --names
  railmap render line1.toml --no-stations --background "#ffffff" -f png -o line1.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.names, "names", false, "label stations with their names")
	cmd.Flags().BoolVar(&opts.noStations, "no-stations", false, "draw only the lines, without station markers")
	cmd.Flags().StringVar(&opts.background, "background", "", "canvas fill colour as #rgb or #rrggbb (default: transparent)")
	cmd.Flags().BoolVar(&opts.runs, "runs", false, "include per-branch run geometry in JSON output")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().StringVar(&opts.cache, "cache", "", "cache backend: file (default), none, redis://..., mongodb://...")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")
	opts.params.register(cmd)

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	prog := newProgress(c.Logger)

	t, params, err := opts.params.load(cmd, input)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded topology", "stations", len(t.Stations), "branches", len(t.Branches))

	runner, err := c.newRunner(ctx, opts.cache, nil)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{
		Params:     params,
		Formats:    opts.formats,
		Names:      opts.names,
		NoStations: opts.noStations,
		Background: opts.background,
		Runs:       opts.runs,
		Scale:      opts.scale,
		Refresh:    opts.refresh,
	}
	if popts.NeedsConverter() && !render.Available() {
		return fmt.Errorf("%s not found: install librsvg to render png or pdf", render.Converter)
	}

	paths := outputPaths(opts.output, input, opts.formats)
	for _, path := range paths {
		if err := rmerrors.ValidatePath(path); err != nil {
			return err
		}
		if filepath.Clean(path) == filepath.Clean(input) {
			return rmerrors.New(rmerrors.ErrCodeInvalidInput, "output %s would overwrite the input; pass -o", path)
		}
	}

	result, err := c.execute(ctx, runner, t, popts)
	if err != nil {
		return err
	}

	for _, format := range opts.formats {
		path := paths[format]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}

	prog.done("Rendered " + input)
	printSuccess("Rendered %s", StyleHighlight.Render(filepath.Base(input)))
	for _, format := range opts.formats {
		printFile(paths[format])
	}
	printStats(result.Stats.Stations, result.Stats.Branches, result.CacheInfo.RenderHit)
	return nil
}

// execute runs the pipeline behind a spinner when rasterising.
func (c *CLI) execute(ctx context.Context, runner *pipeline.Runner, t *topology.Topology, opts pipeline.Options) (*pipeline.Result, error) {
	if !opts.NeedsConverter() {
		return runner.Execute(ctx, t, opts)
	}
	sp := newSpinner(ctx, os.Stderr, "Rasterising with "+render.Converter+"...")
	sp.Start()
	defer sp.Stop()
	return runner.Execute(ctx, t, opts)
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps each format to its file. A single format written to an
// explicit output keeps that exact name.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}
