package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/diagram"
	"github.com/matzehuels/orgchart/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string // output file (single format) or base path
	formats    string // comma-separated output formats
	style      string // card style: simple, outline
	background string // SVG background fill
	fromLayout bool   // treat the input as a layout.json file
	layout     layoutFlags
}

// renderCommand creates the render command for generating chart drawings.
func (c *CLI) renderCommand() *cobra.Command {
	var ro renderOpts

	cmd := &cobra.Command{
		Use:   "render [chart.json|chart.toml|chart.layout.json]",
		Short: "Render an organization chart to SVG, DOT, PNG or JSON",
		Long: `Render an organization chart to SVG, DOT, PNG or JSON.

With a chart file the layout is computed first. With a layout file (produced
by 'layout', detected by the .layout.json suffix or forced with --from-layout)
the stored positions are drawn as is.

Formats:
  svg    native SVG drawing (default)
  dot    Graphviz source with pinned positions
  png    raster image rendered through Graphviz
  json   the computed layout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := ro.layout.options(cfg)
			if f := parseFormats(ro.formats); f != nil {
				opts.Formats = f
			}
			if ro.style != "" {
				opts.Style = ro.style
			}
			opts.Background = ro.background
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			if ro.fromLayout || strings.HasSuffix(args[0], layoutSuffix) {
				return c.runRenderLayout(cmd.Context(), args[0], opts, ro.output)
			}
			return c.runRender(cmd.Context(), args[0], opts, ro.output)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", "", "output format(s): svg, dot, png, json (comma-separated)")
	cmd.Flags().StringVar(&ro.style, "style", "", "card style: simple, outline")
	cmd.Flags().StringVar(&ro.background, "background", "", "SVG background color")
	cmd.Flags().BoolVar(&ro.fromLayout, "from-layout", false, "read the input as a layout file")
	ro.layout.register(cmd)

	return cmd
}

// runRender lays out the chart in input and renders the requested formats.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string) error {
	runner := c.newRunner()
	defer runner.Close()

	chart, err := runner.Load(ctx, input)
	if err != nil {
		return err
	}
	opts.Logger = loggerFromContext(ctx)

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()
	result, err := runner.Execute(ctx, chart, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, input, output)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats)
	return nil
}

// runRenderLayout draws a previously computed layout.
func (c *CLI) runRenderLayout(ctx context.Context, input string, opts pipeline.Options, output string) error {
	l, err := diagram.ReadLayoutFile(input)
	if err != nil {
		return err
	}

	runner := c.newRunner()
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	artifacts, err := runner.Render(ctx, l, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	prog.done(fmt.Sprintf("Rendered %d nodes", len(l.Nodes)))

	paths, err := writeArtifacts(artifacts, opts.Formats, input, output)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
