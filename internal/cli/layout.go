package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/diagram"
	"github.com/matzehuels/orgchart/pkg/pipeline"
)

// layoutCommand creates the layout command for computing chart layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [chart.json|chart.toml]",
		Short: "Compute the layout of an organization chart",
		Long: `Compute the layout of an organization chart.

The layout command reads a chart (JSON or TOML), runs one layout pass for the
requested visibility and writes the positioned nodes and routed edges to a
layout.json file (same format as 'render -f json'). The layout can be drawn
later with 'render' without recomputing it.

Visibility:
  --mode all     show every member (default)
  --mode teams   hide individual contributors, keep their counts on managers
  --collapse id  hide everything below the given managers`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], flags.options(cfg), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	flags.register(cmd)

	return cmd
}

// runLayout loads the chart, computes the layout, and writes it.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string) error {
	runner := c.newRunner()
	defer runner.Close()

	chart, err := runner.Load(ctx, input)
	if err != nil {
		return err
	}

	opts.Formats = []string{pipeline.FormatJSON}
	opts.Logger = loggerFromContext(ctx)

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	result, err := runner.Execute(ctx, chart, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + layoutSuffix
	}
	if err := diagram.WriteLayoutFile(result.Layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(result.Stats)
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}
