package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/buildinfo"
	"github.com/matzehuels/orgchart/pkg/config"
	"github.com/matzehuels/orgchart/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display and completions.
	appName = "orgchart"

	// layoutSuffix is appended to the input name for layout outputs.
	layoutSuffix = ".layout.json"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Orgchart lays out organization charts",
		Long:         `Orgchart computes compact, deterministic drawings of organization charts: managers above their teams, individual contributors stacked in columns, and the whole drawing centered in the viewport.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/orgchart/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration & Runner
// =============================================================================

// resolveConfigPath returns the --config value or the default location.
func (c *CLI) resolveConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.DefaultPath()
}

// loadConfig reads the configuration file. A missing file yields defaults.
func (c *CLI) loadConfig() (config.Config, error) {
	path, err := c.resolveConfigPath()
	if err != nil {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("loaded config", "path", path)
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Shared Flags
// =============================================================================

// layoutFlags are the visibility and geometry flags shared by layout,
// render, view and serve. Geometry flags that were not given fall back to
// the config file; an explicit 0 is kept.
type layoutFlags struct {
	mode       string
	collapsed  []string
	viewport   float64
	hspacing   float64
	vspacing   float64
	indent     float64
	minWidth   float64
	edgeOffset float64
	fontSize   float64

	changed func(name string) bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.mode, "mode", "m", "", "visibility mode: all, teams (default from config)")
	fs.StringSliceVar(&f.collapsed, "collapse", nil, "member ids whose reports are hidden (comma-separated)")
	fs.Float64Var(&f.viewport, "viewport", 0, "viewport width used for centering")
	fs.Float64Var(&f.hspacing, "hspacing", 0, "horizontal spacing between siblings")
	fs.Float64Var(&f.vspacing, "vspacing", 0, "vertical spacing between levels")
	fs.Float64Var(&f.indent, "indent", 0, "indent of stacked individual contributors")
	fs.Float64Var(&f.minWidth, "min-width", 0, "minimum card width")
	fs.Float64Var(&f.edgeOffset, "edge-offset", 0, "extra clearance between subtrees for routed edges")
	fs.Float64Var(&f.fontSize, "font-size", 0, "font size used to measure cards")
	f.changed = fs.Changed
}

// options merges the flags with cfg into pipeline options.
func (f *layoutFlags) options(cfg config.Config) pipeline.Options {
	opts := pipeline.Options{
		Mode:              f.mode,
		Collapsed:         f.collapsed,
		ViewportWidth:     f.geometry("viewport", f.viewport),
		HorizontalSpacing: f.geometry("hspacing", f.hspacing),
		VerticalSpacing:   f.geometry("vspacing", f.vspacing),
		ChildIndent:       f.geometry("indent", f.indent),
		MinCellWidth:      f.geometry("min-width", f.minWidth),
		EdgeOffset:        f.geometry("edge-offset", f.edgeOffset),
		FontSize:          f.fontSize,
	}
	opts.ApplyConfig(cfg)
	return opts
}

// geometry returns v if the flag was given on the command line.
func (f *layoutFlags) geometry(name string, v float64) *float64 {
	if f.changed == nil || !f.changed(name) {
		return nil
	}
	return pipeline.Float(v)
}

// =============================================================================
// Output Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// An empty string yields nil so the config default applies.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// basePath derives the base output path from the output and input file paths.
// Known format extensions and the layout suffix are stripped.
func basePath(output, input string) string {
	if output == "" {
		base := strings.TrimSuffix(input, layoutSuffix)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeArtifacts writes each artifact next to base and returns the paths.
// With a single format and an explicit output path, that path is used as is.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	base := basePath(output, input)
	var paths []string
	for _, format := range formats {
		path := base + "." + format
		if len(formats) == 1 && output != "" {
			path = output
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
