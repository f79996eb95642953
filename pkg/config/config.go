// Package config loads the orgchart configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/orgchart/config.toml
// (~/.config/orgchart/config.toml by default). A missing file is not an
// error: every setting has a default, and command-line flags override
// whatever the file says.
//
//	[layout]
//	horizontal_spacing = 40
//	vertical_spacing = 60
//
//	[render]
//	style = "outline"
package config

import (
	"bytes"
	"math"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/orgchart/pkg/diagram"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/layout"
)

const appName = "orgchart"

// Config is the full configuration file.
type Config struct {
	Layout   LayoutConfig   `toml:"layout"`
	Viewport ViewportConfig `toml:"viewport"`
	Render   RenderConfig   `toml:"render"`
	Serve    ServeConfig    `toml:"serve"`
}

// LayoutConfig holds spacing and measurement settings.
type LayoutConfig struct {
	HorizontalSpacing float64 `toml:"horizontal_spacing"`
	VerticalSpacing   float64 `toml:"vertical_spacing"`
	ChildIndent       float64 `toml:"child_indent"`
	MinCellWidth      float64 `toml:"min_cell_width"`
	EdgeOffset        float64 `toml:"edge_offset"`
	FontSize          float64 `toml:"font_size"`
	Mode              string  `toml:"mode"`
}

// ViewportConfig describes the visible area used for centering.
type ViewportConfig struct {
	Width float64 `toml:"width"`
}

// RenderConfig holds output defaults.
type RenderConfig struct {
	Style   string   `toml:"style"`
	Formats []string `toml:"formats"`
}

// ServeConfig configures `orgchart serve`.
type ServeConfig struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
	Metrics      bool   `toml:"metrics"`

	// TraceFile receives OpenTelemetry spans as JSON; "-" is stderr.
	TraceFile string `toml:"trace_file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			HorizontalSpacing: layout.DefaultHorizontalSpacing,
			VerticalSpacing:   layout.DefaultVerticalSpacing,
			ChildIndent:       layout.DefaultChildIndent,
			MinCellWidth:      layout.DefaultMinCellWidth,
			EdgeOffset:        layout.DefaultEdgeOffset,
			FontSize:          diagram.DefaultFontSize,
			Mode:              string(diagram.ModeAll),
		},
		Viewport: ViewportConfig{Width: layout.DefaultViewportWidth},
		Render: RenderConfig{
			Style:   "simple",
			Formats: []string{"svg"},
		},
		Serve: ServeConfig{
			Addr:         "127.0.0.1:8080",
			MaxBodyBytes: 1 << 20,
			Metrics:      true,
		},
	}
}

// DefaultPath returns the XDG location of the config file.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads path on top of the defaults. A missing file yields the
// defaults; unknown keys are rejected so typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %v", path, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func (c Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", filepath.Dir(path))
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.LayoutConfig().Validate(); err != nil {
		return err
	}
	if _, err := diagram.ParseMode(c.Layout.Mode); err != nil {
		return err
	}
	if !(c.Layout.FontSize >= 0) || math.IsInf(c.Layout.FontSize, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "font size must be a finite non-negative number (got %g)", c.Layout.FontSize)
	}
	if c.Serve.MaxBodyBytes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max body bytes must not be negative")
	}
	return nil
}

// LayoutConfig converts the layout and viewport sections to engine
// configuration.
func (c Config) LayoutConfig() layout.Config {
	return layout.Config{
		HorizontalSpacing: c.Layout.HorizontalSpacing,
		VerticalSpacing:   c.Layout.VerticalSpacing,
		ChildIndent:       c.Layout.ChildIndent,
		MinCellWidth:      c.Layout.MinCellWidth,
		EdgeOffset:        c.Layout.EdgeOffset,
		ViewportWidth:     c.Viewport.Width,
	}
}
