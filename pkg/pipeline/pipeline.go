// Package pipeline provides the layout and rendering pipeline for orgchart.
//
// This package implements the complete load → layout → render pipeline used
// by the CLI commands, the interactive viewer and the HTTP server. By
// centralizing this logic every entry point produces the same drawing for
// the same chart and options.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a chart from a JSON or TOML file and validate it
//  2. Layout: Build a diagram for the requested visibility and position it
//  3. Render: Generate output in various formats (SVG, DOT, PNG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	chart, err := runner.Load(ctx, "team.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, chart, pipeline.Options{
//	    Mode:    "teams",
//	    Formats: []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgchart/pkg/config"
	"github.com/matzehuels/orgchart/pkg/diagram"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/render"
)

// =============================================================================
// Output Formats
// =============================================================================

const (
	FormatSVG  = "svg"  // native SVG renderer
	FormatDOT  = "dot"  // Graphviz source with pinned positions
	FormatPNG  = "png"  // raster via Graphviz
	FormatJSON = "json" // serialized layout
)

// ValidFormats lists every output format in preferred order.
var ValidFormats = []string{FormatSVG, FormatDOT, FormatPNG, FormatJSON}

// DefaultFormats is used when no format is requested.
var DefaultFormats = []string{FormatSVG}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run. Unset values are replaced by defaults
// in ValidateAndSetDefaults. Geometry fields are pointers because zero is a
// meaningful setting for them: a zero indent or edge offset, or a zero
// viewport that disables centering.
type Options struct {
	// Visibility
	Mode      string   `json:"mode,omitempty"`
	Collapsed []string `json:"collapsed,omitempty"`

	// Geometry
	ViewportWidth     *float64 `json:"viewport_width,omitempty"`
	HorizontalSpacing *float64 `json:"horizontal_spacing,omitempty"`
	VerticalSpacing   *float64 `json:"vertical_spacing,omitempty"`
	ChildIndent       *float64 `json:"child_indent,omitempty"`
	MinCellWidth      *float64 `json:"min_cell_width,omitempty"`
	EdgeOffset        *float64 `json:"edge_offset,omitempty"`

	// FontSize sizes card text. Zero selects the default.
	FontSize float64 `json:"font_size,omitempty"`

	// Rendering
	Formats    []string `json:"formats,omitempty"`
	Style      string   `json:"style,omitempty"`
	Background string   `json:"background,omitempty"`

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger `json:"-"`
	// Measurer sizes cards. Nil selects a font measurer at FontSize.
	Measurer diagram.Measurer `json:"-"`
}

// ApplyConfig fills unset options from a configuration file.
func (o *Options) ApplyConfig(c config.Config) {
	setString(&o.Mode, c.Layout.Mode)
	setFloat(&o.ViewportWidth, c.Viewport.Width)
	setFloat(&o.HorizontalSpacing, c.Layout.HorizontalSpacing)
	setFloat(&o.VerticalSpacing, c.Layout.VerticalSpacing)
	setFloat(&o.ChildIndent, c.Layout.ChildIndent)
	setFloat(&o.MinCellWidth, c.Layout.MinCellWidth)
	setFloat(&o.EdgeOffset, c.Layout.EdgeOffset)
	if o.FontSize == 0 {
		o.FontSize = c.Layout.FontSize
	}
	setString(&o.Style, c.Render.Style)
	if len(o.Formats) == 0 && len(c.Render.Formats) > 0 {
		o.Formats = slices.Clone(c.Render.Formats)
	}
}

// ValidateAndSetDefaults checks every option and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	setString(&o.Mode, string(diagram.ModeAll))
	setString(&o.Style, render.StyleSimple)
	setFloat(&o.ViewportWidth, layout.DefaultViewportWidth)
	setFloat(&o.HorizontalSpacing, layout.DefaultHorizontalSpacing)
	setFloat(&o.VerticalSpacing, layout.DefaultVerticalSpacing)
	setFloat(&o.ChildIndent, layout.DefaultChildIndent)
	setFloat(&o.MinCellWidth, layout.DefaultMinCellWidth)
	setFloat(&o.EdgeOffset, layout.DefaultEdgeOffset)
	if o.FontSize == 0 {
		o.FontSize = diagram.DefaultFontSize
	}
	if len(o.Formats) == 0 {
		o.Formats = slices.Clone(DefaultFormats)
	}

	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	for _, id := range o.Collapsed {
		if err := errors.ValidateMemberID(id); err != nil {
			return err
		}
	}
	if !(o.FontSize > 0) || math.IsInf(o.FontSize, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "font size must be a positive number (got %g)", o.FontSize)
	}
	return o.LayoutConfig().Validate()
}

// LayoutConfig returns the engine configuration for these options. Unset
// geometry fields take the engine defaults.
func (o Options) LayoutConfig() layout.Config {
	return layout.Config{
		HorizontalSpacing: valueOr(o.HorizontalSpacing, layout.DefaultHorizontalSpacing),
		VerticalSpacing:   valueOr(o.VerticalSpacing, layout.DefaultVerticalSpacing),
		ChildIndent:       valueOr(o.ChildIndent, layout.DefaultChildIndent),
		MinCellWidth:      valueOr(o.MinCellWidth, layout.DefaultMinCellWidth),
		EdgeOffset:        valueOr(o.EdgeOffset, layout.DefaultEdgeOffset),
		ViewportWidth:     valueOr(o.ViewportWidth, layout.DefaultViewportWidth),
	}
}

// Visibility returns the diagram visibility for these options.
func (o Options) Visibility() (diagram.Visibility, error) {
	return diagram.NewVisibility(o.Mode, o.Collapsed)
}

func setString(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// Float returns a pointer to v, for setting geometry options.
func Float(v float64) *float64 {
	return &v
}

func setFloat(dst **float64, v float64) {
	if *dst == nil {
		*dst = Float(v)
	}
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat reports whether format is a supported output format.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (valid: %v)", format, ValidFormats)
	}
	return nil
}

// ValidateFormats validates every entry of formats. An empty list is valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle reports whether style names a registered card style.
func ValidateStyle(style string) error {
	if !slices.Contains(render.ValidStyles, style) {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style %q (valid: %v)", style, render.ValidStyles)
	}
	return nil
}

// ValidateMode reports whether mode is a known visibility mode.
func ValidateMode(mode string) error {
	_, err := diagram.ParseMode(mode)
	return err
}

// =============================================================================
// Result
// =============================================================================

// Result holds the output of a complete pipeline run.
type Result struct {
	Diagram   *diagram.Diagram
	Layout    diagram.Layout
	Summary   layout.Result
	Artifacts map[string][]byte
	Stats     Stats
}

// Stats reports counts and stage timings.
type Stats struct {
	Members        int
	Placed         int
	Edges          int
	Wrappers       int
	LayoutDuration time.Duration
	RenderDuration time.Duration
}
