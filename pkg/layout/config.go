package layout

import (
	"math"

	"github.com/matzehuels/orgchart/pkg/errors"
)

// Default spacing values, in diagram units.
const (
	DefaultHorizontalSpacing = 40.0
	DefaultVerticalSpacing   = 60.0
	DefaultChildIndent       = 20.0
	DefaultMinCellWidth      = 120.0
	DefaultViewportWidth     = 1200.0

	// DefaultEdgeOffset is the extra clearance kept between sibling
	// subtrees below the top level so routed edges have room to pass.
	DefaultEdgeOffset = 10.0
)

// Config holds the spacing parameters of a layout pass.
type Config struct {
	HorizontalSpacing float64 // gap between sibling subtrees
	VerticalSpacing   float64 // gap between a parent row and its children's row
	ChildIndent       float64 // indent of a wrapper that is its parent's only child
	MinCellWidth      float64 // floor applied to every measured width
	EdgeOffset        float64 // extra clearance for routed edges
	ViewportWidth     float64 // width of the visible area used for centering
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		HorizontalSpacing: DefaultHorizontalSpacing,
		VerticalSpacing:   DefaultVerticalSpacing,
		ChildIndent:       DefaultChildIndent,
		MinCellWidth:      DefaultMinCellWidth,
		EdgeOffset:        DefaultEdgeOffset,
		ViewportWidth:     DefaultViewportWidth,
	}
}

// Validate rejects negative and non-finite spacing values.
func (c Config) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"horizontal spacing", c.HorizontalSpacing},
		{"vertical spacing", c.VerticalSpacing},
		{"child indent", c.ChildIndent},
		{"min cell width", c.MinCellWidth},
		{"edge offset", c.EdgeOffset},
		{"viewport width", c.ViewportWidth},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must be finite (got %g)", f.name, f.v)
		}
		if f.v < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s must not be negative (got %g)", f.name, f.v)
		}
	}
	return nil
}

func (c Config) minGap() float64 {
	return c.HorizontalSpacing + c.EdgeOffset
}
