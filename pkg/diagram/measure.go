package diagram

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Measurer computes the card size of a member from its texts.
type Measurer interface {
	Measure(name, title string) (width, height float64)
}

// Card padding around the measured text, in diagram units.
const (
	CardPaddingX    = 12.0
	CardPaddingY    = 8.0
	DefaultFontSize = 13.0
)

// FontMeasurer measures text with the Go Regular font.
type FontMeasurer struct {
	mu       sync.Mutex // font.Face caches glyphs and is not safe for concurrent use
	face     font.Face
	lineH    float64
	FontSize float64
}

// NewFontMeasurer loads Go Regular at the given point size (72 DPI, so one
// point is one diagram unit). A size <= 0 selects DefaultFontSize.
func NewFontMeasurer(size float64) (*FontMeasurer, error) {
	if size <= 0 {
		size = DefaultFontSize
	}
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	return &FontMeasurer{
		face:     face,
		lineH:    float64(face.Metrics().Height.Ceil()),
		FontSize: size,
	}, nil
}

// Measure returns the size of a card showing name and, if set, title on a
// second line.
func (m *FontMeasurer) Measure(name, title string) (float64, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w := font.MeasureString(m.face, name).Ceil()
	lines := 1
	if title != "" {
		w = max(w, font.MeasureString(m.face, title).Ceil())
		lines++
	}
	return float64(w) + 2*CardPaddingX, float64(lines)*m.lineH + 2*CardPaddingY
}

// Close releases the font face.
func (m *FontMeasurer) Close() error {
	return m.face.Close()
}

// FixedMeasurer gives every card the same size. The terminal viewer uses it
// with cell units.
type FixedMeasurer struct {
	Width, Height float64
}

func (m FixedMeasurer) Measure(string, string) (float64, float64) {
	return m.Width, m.Height
}

// RuneMeasurer sizes cards by rune count, one unit per rune plus padding.
type RuneMeasurer struct {
	PadX   float64
	Height float64
}

func (m RuneMeasurer) Measure(name, title string) (float64, float64) {
	n := max(len([]rune(name)), len([]rune(title)))
	return float64(n) + 2*m.PadX, m.Height
}

// WithMinWidth floors every width measured by m to w, matching the
// layout engine's minimum cell width so drawn cards and laid-out cells
// agree.
func WithMinWidth(m Measurer, w float64) Measurer {
	return minWidth{m: m, w: w}
}

type minWidth struct {
	m Measurer
	w float64
}

func (mw minWidth) Measure(name, title string) (float64, float64) {
	w, h := mw.m.Measure(name, title)
	return max(w, mw.w), h
}
