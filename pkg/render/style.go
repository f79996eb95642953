package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/org"
)

// Style names.
const (
	StyleSimple  = "simple"
	StyleOutline = "outline"
)

// ValidStyles lists the accepted style names.
var ValidStyles = []string{StyleSimple, StyleOutline}

// Style defines the visual appearance of a chart.
type Style interface {
	// RenderDefs writes SVG <defs> content.
	RenderDefs(buf *bytes.Buffer)
	// RenderCard writes the shape of a member card.
	RenderCard(buf *bytes.Buffer, c Card)
	// RenderEdge writes a reporting line.
	RenderEdge(buf *bytes.Buffer, e Edge)
	// RenderText writes the texts of a member card.
	RenderText(buf *bytes.Buffer, c Card)
}

// Card contains everything needed to draw one member.
type Card struct {
	ID, Name, Title string
	Kind            org.Kind
	X, Y, W, H      float64
	Collapsed       bool
	HiddenReports   int
}

// Edge is a reporting line resolved to a polyline.
type Edge struct {
	FromID, ToID string
	Points       []layout.Point
	Elbow        bool
}

// StyleByName returns the style registered under name.
func StyleByName(name string) (Style, error) {
	switch name {
	case "", StyleSimple:
		return Simple{}, nil
	case StyleOutline:
		return Outline{}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidStyle, "invalid style: %s (must be simple or outline)", name)
	}
}

// Simple draws filled rounded cards, with groups in a darker tone.
type Simple struct{}

func (Simple) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs><filter id="shadow" x="-5%" y="-5%" width="110%" height="120%">` +
		`<feDropShadow dx="0" dy="1" stdDeviation="1.5" flood-opacity="0.25"/></filter></defs>` + "\n")
}

func (Simple) RenderCard(buf *bytes.Buffer, c Card) {
	fill := "#e3f2fd"
	if c.Kind == org.KindGroup {
		fill = "#90caf9"
	}
	fmt.Fprintf(buf, `  <rect id="card-%s" class="card" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="6" fill="%s" stroke="#1565c0" stroke-width="1" filter="url(#shadow)"/>`+"\n",
		escape(c.ID), c.X, c.Y, c.W, c.H, fill)
	renderBadge(buf, c, "#1565c0")
}

func (Simple) RenderEdge(buf *bytes.Buffer, e Edge) {
	renderPolyline(buf, e, "#546e7a", "")
}

func (Simple) RenderText(buf *bytes.Buffer, c Card) {
	renderCardText(buf, c, "#0d47a1", "#37474f")
}

// Outline draws white cards with a dark border and dashed group cards.
type Outline struct{}

func (Outline) RenderDefs(*bytes.Buffer) {}

func (Outline) RenderCard(buf *bytes.Buffer, c Card) {
	dash := ""
	if c.Kind == org.KindGroup {
		dash = ` stroke-dasharray="6 3"`
	}
	fmt.Fprintf(buf, `  <rect id="card-%s" class="card" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="2" fill="white" stroke="#212121" stroke-width="1.5"%s/>`+"\n",
		escape(c.ID), c.X, c.Y, c.W, c.H, dash)
	renderBadge(buf, c, "#212121")
}

func (Outline) RenderEdge(buf *bytes.Buffer, e Edge) {
	dash := ""
	if e.Elbow {
		dash = "4 2"
	}
	renderPolyline(buf, e, "#212121", dash)
}

func (Outline) RenderText(buf *bytes.Buffer, c Card) {
	renderCardText(buf, c, "#212121", "#616161")
}

func renderPolyline(buf *bytes.Buffer, e Edge, stroke, dash string) {
	pts := make([]string, len(e.Points))
	for i, p := range e.Points {
		pts[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
	}
	extra := ""
	if dash != "" {
		extra = fmt.Sprintf(` stroke-dasharray="%s"`, dash)
	}
	fmt.Fprintf(buf, `  <polyline class="edge" data-from="%s" data-to="%s" points="%s" fill="none" stroke="%s" stroke-width="1.2"%s/>`+"\n",
		escape(e.FromID), escape(e.ToID), strings.Join(pts, " "), stroke, extra)
}

func renderCardText(buf *bytes.Buffer, c Card, nameColor, titleColor string) {
	cx := c.X + c.W/2
	if c.Title == "" {
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-family="sans-serif" font-size="13" font-weight="bold" fill="%s">%s</text>`+"\n",
			cx, c.Y+c.H/2, nameColor, escape(c.Name))
		return
	}
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-family="sans-serif" font-size="13" font-weight="bold" fill="%s">%s</text>`+"\n",
		cx, c.Y+c.H/3, nameColor, escape(c.Name))
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-family="sans-serif" font-size="11" fill="%s">%s</text>`+"\n",
		cx, c.Y+2*c.H/3, titleColor, escape(c.Title))
}

// renderBadge marks cards whose reports are hidden with a count below them.
func renderBadge(buf *bytes.Buffer, c Card, color string) {
	if c.HiddenReports == 0 {
		return
	}
	fmt.Fprintf(buf, `  <text class="badge" x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="10" fill="%s">+%d</text>`+"\n",
		c.X+c.W/2, c.Y+c.H+12, color, c.HiddenReports)
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
