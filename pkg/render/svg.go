package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/orgchart/pkg/diagram"
	"github.com/matzehuels/orgchart/pkg/layout"
)

const defaultMargin = 20.0

const cardInteractionCSS = `
    .card { transition: stroke-width 0.2s ease; }
    .card:hover { stroke-width: 3; }`

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style      Style
	margin     float64
	background string
}

func WithStyle(s Style) SVGOption       { return func(r *svgRenderer) { r.style = s } }
func WithMargin(m float64) SVGOption    { return func(r *svgRenderer) { r.margin = m } }
func WithBackground(c string) SVGOption { return func(r *svgRenderer) { r.background = c } }

// RenderSVG draws l as a standalone SVG document. The canvas is at least
// as wide as the layout's viewport so a centered drawing stays centered.
func RenderSVG(l diagram.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{style: Simple{}, margin: defaultMargin}
	for _, opt := range opts {
		opt(&r)
	}

	originX := min(0, l.Bounds.Left-r.margin)
	width := max(l.ViewportWidth, l.Bounds.Right+r.margin) - originX
	height := l.Bounds.Bottom + 2*r.margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		originX, -r.margin, width, height, width, height)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			originX, -r.margin, width, height, r.background)
	}
	r.style.RenderDefs(&buf)

	cards := buildCards(l)
	for _, e := range buildEdges(l) {
		r.style.RenderEdge(&buf, e)
	}
	for _, c := range cards {
		r.style.RenderCard(&buf, c)
	}
	for _, c := range cards {
		r.style.RenderText(&buf, c)
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", cardInteractionCSS)
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func buildCards(l diagram.Layout) []Card {
	cards := make([]Card, 0, len(l.Nodes))
	for _, n := range l.Nodes {
		cards = append(cards, Card{
			ID:            n.ID,
			Name:          n.Name,
			Title:         n.Title,
			Kind:          n.Kind,
			X:             n.X,
			Y:             n.Y,
			W:             n.Width,
			H:             n.Height,
			Collapsed:     n.Collapsed,
			HiddenReports: n.HiddenReports,
		})
	}
	return cards
}

func buildEdges(l diagram.Layout) []Edge {
	idx := l.Index()
	edges := make([]Edge, 0, len(l.Edges))
	for _, e := range l.Edges {
		pi, okP := idx[e.From]
		ci, okC := idx[e.To]
		if !okP || !okC {
			continue
		}
		edges = append(edges, Edge{
			FromID: e.From,
			ToID:   e.To,
			Points: EdgePath(l.Nodes[pi], l.Nodes[ci], e.Style),
			Elbow:  e.Style.Routing == layout.RoutingElbow,
		})
	}
	return edges
}
