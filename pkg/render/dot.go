package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/orgchart/pkg/diagram"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/org"
)

// Graphviz output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

// points per inch, Graphviz sizes nodes in inches
const dpi = 72.0

// ToDOT converts a layout to Graphviz DOT. Every node is pinned at its
// computed position (Graphviz's y axis points up, so y is flipped).
// Edges into stacked leaves enter from the west side.
func ToDOT(l diagram.Layout) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=polyline;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fixedsize=true, fontname=\"Helvetica\", fontsize=11];\n")
	buf.WriteString("  edge [arrowhead=none, color=\"#546e7a\"];\n")
	buf.WriteString("\n")

	top := l.Bounds.Bottom
	for _, n := range l.Nodes {
		cx := n.X + n.Width/2
		cy := top - (n.Y + n.Height/2)
		attrs := []string{
			fmt.Sprintf("label=%q", dotLabel(n)),
			fmt.Sprintf("pos=\"%.2f,%.2f!\"", cx, cy),
			fmt.Sprintf("width=%.3f", n.Width/dpi),
			fmt.Sprintf("height=%.3f", n.Height/dpi),
		}
		if n.Kind == org.KindGroup {
			attrs = append(attrs, "fillcolor=\"#90caf9\"")
		}
		if n.HiddenReports > 0 {
			attrs = append(attrs, "peripheries=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		if e.Style.Routing == layout.RoutingElbow {
			fmt.Fprintf(&buf, "  %q -> %q [tailport=s, headport=w];\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [tailport=s, headport=n];\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(n diagram.NodeLayout) string {
	if n.Title == "" {
		return n.Name
	}
	return n.Name + "\n" + n.Title
}

// RenderGraphviz renders DOT source with the neato engine, which honors
// pinned positions. Supported formats are svg and png.
func RenderGraphviz(ctx context.Context, dot, format string) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "graphviz cannot render %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
	}
	if format == FormatSVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-based <svg> header with a plain
// unitless one so the output scales like RenderSVG's.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
