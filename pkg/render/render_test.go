package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/orgchart/pkg/diagram"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/org"
)

// sampleLayout is a manager with one stacked report and one sub-manager.
func sampleLayout() diagram.Layout {
	return diagram.Layout{
		Name:          "acme",
		Mode:          diagram.ModeAll,
		ViewportWidth: 600,
		Bounds:        layout.Box{Left: 0, Top: 0, Right: 280, Bottom: 180},
		Nodes: []diagram.NodeLayout{
			{ID: "boss", Name: "Ada & Co", Title: "CEO", Kind: org.KindGroup, X: 80, Y: 0, Width: 120, Height: 60},
			{ID: "ic", Name: "Cleo", Kind: org.KindPerson, X: 0, Y: 120, Width: 120, Height: 60},
			{ID: "mgr", Name: "Dan", Kind: org.KindPerson, X: 160, Y: 120, Width: 120, Height: 60, HiddenReports: 2},
		},
		Edges: []diagram.EdgeLayout{
			{From: "boss", To: "ic", Style: layout.EdgeStyle{
				Routing:       layout.RoutingElbow,
				EntrySide:     layout.SideLeft,
				ControlPoints: []layout.Point{{X: -10, Y: 90}},
			}},
			{From: "boss", To: "mgr", Style: layout.EdgeStyle{Routing: layout.RoutingStraight}},
		},
	}
}

func TestEdgePath(t *testing.T) {
	parent := diagram.NodeLayout{X: 100, Y: 0, Width: 120, Height: 60}
	child := diagram.NodeLayout{X: 120, Y: 120, Width: 120, Height: 60}

	tests := []struct {
		name  string
		style layout.EdgeStyle
		want  []layout.Point
	}{
		{
			name:  "straight",
			style: layout.EdgeStyle{Routing: layout.RoutingStraight},
			want:  []layout.Point{{X: 160, Y: 60}, {X: 180, Y: 120}},
		},
		{
			name:  "elbow left of the column",
			style: layout.EdgeStyle{Routing: layout.RoutingElbow, ExitOffset: -50, EntrySide: layout.SideLeft},
			want:  []layout.Point{{X: 110, Y: 60}, {X: 110, Y: 150}, {X: 120, Y: 150}},
		},
		{
			name:  "elbow from indented exit",
			style: layout.EdgeStyle{Routing: layout.RoutingElbow, ExitOffset: 20, EntrySide: layout.SideLeft},
			want:  []layout.Point{{X: 180, Y: 60}, {X: 180, Y: 70}, {X: 110, Y: 70}, {X: 110, Y: 150}, {X: 120, Y: 150}},
		},
		{
			name: "elbow with control point",
			style: layout.EdgeStyle{
				Routing:       layout.RoutingElbow,
				EntrySide:     layout.SideLeft,
				ControlPoints: []layout.Point{{X: 110, Y: 90}},
			},
			want: []layout.Point{{X: 160, Y: 60}, {X: 160, Y: 90}, {X: 110, Y: 90}, {X: 110, Y: 150}, {X: 120, Y: 150}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EdgePath(parent, child, tt.style)
			if len(got) != len(tt.want) {
				t.Fatalf("EdgePath() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("EdgePath()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	for _, name := range ValidStyles {
		t.Run(name, func(t *testing.T) {
			style, err := StyleByName(name)
			if err != nil {
				t.Fatal(err)
			}
			svg := string(RenderSVG(sampleLayout(), WithStyle(style), WithBackground("white")))

			if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
				t.Error("output is not a complete svg document")
			}
			if got := strings.Count(svg, `class="card"`); got != 3 {
				t.Errorf("cards = %d, want 3", got)
			}
			if got := strings.Count(svg, "<polyline"); got != 2 {
				t.Errorf("edges = %d, want 2", got)
			}
			if !strings.Contains(svg, "Ada &amp; Co") {
				t.Error("name not escaped")
			}
			if !strings.Contains(svg, ">+2<") {
				t.Error("hidden report badge missing")
			}
			if !strings.Contains(svg, `width="620"`) {
				t.Error("canvas should span the viewport plus the left margin")
			}
		})
	}
}

func TestStyleByName(t *testing.T) {
	if _, err := StyleByName("handdrawn"); !errors.Is(err, errors.ErrCodeInvalidStyle) {
		t.Errorf("StyleByName(handdrawn) error = %v", err)
	}
	if s, err := StyleByName(""); err != nil || s != (Simple{}) {
		t.Errorf("StyleByName(\"\") = %v, %v, want Simple", s, err)
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleLayout())

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	// boss center (140, 30) flipped against bottom 180
	if !strings.Contains(dot, `pos="140.00,150.00!"`) {
		t.Errorf("ToDOT() missing pinned position for boss:\n%s", dot)
	}
	if !strings.Contains(dot, `"boss" -> "ic" [tailport=s, headport=w]`) {
		t.Error("elbow edge should enter from the west")
	}
	if !strings.Contains(dot, `"boss" -> "mgr" [tailport=s, headport=n]`) {
		t.Error("straight edge should enter from the north")
	}
	if !strings.Contains(dot, "peripheries=2") {
		t.Error("collapsed manager should be marked")
	}
	if !strings.Contains(dot, `label="Ada & Co\nCEO"`) {
		t.Error("label should hold name and title")
	}
}

func TestRenderGraphviz(t *testing.T) {
	ctx := context.Background()
	dot := ToDOT(sampleLayout())

	svg, err := RenderGraphviz(ctx, dot, FormatSVG)
	if err != nil {
		t.Fatalf("RenderGraphviz(svg) error = %v", err)
	}
	if !bytes.Contains(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0`)) {
		t.Error("svg header not normalized")
	}

	png, err := RenderGraphviz(ctx, dot, FormatPNG)
	if err != nil {
		t.Fatalf("RenderGraphviz(png) error = %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("png output lacks PNG signature")
	}

	if _, err := RenderGraphviz(ctx, dot, "pdf"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("RenderGraphviz(pdf) error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox() = %s, want %s", out, want)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("normalizeViewBox() without viewBox = %s", got)
	}
}
