package diagram

import (
	"encoding/json"
	"os"

	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/org"
)

// Layout is the serialized result of a layout pass.
type Layout struct {
	Name          string       `json:"name,omitempty"`
	Mode          Mode         `json:"mode"`
	Collapsed     []string     `json:"collapsed,omitempty"`
	ViewportWidth float64      `json:"viewport_width"`
	Translation   float64      `json:"translation"`
	Bounds        layout.Box   `json:"bounds"`
	Nodes         []NodeLayout `json:"nodes"`
	Edges         []EdgeLayout `json:"edges"`
}

// NodeLayout is a positioned member card.
type NodeLayout struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Title         string   `json:"title,omitempty"`
	Team          string   `json:"team,omitempty"`
	Kind          org.Kind `json:"kind"`
	X             float64  `json:"x"`
	Y             float64  `json:"y"`
	Width         float64  `json:"width"`
	Height        float64  `json:"height"`
	Collapsed     bool     `json:"collapsed,omitempty"`
	HiddenReports int      `json:"hidden_reports,omitempty"`
}

// Box returns the card's rectangle.
func (n NodeLayout) Box() layout.Box {
	return layout.Box{Left: n.X, Top: n.Y, Right: n.X + n.Width, Bottom: n.Y + n.Height}
}

// EdgeLayout is a routed reporting line.
type EdgeLayout struct {
	From  string           `json:"from"`
	To    string           `json:"to"`
	Style layout.EdgeStyle `json:"style"`
}

// Export snapshots the current positions.
func (d *Diagram) Export(viewportWidth, translation float64) Layout {
	l := Layout{
		Name:          d.chart.Name,
		Mode:          d.vis.Mode,
		Collapsed:     d.vis.CollapsedIDs(),
		ViewportWidth: viewportWidth,
		Translation:   translation,
		Nodes:         []NodeLayout{},
		Edges:         []EdgeLayout{},
	}
	l.Bounds, _ = d.Bounds()
	for _, n := range d.Nodes() {
		l.Nodes = append(l.Nodes, NodeLayout{
			ID:            n.Member.ID,
			Name:          n.Member.Name,
			Title:         n.Member.Title,
			Team:          n.Member.Team,
			Kind:          n.Member.Kind,
			X:             n.X,
			Y:             n.Y,
			Width:         n.Width,
			Height:        n.Height,
			Collapsed:     d.vis.IsCollapsed(n.Member.ID),
			HiddenReports: n.HiddenReports,
		})
	}
	for _, e := range d.Edges() {
		l.Edges = append(l.Edges, EdgeLayout{From: e.Parent, To: e.Child, Style: e.Style})
	}
	return l
}

// Node looks up a node by id.
func (l Layout) Node(id string) (NodeLayout, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeLayout{}, false
}

// Index maps node ids to their position in l.Nodes.
func (l Layout) Index() map[string]int {
	idx := make(map[string]int, len(l.Nodes))
	for i, n := range l.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and checks that
// every edge connects known nodes.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "unmarshal layout")
	}
	if l.Mode == "" {
		l.Mode = ModeAll
	}
	idx := l.Index()
	for _, e := range l.Edges {
		if _, ok := idx[e.From]; !ok {
			return Layout{}, errors.New(errors.ErrCodeInvalidInput, "edge references unknown node %q", e.From)
		}
		if _, ok := idx[e.To]; !ok {
			return Layout{}, errors.New(errors.ErrCodeInvalidInput, "edge references unknown node %q", e.To)
		}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	return UnmarshalLayout(data)
}
