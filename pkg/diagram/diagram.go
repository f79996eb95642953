package diagram

import (
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/org"
)

// Node is the drawable state of one chart member.
type Node struct {
	Member  org.Member
	Width   float64
	Height  float64
	X, Y    float64
	Placed  bool
	Visible bool
	// HiddenReports counts direct reports that are not drawn.
	HiddenReports int
}

// Box returns the node's rectangle.
func (n Node) Box() layout.Box {
	return layout.Box{Left: n.X, Top: n.Y, Right: n.X + n.Width, Bottom: n.Y + n.Height}
}

// Edge is a reporting line between two members.
type Edge struct {
	Parent, Child string
	Style         layout.EdgeStyle
}

type edgeKey struct{ parent, child string }

// Diagram is the visible view of a chart. It implements layout.Diagram.
// It is not safe for concurrent use.
type Diagram struct {
	chart *org.Chart
	vis   Visibility
	nodes map[string]*Node
	edges map[edgeKey]*Edge
	root  string
}

var _ layout.Diagram = (*Diagram)(nil)

// New builds a diagram for chart. The chart is validated if it has not
// been already.
func New(chart *org.Chart, vis Visibility, m Measurer) (*Diagram, error) {
	if chart == nil {
		return nil, errors.New(errors.ErrCodeInvalidChart, "nil chart")
	}
	if chart.Root() == "" {
		if err := chart.Validate(); err != nil {
			return nil, err
		}
	}
	if vis.Mode == "" {
		vis.Mode = ModeAll
	}

	d := &Diagram{
		chart: chart,
		nodes: make(map[string]*Node, len(chart.Members)),
		edges: make(map[edgeKey]*Edge),
	}
	for _, mem := range chart.Members {
		w, h := m.Measure(mem.Name, mem.Title)
		d.nodes[mem.ID] = &Node{Member: mem, Width: w, Height: h}
		if mem.Manager != "" {
			d.edges[edgeKey{mem.Manager, mem.ID}] = &Edge{Parent: mem.Manager, Child: mem.ID}
		}
	}
	d.SetVisibility(vis)
	return d, nil
}

// Chart returns the underlying chart.
func (d *Diagram) Chart() *org.Chart { return d.chart }

// Visibility returns the current visibility setting.
func (d *Diagram) Visibility() Visibility { return d.vis }

// SetVisibility recomputes which members are shown and clears every
// position. The next layout pass starts from scratch.
func (d *Diagram) SetVisibility(vis Visibility) {
	if vis.Mode == "" {
		vis.Mode = ModeAll
	}
	d.vis = vis
	d.Reset()

	top := d.chart.Root()
	var walk func(id string, shown bool)
	walk = func(id string, shown bool) {
		n := d.nodes[id]
		n.Visible = shown && (id == top || d.vis.Mode == ModeAll || !d.chart.IsIndividualContributor(id))
		n.HiddenReports = 0
		below := n.Visible && !d.vis.IsCollapsed(id)
		for _, c := range d.chart.Reports(id) {
			walk(c, below)
			if !d.nodes[c].Visible {
				n.HiddenReports++
			}
		}
	}
	walk(top, true)
	d.root = d.pickRoot()
}

// pickRoot returns the shallowest visible group, else the shallowest
// visible person.
func (d *Diagram) pickRoot() string {
	var person string
	queue := []string{d.chart.Root()}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n := d.nodes[id]
		if !n.Visible {
			continue
		}
		if n.Member.IsGroup() {
			return id
		}
		if person == "" {
			person = id
		}
		queue = append(queue, d.chart.Reports(id)...)
	}
	return person
}

// Reset forgets all positions and edge styles.
func (d *Diagram) Reset() {
	for _, n := range d.nodes {
		n.X, n.Y, n.Placed = 0, 0, false
	}
	for _, e := range d.edges {
		e.Style = layout.EdgeStyle{Routing: layout.RoutingStraight}
	}
}

// Node returns a copy of the node for id.
func (d *Diagram) Node(id string) (Node, bool) {
	n, ok := d.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Nodes returns all visible placed nodes in chart order.
func (d *Diagram) Nodes() []Node {
	var out []Node
	for _, m := range d.chart.Members {
		if n := d.nodes[m.ID]; n.Visible && n.Placed {
			out = append(out, *n)
		}
	}
	return out
}

// Edges returns the edges between visible placed nodes in chart order.
func (d *Diagram) Edges() []Edge {
	var out []Edge
	for _, m := range d.chart.Members {
		if m.Manager == "" {
			continue
		}
		p, c := d.nodes[m.Manager], d.nodes[m.ID]
		if p.Visible && p.Placed && c.Visible && c.Placed {
			out = append(out, *d.edges[edgeKey{m.Manager, m.ID}])
		}
	}
	return out
}

// Root implements layout.Diagram.
func (d *Diagram) Root() (string, bool) {
	return d.root, d.root != ""
}

// Relations implements layout.Diagram.
func (d *Diagram) Relations(id string) []layout.Relation {
	reports := d.chart.Reports(id)
	out := make([]layout.Relation, len(reports))
	for i, c := range reports {
		out[i] = layout.Relation{Child: c, Visible: d.nodes[c].Visible}
	}
	return out
}

// Size implements layout.Diagram.
func (d *Diagram) Size(id string) (float64, float64) {
	n := d.nodes[id]
	return n.Width, n.Height
}

// SetPosition implements layout.Diagram.
func (d *Diagram) SetPosition(id string, x, y float64) {
	n := d.nodes[id]
	n.X, n.Y, n.Placed = x, y, true
}

// SetEdgeStyle implements layout.Diagram.
func (d *Diagram) SetEdgeStyle(parent, child string, style layout.EdgeStyle) {
	if e, ok := d.edges[edgeKey{parent, child}]; ok {
		e.Style = style
	}
}

// Bounds implements layout.Diagram.
func (d *Diagram) Bounds() (layout.Box, bool) {
	var b layout.Box
	found := false
	for _, n := range d.nodes {
		if !n.Visible || !n.Placed {
			continue
		}
		if !found {
			b, found = n.Box(), true
			continue
		}
		b = b.Union(n.Box())
	}
	return b, found
}

// TranslateX implements layout.Diagram.
func (d *Diagram) TranslateX(dx float64) {
	for _, n := range d.nodes {
		if n.Placed {
			n.X += dx
		}
	}
	for _, e := range d.edges {
		for i := range e.Style.ControlPoints {
			e.Style.ControlPoints[i].X += dx
		}
	}
}
