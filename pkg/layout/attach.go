package layout

type placement struct {
	id   string
	x, y float64
}

type styledEdge struct {
	parent, child string
	style         EdgeStyle
}

// attach resolves relative positions into absolute ones and writes them to
// d. Nothing is written unless the whole tree resolved.
func attach(t *tree, d Diagram) int {
	if t.root == noRef {
		return 0
	}
	a := &attacher{t: t}
	a.walk(t.root, 0, "")
	for _, p := range a.placements {
		d.SetPosition(p.id, p.x, p.y)
	}
	for _, e := range a.edges {
		d.SetEdgeStyle(e.parent, e.child, e.style)
	}
	return len(a.placements)
}

type attacher struct {
	t          *tree
	placements []placement
	edges      []styledEdge
}

// walk visits r with the horizontal offset inherited from its ancestors.
// owner is the external id of the nearest real ancestor.
func (a *attacher) walk(r ref, inherited float64, owner string) {
	n := a.t.node(r)
	if !n.placed {
		invariant("attach", a.t.label(r), "node was never positioned")
	}
	if n.kind == kindNode {
		a.placements = append(a.placements, placement{id: n.external, x: n.relX + inherited, y: n.relY})
		if n.edge.set {
			a.edges = append(a.edges, styledEdge{parent: owner, child: n.external, style: resolveStyle(n.edge.style, inherited)})
		}
		owner = n.external
	}
	for _, c := range n.children {
		a.walk(c, inherited+n.xAdjust, owner)
	}
}

func resolveStyle(s EdgeStyle, dx float64) EdgeStyle {
	if len(s.ControlPoints) == 0 {
		return s
	}
	pts := make([]Point, len(s.ControlPoints))
	for i, p := range s.ControlPoints {
		pts[i] = Point{X: p.X + dx, Y: p.Y}
	}
	s.ControlPoints = pts
	return s
}
