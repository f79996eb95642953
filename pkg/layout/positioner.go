package layout

// positioner assigns relative positions in a post-order walk. Every node's
// relX/relY is in the frame of its parent's children; a node's xAdjust is
// added to everything below it when the frames are resolved.
type positioner struct {
	t   *tree
	cfg Config
}

// layoutNode positions the subtree rooted at r with its top-left corner at
// cursor and returns the cursor for the next sibling.
func (p *positioner) layoutNode(r ref, cursor Point) Point {
	n := p.t.node(r)
	switch {
	case n.kind == kindLeafWrapper:
		return p.layoutWrapper(r, cursor)
	case len(n.children) == 0:
		return p.layoutSingle(r, cursor)
	default:
		return p.layoutBranch(r, cursor)
	}
}

// layoutWrapper stacks the wrapped leaves in one column.
func (p *positioner) layoutWrapper(r ref, cursor Point) Point {
	parent := p.t.node(r).parent
	if parent == noRef {
		invariant("position", "", "leaf wrapper without a parent")
	}
	p.t.place(r, cursor.X, cursor.Y)

	sole := p.t.soleChild(r)
	columnX := cursor.X + p.t.wrapperIndent(r)
	pn := p.t.node(parent)
	parentBottom := pn.relY + pn.height

	y := cursor.Y
	for _, c := range p.t.node(r).children {
		p.t.place(c, columnX, y)
		leaf := p.t.node(c)
		if sole {
			// exits below the parent's center, shifted by the indent
			leaf.edge = edgeHint{set: true, style: EdgeStyle{
				Routing:    RoutingElbow,
				ExitOffset: p.cfg.ChildIndent,
				EntrySide:  SideLeft,
			}}
		} else {
			// shared trunk left of the column, reached halfway between the
			// parent's bottom and the first leaf row
			leaf.edge = edgeHint{set: true, style: EdgeStyle{
				Routing:   RoutingElbow,
				EntrySide: SideLeft,
				ControlPoints: []Point{{
					X: columnX - p.cfg.EdgeOffset,
					Y: (parentBottom + cursor.Y) / 2,
				}},
			}}
		}
		y += leaf.height + p.cfg.VerticalSpacing/2
	}
	return Point{X: cursor.X + p.t.node(r).width + p.cfg.HorizontalSpacing, Y: cursor.Y}
}

// layoutSingle places a childless node that was not wrapped (it has hidden
// reports) like a one-row wrapper.
func (p *positioner) layoutSingle(r ref, cursor Point) Point {
	p.t.place(r, cursor.X, cursor.Y)
	return Point{X: cursor.X + p.t.node(r).width + p.cfg.HorizontalSpacing, Y: cursor.Y}
}

func (p *positioner) layoutBranch(r ref, cursor Point) Point {
	// relY is fixed before the children so wrappers can see the parent's
	// bottom edge; relX is decided afterwards.
	p.t.place(r, cursor.X, cursor.Y)

	n := p.t.node(r)
	children := n.children
	next := Point{X: cursor.X, Y: cursor.Y + n.height + p.cfg.VerticalSpacing}
	for _, c := range children {
		next.X = p.layoutNode(c, next).X
	}

	var ideal float64
	if len(children) == 1 {
		ideal = p.t.node(children[0]).relX
	} else {
		first, last := children[0], children[len(children)-1]
		ideal = (p.t.center(first)+p.t.center(last))/2 - p.t.node(r).width/2
	}

	leftmost := cursor.X == 0
	if leftmost {
		p.t.setRelX(r, ideal)
	} else {
		// stay at the cursor and move the children under us instead
		p.t.setRelX(r, cursor.X)
		p.t.node(r).xAdjust += cursor.X - ideal
		p.t.invalidate(r)
		if p.t.node(r).parent != noRef {
			p.resolveOverlap(r)
		}
	}

	n = p.t.node(r)
	return Point{X: n.relX + n.width + p.cfg.HorizontalSpacing, Y: cursor.Y}
}

// resolveOverlap pushes r right until its subtree clears every earlier
// sibling by at least minGap on every level below the top one.
func (p *positioner) resolveOverlap(r ref) {
	parent := p.t.node(r).parent
	if parent == noRef {
		invariant("overlap", p.t.label(r), "node has no parent")
	}
	left := p.t.leftContour(r)
	gap := p.cfg.minGap()

	var shift float64
	for _, sib := range p.t.node(parent).children {
		if sib == r {
			break
		}
		right := p.t.rightContour(sib)
		depth := min(len(left), len(right))
		for l := 1; l < depth; l++ {
			shift = max(shift, gap-(left[l]-right[l]))
		}
	}
	if shift > 0 {
		p.t.shift(r, shift)
	}
}
