package layout

// ref addresses a node in a tree arena.
type ref int

const noRef ref = -1

type kind uint8

const (
	kindNode kind = iota
	kindLeafWrapper
)

// edgeHint is the routing hint of a wrapped leaf's incoming edge. Control
// points are expressed in the leaf's own frame and are shifted by the
// leaf's inherited offset during attachment.
type edgeHint struct {
	set   bool
	style EdgeStyle
}

// node is the per-pass layout metadata of one visible node, or of a
// synthetic leaf wrapper when kind is kindLeafWrapper.
type node struct {
	kind     kind
	external string // empty for wrappers

	width, height float64

	relX, relY float64
	placed     bool
	xAdjust    float64

	left, right  []float64
	contourValid bool

	parent            ref
	children          []ref
	hasHiddenChildren bool

	edge edgeHint
}

// tree is the arena holding all metadata of a single pass.
type tree struct {
	cfg   Config
	nodes []node
	root  ref
	// wrappers counts leaf wrappers, for logging.
	wrappers int
}

func newTree(cfg Config) *tree {
	return &tree{cfg: cfg, root: noRef}
}

// node returns a pointer into the arena. It is invalidated by add, so callers
// must not hold it across an add.
func (t *tree) node(r ref) *node {
	return &t.nodes[r]
}

func (t *tree) add(n node) ref {
	n.parent = noRef
	t.nodes = append(t.nodes, n)
	if n.kind == kindLeafWrapper {
		t.wrappers++
	}
	return ref(len(t.nodes) - 1)
}

func (t *tree) label(r ref) string {
	if r == noRef {
		return ""
	}
	if n := t.node(r); n.kind == kindNode {
		return n.external
	}
	if p := t.node(r).parent; p != noRef {
		return t.node(p).external + "/leaves"
	}
	return "leaves"
}

func (t *tree) link(parent, child ref) {
	c := t.node(child)
	if c.parent != noRef {
		invariant("metadata", t.label(child), "already attached to %q", t.label(c.parent))
	}
	c.parent = parent
}

func (t *tree) appendChild(parent, child ref) {
	t.link(parent, child)
	p := t.node(parent)
	p.children = append(p.children, child)
	t.invalidate(parent)
}

func (t *tree) prependChild(parent, child ref) {
	t.link(parent, child)
	p := t.node(parent)
	p.children = append([]ref{child}, p.children...)
	t.invalidate(parent)
}

// invalidate clears the contour caches of r and every ancestor.
func (t *tree) invalidate(r ref) {
	for r != noRef {
		n := t.node(r)
		n.contourValid = false
		n.left, n.right = nil, nil
		r = n.parent
	}
}

func (t *tree) place(r ref, x, y float64) {
	n := t.node(r)
	n.relX, n.relY = x, y
	n.placed = true
	t.invalidate(r)
}

func (t *tree) setRelX(r ref, x float64) {
	t.node(r).relX = x
	t.invalidate(r)
}

// shift moves r and its whole subtree right by dx.
func (t *tree) shift(r ref, dx float64) {
	n := t.node(r)
	n.relX += dx
	n.xAdjust += dx
	t.invalidate(r)
}

func (t *tree) soleChild(r ref) bool {
	p := t.node(r).parent
	return p != noRef && len(t.node(p).children) == 1
}

func (t *tree) center(r ref) float64 {
	n := t.node(r)
	return n.relX + n.width/2
}
