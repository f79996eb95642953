package layout

// buildMetadata mirrors the visible subtree below root into a fresh arena.
//
// Leaf children (no visible and no hidden reports) are gathered into one
// wrapper per parent. The wrapper is always the parent's first child; the
// other children keep their relative order.
func buildMetadata(d Diagram, root string, cfg Config) *tree {
	b := &builder{
		d:        d,
		t:        newTree(cfg),
		visiting: make(map[string]bool),
	}
	b.t.root = b.build(root)
	return b.t
}

type builder struct {
	d        Diagram
	t        *tree
	visiting map[string]bool
}

func (b *builder) build(id string) ref {
	if b.visiting[id] {
		invariant("metadata", id, "reached twice (cycle or shared child)")
	}
	b.visiting[id] = true

	w, h := b.d.Size(id)
	self := b.t.add(node{
		kind:     kindNode,
		external: id,
		width:    max(w, b.t.cfg.MinCellWidth),
		height:   h,
	})

	wrapper := noRef
	for _, rel := range b.d.Relations(id) {
		if !rel.Visible {
			b.t.node(self).hasHiddenChildren = true
			continue
		}
		child := b.build(rel.Child)
		if !b.isLeaf(child) {
			b.t.appendChild(self, child)
			continue
		}
		if wrapper == noRef {
			wrapper = b.t.add(node{kind: kindLeafWrapper})
			b.t.prependChild(self, wrapper)
		}
		b.t.appendChild(wrapper, child)
		wn := b.t.node(wrapper)
		wn.width = max(wn.width, b.t.node(child).width)
	}
	return self
}

func (b *builder) isLeaf(r ref) bool {
	n := b.t.node(r)
	return len(n.children) == 0 && !n.hasHiddenChildren
}
