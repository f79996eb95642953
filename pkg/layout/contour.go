package layout

import "math"

// leftContour returns the leftmost x of r's subtree per depth level, in the
// frame of r's parent. Level 0 is r itself.
func (t *tree) leftContour(r ref) []float64 {
	t.ensureContours(r)
	return t.node(r).left
}

// rightContour is the rightmost counterpart of leftContour.
func (t *tree) rightContour(r ref) []float64 {
	t.ensureContours(r)
	return t.node(r).right
}

func (t *tree) ensureContours(r ref) {
	n := t.node(r)
	if !n.placed {
		invariant("contour", t.label(r), "queried before the node was positioned")
	}
	if n.contourValid {
		return
	}
	var left, right []float64
	if n.kind == kindLeafWrapper {
		// a sole wrapper's contour follows the indented leaf column, not
		// relX, so siblings keep clear of the cards actually drawn
		left, right = t.wrapperContours(r)
	} else {
		left, right = t.nodeContours(r)
	}
	// child queries may have rebuilt other entries; re-fetch
	n = t.node(r)
	n.left, n.right = left, right
	n.contourValid = true
}

func (t *tree) nodeContours(r ref) (left, right []float64) {
	n := t.node(r)
	left = []float64{n.relX}
	right = []float64{n.relX + n.width}
	adj := n.xAdjust
	for _, c := range n.children {
		left = mergeContour(left, t.leftContour(c), adj, math.Min)
		right = mergeContour(right, t.rightContour(c), adj, math.Max)
	}
	return left, right
}

// mergeContour folds a child contour into acc starting at depth 1.
func mergeContour(acc, child []float64, adj float64, pick func(a, b float64) float64) []float64 {
	for i, v := range child {
		level := i + 1
		v += adj
		if level < len(acc) {
			acc[level] = pick(acc[level], v)
		} else {
			acc = append(acc, v)
		}
	}
	return acc
}

// wrapperContours reports the wrapper's column extents once per occupied row.
func (t *tree) wrapperContours(r ref) (left, right []float64) {
	n := t.node(r)
	x := n.relX + t.wrapperIndent(r)
	rows := t.occupiedRows(r)
	left = make([]float64, rows)
	right = make([]float64, rows)
	for i := range rows {
		left[i] = x
		right[i] = x + n.width
	}
	return left, right
}

func (t *tree) wrapperIndent(r ref) float64 {
	if t.soleChild(r) {
		return t.cfg.ChildIndent
	}
	return 0
}

// occupiedRows estimates how many rows of a regular layout the wrapper's
// column spans. Leaves advance by height+vs/2 while regular rows advance by
// height+vs.
func (t *tree) occupiedRows(r ref) int {
	n := t.node(r)
	count := len(n.children)
	if count == 0 {
		return 0
	}
	var h float64
	for _, c := range n.children {
		h = max(h, t.node(c).height)
	}
	vs := t.cfg.VerticalSpacing
	row := h + vs
	if row <= 0 {
		return count
	}
	return max(1, int(math.Ceil((h+vs/2)*float64(count)/row)))
}
