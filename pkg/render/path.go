package render

import (
	"github.com/matzehuels/orgchart/pkg/diagram"
	"github.com/matzehuels/orgchart/pkg/layout"
)

// EdgePath returns the polyline of a reporting line from parent to child.
//
// Straight edges run from the parent's bottom center to the child's top
// center. Elbow edges leave the parent's bottom at the exit offset, run
// vertically and horizontally through each control point, and enter the
// child from its left side at mid height. An elbow without control points
// whose exit lies over the child's column first jogs to a gutter left of the
// column, so the trunk never crosses the stacked cards.
func EdgePath(parent, child diagram.NodeLayout, style layout.EdgeStyle) []layout.Point {
	pb, cb := parent.Box(), child.Box()
	start := layout.Point{X: pb.CenterX() + style.ExitOffset, Y: pb.Bottom}

	if style.Routing != layout.RoutingElbow {
		return []layout.Point{start, {X: cb.CenterX(), Y: cb.Top}}
	}

	end := layout.Point{X: cb.CenterX(), Y: cb.Top}
	if style.EntrySide == layout.SideLeft {
		end = layout.Point{X: cb.Left, Y: cb.CenterY()}
	}

	pts := []layout.Point{start}
	cur := start
	if style.EntrySide == layout.SideLeft && len(style.ControlPoints) == 0 {
		if gutter := cb.Left - layout.DefaultEdgeOffset; start.X > gutter {
			stub := start.Y + min(layout.DefaultEdgeOffset, (cb.Top-pb.Bottom)/2)
			cur = layout.Point{X: gutter, Y: stub}
			pts = append(pts, layout.Point{X: start.X, Y: stub}, cur)
		}
	}
	for _, cp := range style.ControlPoints {
		pts = append(pts, layout.Point{X: cur.X, Y: cp.Y}, cp)
		cur = cp
	}
	if style.EntrySide == layout.SideLeft {
		pts = append(pts, layout.Point{X: cur.X, Y: end.Y})
	} else {
		pts = append(pts, layout.Point{X: end.X, Y: cur.Y})
	}
	return append(pts, end)
}
