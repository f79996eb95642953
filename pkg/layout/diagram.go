package layout

// Point is a position in diagram space. Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is an axis-aligned rectangle in diagram space.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

func (b Box) Width() float64   { return b.Right - b.Left }
func (b Box) Height() float64  { return b.Bottom - b.Top }
func (b Box) CenterX() float64 { return (b.Left + b.Right) / 2 }
func (b Box) CenterY() float64 { return (b.Top + b.Bottom) / 2 }

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	return Box{
		Left:   min(b.Left, o.Left),
		Top:    min(b.Top, o.Top),
		Right:  max(b.Right, o.Right),
		Bottom: max(b.Bottom, o.Bottom),
	}
}

// Routing names how an edge should be drawn.
type Routing string

const (
	// RoutingStraight connects parent bottom-center to child top-center.
	RoutingStraight Routing = "straight"
	// RoutingElbow is used for edges into wrapped leaves: vertical and
	// horizontal segments through the style's control points, entering the
	// leaf from its left side.
	RoutingElbow Routing = "elbow"
)

// Side identifies the side of a node an edge enters through.
type Side string

const (
	SideTop  Side = "top"
	SideLeft Side = "left"
)

// EdgeStyle is a routing hint for the edge between a parent and a child.
type EdgeStyle struct {
	Routing Routing `json:"routing"`
	// ExitOffset is the horizontal distance from the parent's center at
	// which the edge leaves the parent's bottom side.
	ExitOffset    float64 `json:"exit_offset,omitempty"`
	EntrySide     Side    `json:"entry_side,omitempty"`
	ControlPoints []Point `json:"control_points,omitempty"`
}

// Relation is one parent-to-child link as seen by the engine.
type Relation struct {
	Child   string
	Visible bool
}

// Diagram is the surrounding graph a layout pass reads from and writes to.
//
// Relations must be returned in a stable order; that order is the
// left-to-right order of siblings in the drawing. Implementations must not
// be mutated by anything else while a pass runs.
type Diagram interface {
	// Root returns the id of the node the drawing hangs from.
	Root() (id string, ok bool)
	Relations(id string) []Relation
	Size(id string) (width, height float64)
	SetPosition(id string, x, y float64)
	SetEdgeStyle(parent, child string, style EdgeStyle)
	// Bounds returns the bounding box of every placed visible node.
	Bounds() (Box, bool)
	// TranslateX moves every placed node (and edge control point) by dx.
	TranslateX(dx float64)
}
