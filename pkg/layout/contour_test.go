package layout

import "testing"

func TestOccupiedRows(t *testing.T) {
	tests := []struct {
		name   string
		leaves int
		height float64
		vs     float64
		want   int
	}{
		{"one leaf", 1, 60, 60, 1},
		{"two leaves", 2, 60, 60, 2},
		{"three leaves", 3, 60, 60, 3},
		{"four leaves", 4, 60, 60, 3},
		{"five leaves", 5, 60, 60, 4},
		{"no vertical spacing", 3, 60, 0, 3},
		{"zero height and spacing", 4, 0, 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.VerticalSpacing = tt.vs
			d := newTestDiagram("r")
			for i := range tt.leaves {
				id := string(rune('a' + i))
				d.add("r", id, true).size(id, 120, tt.height)
			}
			tr := buildMetadata(d, "r", cfg)
			w := tr.node(tr.root).children[0]
			if got := tr.occupiedRows(w); got != tt.want {
				t.Errorf("occupiedRows() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWrapperContour(t *testing.T) {
	d := newTestDiagram("r").
		add("r", "a", true).
		add("r", "b", true).
		size("b", 200, 60)
	tr := buildMetadata(d, "r", DefaultConfig())
	p := &positioner{t: tr, cfg: tr.cfg}
	p.layoutNode(tr.root, Point{})

	w := tr.node(tr.root).children[0]
	left, right := tr.leftContour(w), tr.rightContour(w)
	if len(left) != 2 || len(right) != 2 {
		t.Fatalf("contour lengths = %d/%d, want 2/2", len(left), len(right))
	}
	for i := range left {
		// sole child: column is indented
		if left[i] != DefaultChildIndent {
			t.Errorf("left[%d] = %v, want %v", i, left[i], DefaultChildIndent)
		}
		if right[i]-left[i] != 200 {
			t.Errorf("row %d width = %v, want widest leaf 200", i, right[i]-left[i])
		}
	}
}

func TestNodeContourMergesChildren(t *testing.T) {
	// r -> (a -> a1, a2), (b -> b1 -> b2)
	d := newTestDiagram("r").
		add("r", "a", true).
		add("a", "a1", true).
		add("a", "a2", true).
		add("r", "b", true).
		add("b", "b1", true).
		add("b1", "b2", true)
	tr := buildMetadata(d, "r", DefaultConfig())
	p := &positioner{t: tr, cfg: tr.cfg}
	p.layoutNode(tr.root, Point{})

	root := tr.node(tr.root)
	left, right := tr.leftContour(tr.root), tr.rightContour(tr.root)
	if left[0] != root.relX || right[0] != root.relX+root.width {
		t.Errorf("level 0 = [%v,%v], want [%v,%v]", left[0], right[0], root.relX, root.relX+root.width)
	}
	// a's wrapper spans 2 rows, b's chain adds levels 2 and 3
	if len(left) != 4 || len(right) != 4 {
		t.Fatalf("contour depth = %d/%d, want 4", len(left), len(right))
	}
	for i := range left {
		if left[i] > right[i] {
			t.Errorf("level %d: left %v > right %v", i, left[i], right[i])
		}
	}
}

func TestContourOfUnplacedNode(t *testing.T) {
	d := newTestDiagram("r").add("r", "a", true)
	tr := buildMetadata(d, "r", DefaultConfig())

	defer func() {
		ie, ok := recover().(*InvariantError)
		if !ok {
			t.Fatal("expected *InvariantError")
		}
		if ie.Op != "contour" {
			t.Errorf("Op = %q, want contour", ie.Op)
		}
	}()
	tr.leftContour(tr.root)
}

func TestMergeContour(t *testing.T) {
	got := mergeContour([]float64{10}, []float64{5, 3}, 2, func(a, b float64) float64 { return min(a, b) })
	want := []float64{10, 7, 5}
	if len(got) != len(want) {
		t.Fatalf("mergeContour() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("mergeContour()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
