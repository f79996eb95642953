package layout

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/orgchart/pkg/errors"
)

// Engine runs layout passes. It holds only immutable configuration and can
// be shared between goroutines working on distinct diagrams.
type Engine struct {
	cfg    Config
	logger *log.Logger
}

// Result summarizes a layout pass.
type Result struct {
	Root        string        // id of the root node, empty if there was none
	Placed      int           // number of nodes that received a position
	Wrappers    int           // number of leaf wrappers built
	Translation float64       // horizontal centering shift applied
	Bounds      Box           // bounds after centering
	Duration    time.Duration // wall time of the pass
}

// NewEngine creates an engine. A nil logger discards output.
func NewEngine(cfg Config, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Execute runs one full pass over d: metadata, positioning, attachment and
// centering. A diagram without a root is only centered.
//
// An invalid configuration is rejected before d is touched. If an internal
// invariant breaks, Execute returns an error with code LAYOUT_INVARIANT and
// no position has been written to d.
func (e *Engine) Execute(ctx context.Context, d Diagram) (res Result, err error) {
	if err := e.cfg.Validate(); err != nil {
		return Result{}, err
	}
	start := time.Now()
	logger := e.logger
	if l := log.FromContext(ctx); l != log.Default() {
		logger = l
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		ie, ok := r.(*InvariantError)
		if !ok {
			panic(r)
		}
		logger.Error("layout aborted", "op", ie.Op, "node", ie.Node, "reason", ie.Msg)
		res = Result{}
		err = errors.Wrap(errors.ErrCodeLayoutInvariant, ie, "layout aborted")
	}()

	if root, ok := d.Root(); ok {
		t := buildMetadata(d, root, e.cfg)
		p := &positioner{t: t, cfg: e.cfg}
		p.layoutNode(t.root, Point{})
		res.Root = root
		res.Placed = attach(t, d)
		res.Wrappers = t.wrappers
	}

	res.Translation = center(d, e.cfg.ViewportWidth)
	res.Bounds, _ = d.Bounds()
	res.Duration = time.Since(start)

	logger.Debug("layout complete",
		"root", res.Root,
		"placed", res.Placed,
		"wrappers", res.Wrappers,
		"translation", res.Translation,
		"width", res.Bounds.Width())
	return res, nil
}

// center shifts the drawing so it sits in the middle of a wider viewport.
func center(d Diagram, viewportWidth float64) float64 {
	bounds, ok := d.Bounds()
	if !ok {
		return 0
	}
	w := bounds.Width()
	if w >= viewportWidth {
		return 0
	}
	dx := (viewportWidth - w) / 2
	d.TranslateX(dx)
	return dx
}
