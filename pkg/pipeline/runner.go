package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/matzehuels/orgchart/pkg/diagram"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/observability"
	"github.com/matzehuels/orgchart/pkg/org"
)

// Runner executes pipeline stages. It stores no results, so multiple
// goroutines can share one Runner with different options. Font measurers
// are cached per size and released by Close.
type Runner struct {
	Logger *log.Logger

	mu        sync.Mutex
	measurers map[float64]*diagram.FontMeasurer
}

// NewRunner creates a runner. A nil logger selects log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger, measurers: make(map[float64]*diagram.FontMeasurer)}
}

// Execute runs the complete layout → render pipeline for chart.
func (r *Runner) Execute(ctx context.Context, chart *org.Chart, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Layout
	d, summary, err := r.ComputeLayout(ctx, chart, opts)
	if err != nil {
		return nil, err
	}
	result.Diagram = d
	result.Summary = summary
	result.Layout = d.Export(opts.LayoutConfig().ViewportWidth, summary.Translation)
	result.Stats.Members = len(chart.Members)
	result.Stats.Placed = summary.Placed
	result.Stats.Wrappers = summary.Wrappers
	result.Stats.Edges = len(result.Layout.Edges)
	result.Stats.LayoutDuration = summary.Duration

	opts.Logger.Info("computed layout",
		"placed", summary.Placed,
		"members", len(chart.Members),
		"edges", result.Stats.Edges,
		"duration", summary.Duration)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, err := r.Render(ctx, result.Layout, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderDuration = time.Since(renderStart)

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderDuration)

	return result, nil
}

// Load reads and validates a chart file.
func (r *Runner) Load(ctx context.Context, path string) (chart *org.Chart, err error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	ctx, span := observability.StartSpan(ctx, "pipeline.load", attribute.String("path", path))
	start := time.Now()
	defer func() {
		n := 0
		if chart != nil {
			n = len(chart.Members)
		}
		hooks.OnLoadComplete(ctx, path, n, time.Since(start), err)
		observability.EndSpan(span, err)
	}()

	chart, err = org.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("loaded chart", "path", path, "members", len(chart.Members))
	return chart, nil
}

// ComputeLayout builds a diagram for chart and runs one layout pass on it.
func (r *Runner) ComputeLayout(ctx context.Context, chart *org.Chart, opts Options) (*diagram.Diagram, layout.Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, layout.Result{}, err
	}
	r.applyLogger(&opts)

	vis, err := opts.Visibility()
	if err != nil {
		return nil, layout.Result{}, err
	}
	m, err := r.measurer(opts)
	if err != nil {
		return nil, layout.Result{}, err
	}
	d, err := diagram.New(chart, vis, diagram.WithMinWidth(m, opts.LayoutConfig().MinCellWidth))
	if err != nil {
		return nil, layout.Result{}, err
	}
	res, err := r.Relayout(ctx, d, opts)
	if err != nil {
		return nil, layout.Result{}, err
	}
	return d, res, nil
}

// Relayout runs a fresh layout pass on an existing diagram, typically after
// its visibility changed.
func (r *Runner) Relayout(ctx context.Context, d *diagram.Diagram, opts Options) (res layout.Result, err error) {
	r.applyLogger(&opts)
	mode := string(d.Visibility().Mode)
	members := len(d.Chart().Members)

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, mode, members)
	ctx, span := observability.StartSpan(ctx, "pipeline.layout",
		attribute.String("mode", mode),
		attribute.Int("members", members))
	defer func() {
		hooks.OnLayoutComplete(ctx, mode, res.Placed, res.Duration, err)
		span.SetAttributes(attribute.Int("placed", res.Placed))
		observability.EndSpan(span, err)
	}()

	d.Reset()
	engine := layout.NewEngine(opts.LayoutConfig(), opts.Logger)
	return engine.Execute(log.WithContext(ctx, opts.Logger), d)
}

// Close releases cached font measurers.
func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var first error
	for size, m := range r.measurers {
		if err := m.Close(); err != nil && first == nil {
			first = err
		}
		delete(r.measurers, size)
	}
	return first
}

func (r *Runner) measurer(opts Options) (diagram.Measurer, error) {
	if opts.Measurer != nil {
		return opts.Measurer, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.measurers[opts.FontSize]; ok {
		return m, nil
	}
	m, err := diagram.NewFontMeasurer(opts.FontSize)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load font")
	}
	r.measurers[opts.FontSize] = m
	return m, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
