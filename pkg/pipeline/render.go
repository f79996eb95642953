package pipeline

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/matzehuels/orgchart/pkg/diagram"
	"github.com/matzehuels/orgchart/pkg/errors"
	"github.com/matzehuels/orgchart/pkg/observability"
	"github.com/matzehuels/orgchart/pkg/render"
)

// Render generates output artifacts for l in the requested formats.
func (r *Runner) Render(ctx context.Context, l diagram.Layout, opts Options) (artifacts map[string][]byte, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	ctx, span := observability.StartSpan(ctx, "pipeline.render",
		attribute.StringSlice("formats", opts.Formats),
		attribute.String("style", opts.Style))
	start := time.Now()
	defer func() {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		observability.EndSpan(span, err)
	}()

	artifacts = make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, l, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
		opts.Logger.Debug("rendered", "format", format, "bytes", len(data))
	}
	return artifacts, nil
}

// renderFormat produces a single artifact.
func renderFormat(ctx context.Context, l diagram.Layout, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		style, err := render.StyleByName(opts.Style)
		if err != nil {
			return nil, err
		}
		svgOpts := []render.SVGOption{render.WithStyle(style)}
		if opts.Background != "" {
			svgOpts = append(svgOpts, render.WithBackground(opts.Background))
		}
		return render.RenderSVG(l, svgOpts...), nil
	case FormatDOT:
		return []byte(render.ToDOT(l)), nil
	case FormatPNG:
		return render.RenderGraphviz(ctx, render.ToDOT(l), render.FormatPNG)
	case FormatJSON:
		data, err := diagram.MarshalLayout(l)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal layout")
		}
		return data, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
}
