// Package pkg provides the core libraries for orgchart layout and rendering.
//
// # Overview
//
// Orgchart turns a reporting hierarchy into a compact drawing: managers sit
// above their teams, subtrees are packed as tightly as their contours allow,
// individual contributors are stacked in indented columns, and the finished
// drawing is centered in the viewport.
//
// # Architecture
//
// The typical data flow:
//
//	chart.json / chart.toml
//	         ↓
//	    [org] package (members, reporting lines, validation)
//	         ↓
//	    [diagram] package (visibility, card sizes, node/edge store)
//	         ↓
//	    [layout] package (contour layout, leaf stacking, centering)
//	         ↓
//	    [render] package (SVG, Graphviz DOT/PNG)
//
// [pipeline] runs these stages for the CLI and the HTTP server.
//
// # Quick Start
//
//	chart, _ := org.ReadFile("acme.json")
//	runner := pipeline.NewRunner(nil)
//	result, _ := runner.Execute(ctx, chart, pipeline.Options{Mode: "teams"})
//	os.WriteFile("acme.svg", result.Artifacts["svg"], 0o644)
//
// Or drive the engine directly with any type implementing [layout.Diagram]:
//
//	engine := layout.NewEngine(layout.DefaultConfig(), logger)
//	res, err := engine.Execute(ctx, d)
//
// # Main Packages
//
// [layout] - The layout engine. Builds per-pass metadata, positions subtrees
// bottom-up with contour packing, attaches absolute coordinates top-down and
// centers the drawing.
//
// [org] - Chart model and JSON/TOML import.
//
// [diagram] - Layout-facing view of a chart under a visibility mode, with
// text measurement and the serialized layout format.
//
// [render] - Native SVG output with card styles, and DOT/PNG via Graphviz.
//
// [pipeline] - Load → layout → render orchestration with tracing spans.
//
// [config] - TOML configuration file.
//
// [observability] - Hook registry with Prometheus and OpenTelemetry support.
//
// [errors] - Structured error codes shared by every package.
//
// # Testing
//
//	go test ./...
//	go test -run Example ./pkg/...
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/layout
// [layout.Diagram]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/layout#Diagram
// [org]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/org
// [diagram]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/diagram
// [render]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/orgchart/pkg/errors
package pkg
