// Package diagram is the visible view of an org chart that the layout
// engine positions.
//
// A [Diagram] wraps an [org.Chart] together with a [Visibility] setting. It
// measures every member's card, decides which members are shown, and
// implements [layout.Diagram] so the engine can read relations and write
// positions back:
//
//	d, err := diagram.New(chart, diagram.Visibility{Mode: diagram.ModeAll}, m)
//	res, err := layout.NewEngine(cfg, logger).Execute(ctx, d)
//	l := d.Export(cfg.ViewportWidth, res.Translation)
//
// # Visibility
//
// [ModeAll] shows every member. [ModeTeams] hides individual contributors
// (people without reports) so only the management structure remains.
// Collapsed members hide everything below them in either mode.
//
// # Root
//
// The drawing hangs from the topmost visible group. Charts without a
// visible group hang from their top manager.
//
// # Export
//
// [Layout] is the serialized result of a pass, used for JSON output, the
// HTTP API and as renderer input.
package diagram
