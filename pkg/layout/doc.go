// Package layout computes positions for hierarchical organization charts.
//
// The engine is a contour-based variant of the Reingold-Tilford tidy tree
// algorithm. Sibling subtrees are packed as tightly as their outlines allow
// while individual contributors (nodes without reports) are compacted into
// single-column "leaf wrapper" blocks under their manager.
//
// # Pipeline
//
// A layout pass has four stages, all driven by [Engine.Execute]:
//
//  1. Metadata: a transient arena mirrors the visible part of the
//     [Diagram], grouping each manager's leaf reports into one wrapper.
//  2. Positioning: a post-order walk assigns every node a position relative
//     to its parent's frame and records a cumulative x-adjustment that
//     shifts whole subtrees without touching their descendants.
//  3. Attachment: a pre-order walk resolves relative positions into
//     absolute coordinates and writes them, plus edge-routing hints, back
//     to the Diagram.
//  4. Centering: when the drawing is narrower than the viewport it is
//     translated horizontally to sit in the middle.
//
// Nothing survives between passes; every invocation rebuilds the metadata
// from scratch.
//
// # Usage
//
//	eng := layout.NewEngine(layout.DefaultConfig(), logger)
//	res, err := eng.Execute(ctx, d)
//
// Any type implementing [Diagram] can be laid out. See pkg/diagram for the
// implementation used by the CLI and server.
//
// # Errors
//
// Broken internal invariants (a cycle in the source tree, a contour query
// on a node that was never positioned) abort the pass. Execute reports them
// as errors with code LAYOUT_INVARIANT and leaves the Diagram untouched.
package layout
