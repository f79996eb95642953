// Package render turns laid-out org charts into images.
//
// Two backends are provided:
//
//   - [RenderSVG] draws cards and routed reporting lines directly from a
//     [diagram.Layout]. Edges follow the routing hints computed by the
//     layout engine: straight lines between managers, elbows into stacked
//     individual contributors.
//   - [ToDOT] emits Graphviz DOT with every node pinned at its computed
//     position; [RenderGraphviz] feeds it to the neato engine through
//     goccy/go-graphviz to produce SVG or PNG.
//
// Visual appearance is pluggable through [Style]; see [StyleByName].
package render
