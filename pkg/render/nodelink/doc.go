// Package nodelink renders assembly connectivity graphs as node-link
// diagrams.
//
// # Overview
//
// Parts appear as rounded boxes and joints as labelled lines. When the
// diagram is drawn for an export, the chosen root part is outlined in bold
// and the loop joints that the spanning tree dropped are dashed, so the
// difference between the linkage and the exported body tree is visible at a
// glance.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Root: root, Loops: loops})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT source can also be saved and processed with external Graphviz
// tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
