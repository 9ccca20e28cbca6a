// Package netgraph draws the connectivity of a floorplan as a graph.
//
// # Overview
//
// Blocks become boxes and terminals become green ellipses. Each net becomes a
// small point joined to every member, so a net of degree d is a star with d
// edges. Two-pin nets are drawn as a direct edge instead, labeled with the
// net's HPWL when [Options].Detailed is set.
//
//	dot := netgraph.ToDOT(fp, netgraph.Options{})
//	svg, err := netgraph.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF conversion requires librsvg (rsvg-convert).
package netgraph
