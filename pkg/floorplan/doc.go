// Package floorplan models a fixed-outline floorplanning problem and a
// solver's answer to it.
//
// A problem is described by two files:
//
//	# ami33.block
//	Outline: 1326 1205
//	NumBlocks: 33
//	NumTerminals: 40
//	bk1 266 133
//	...
//	VSS terminal 0 0
//
//	# ami33.nets
//	NumNets: 121
//	NetDegree: 3
//	bk1
//	bk2
//	VSS
//
// and the solver writes an output file with a five line summary (cost,
// wirelength, chip area, "width height", runtime) followed by one
// "name x1 y1 x2 y2" line per placed block.
//
// [Floorplan] joins the three: it resolves net members to block centers and
// terminal points, computes each net's bounding box and half-perimeter
// wirelength, and can re-check the solver's reported figures with [Floorplan.Verify].
package floorplan
