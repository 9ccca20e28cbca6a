// Package geom provides the small amount of planar geometry fpviz needs:
// points, axis-aligned rectangles, and a bounding-box accumulator used for
// half-perimeter wirelength (HPWL).
//
// Rectangles are stored normalized (X0 <= X1, Y0 <= Y1) in the coordinate
// system of the input files, with Y growing upwards. Renderers flip Y when
// mapping to pixel space.
package geom
