// Package scene describes a floorplan or placement picture independently of
// the output format.
//
// A [Scene] holds a world-coordinate window, a title, axis labels and an
// ordered list of [Shape] values. Builders turn parsed inputs into scenes:
//
//   - [FromFloorplan] draws the outline, placed blocks, terminals and the
//     bounding box of every net.
//   - [FromOverlap] colors blocks by whether they overlap another block and
//     marks each intersection.
//   - [FromPlacement] draws the nodes of a global placement.
//
// Sinks in [github.com/fpviz/fpviz/pkg/render/sink] map the window onto a
// canvas with a [Viewport], which keeps x and y at the same scale and puts the
// y axis upward.
package scene
