// Package render turns floorplans and placements into pictures.
//
// # Overview
//
// Rendering happens in two steps. A builder in [scene] converts parsed input
// into a backend-independent [scene.Scene], then a sink writes the scene in an
// output format:
//
//   - [sink]: SVG, gzip-compressed SVG, PNG, PDF and JSON
//   - [netgraph]: the block/terminal connectivity graph laid out by Graphviz
//
// # Format Conversion
//
// [ToPDF] converts any SVG with the external rsvg-convert tool (from
// librsvg). The PDF sink uses it; PNG output is drawn natively.
//
//	svg := sink.RenderSVG(sc)
//	pdf, err := render.ToPDF(ctx, svg)
//
// [scene]: github.com/fpviz/fpviz/pkg/render/scene
// [scene.Scene]: github.com/fpviz/fpviz/pkg/render/scene#Scene
// [sink]: github.com/fpviz/fpviz/pkg/render/sink
// [netgraph]: github.com/fpviz/fpviz/pkg/render/netgraph
package render
