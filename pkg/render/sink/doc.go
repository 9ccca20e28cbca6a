// Package sink writes a [scene.Scene] in an output format.
//
// # Formats
//
//   - SVG: [RenderSVG], drawn with github.com/ajstarks/svgo
//   - SVGZ: [RenderSVGZ], the SVG gzip-compressed with klauspost/compress
//   - PNG: [RenderPNG], rasterized in-process with github.com/fogleman/gg
//   - PDF: [RenderPDF], the SVG converted by rsvg-convert
//   - JSON: [RenderJSON], the scene itself
//
// All image sinks share one layout: a title on top, the plot area framed and
// ticked, axis labels below and to the left, and an optional legend. World
// coordinates are mapped with [scene.Viewport], so blocks keep their aspect
// ratio.
//
//	svg := sink.RenderSVG(sc, sink.WithSize(1200, 900))
//	png, err := sink.RenderPNG(sc, sink.WithScale(2))
//
// [scene.Scene]: github.com/fpviz/fpviz/pkg/render/scene#Scene
// [scene.Viewport]: github.com/fpviz/fpviz/pkg/render/scene#Viewport
package sink
