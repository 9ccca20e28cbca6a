// Package pkg provides the libraries behind fpviz, a viewer and checker for
// VLSI floorplanning and placement results.
//
// # Overview
//
// fpviz reads the text files exchanged by floorplanners and placers, checks
// them, and draws them. The pkg directory is organized into four areas:
//
//  1. Domain - [floorplan], [placement], [overlap] and [geom]
//  2. Rendering - [render/scene], [render/sink] and [render/netgraph]
//  3. Orchestration - [pipeline] (parse → analyze → render)
//  4. Infrastructure - [cache], [history], [observability], [errors], [textio]
//
// # Architecture
//
// The typical data flow:
//
//	.block/.nets/.out  or  .nodes/.pl
//	         ↓
//	    [floorplan] / [placement] (parse, net boxes, HPWL, verification)
//	         ↓
//	    [overlap] (grid, sweep or quadtree detector)
//	         ↓
//	    [render/scene] (backend-independent shapes)
//	         ↓
//	    SVG/SVGZ/PNG/PDF/JSON or a Graphviz net graph
//
// # Quick Start
//
//	fp, _ := floorplan.Load("ami33.block", "ami33.nets", "ami33.out")
//	fmt.Println(fp.TotalHPWL())
//
//	res, _ := overlap.Detect(fp.Items(), overlap.Options{Method: overlap.MethodSweep})
//	sc := scene.FromOverlap(fp.Name, fp.Items(), res, scene.Options{})
//	svg := sink.RenderSVG(sc)
//
// Most callers use [pipeline.Runner] instead, which adds caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, _ := runner.Execute(ctx, pipeline.Options{Kind: pipeline.KindOverlap, Output: in})
//
// [floorplan]: https://pkg.go.dev/github.com/fpviz/fpviz/pkg/floorplan
// [placement]: https://pkg.go.dev/github.com/fpviz/fpviz/pkg/placement
// [overlap]: https://pkg.go.dev/github.com/fpviz/fpviz/pkg/overlap
// [geom]: https://pkg.go.dev/github.com/fpviz/fpviz/pkg/geom
// [render/scene]: https://pkg.go.dev/github.com/fpviz/fpviz/pkg/render/scene
// [render/sink]: https://pkg.go.dev/github.com/fpviz/fpviz/pkg/render/sink
// [render/netgraph]: https://pkg.go.dev/github.com/fpviz/fpviz/pkg/render/netgraph
// [pipeline]: https://pkg.go.dev/github.com/fpviz/fpviz/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/fpviz/fpviz/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/fpviz/fpviz/pkg/cache
// [history]: https://pkg.go.dev/github.com/fpviz/fpviz/pkg/history
// [observability]: https://pkg.go.dev/github.com/fpviz/fpviz/pkg/observability
// [errors]: https://pkg.go.dev/github.com/fpviz/fpviz/pkg/errors
// [textio]: https://pkg.go.dev/github.com/fpviz/fpviz/pkg/textio
package pkg
