package pipeline

import (
	"context"
	"time"

	"github.com/fpviz/fpviz/pkg/geom"
	"github.com/fpviz/fpviz/pkg/observability"
	"github.com/fpviz/fpviz/pkg/overlap"
	"github.com/fpviz/fpviz/pkg/render/scene"
)

// Analyze runs the overlap detection and verification requested by opts on a
// parsed Result and builds its scene.
func Analyze(ctx context.Context, res *Result, opts Options) (Analysis, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Analysis{}, err
	}
	hooks := observability.Pipeline()
	hooks.OnAnalyzeStart(ctx, string(opts.Kind), res.Stats.Blocks)
	start := time.Now()

	a, err := analyze(res, opts)
	hooks.OnAnalyzeComplete(ctx, string(opts.Kind), time.Since(start), err)
	if err != nil {
		return a, err
	}
	if a.Overlap != nil {
		hooks.OnOverlaps(ctx, string(opts.Kind), string(a.Overlap.Method), a.Overlap.Count(), len(a.Overlap.Pairs))
	}
	if a.Report != nil {
		hooks.OnVerified(ctx, res.Name, a.Report.Errors(), len(a.Report.Findings))
	}
	return a, nil
}

func analyze(res *Result, opts Options) (Analysis, error) {
	sopts := scene.Options{HideLabels: opts.HideLabels, HideNets: opts.HideNets}
	detect := overlap.Options{Method: opts.method, MaxCells: opts.MaxCells}

	var a Analysis
	switch opts.Kind {
	case KindFloorplan:
		if opts.Verify {
			a.Report = res.Floorplan.Verify(opts.Alpha)
			a.Overlap = a.Report.Overlaps
		}
		a.Scene = scene.FromFloorplan(res.Floorplan, sopts)

	case KindOverlap:
		ov, err := overlap.Detect(res.Items, detect)
		if err != nil {
			return Analysis{}, err
		}
		a.Overlap = ov
		a.Scene = scene.FromOverlap(res.Name, res.Items, ov, sopts)

	case KindPlacement:
		p := res.Placement
		sopts.Window = opts.window
		if !opts.PlacementOverlap {
			a.Scene = scene.FromPlacement(p, sopts)
			break
		}
		items := p.Items(false)
		ov, err := overlap.Detect(items, detect)
		if err != nil {
			return Analysis{}, err
		}
		if sopts.Window == (geom.Rect{}) {
			sopts.Window, _ = p.Extent()
		}
		a.Overlap = ov
		a.Scene = scene.FromOverlap(p.Name, items, ov, sopts)
	}
	return a, nil
}

// applyAnalysis copies the analysis and its statistics into res.
func applyAnalysis(res *Result, a Analysis) {
	res.Analysis = a
	if a.Overlap != nil {
		res.Stats.Overlapping = a.Overlap.Count()
		res.Stats.Pairs = len(a.Overlap.Pairs)
	}
}
