package scene

import (
	"fmt"

	"github.com/fpviz/fpviz/pkg/floorplan"
	"github.com/fpviz/fpviz/pkg/geom"
	"github.com/fpviz/fpviz/pkg/overlap"
	"github.com/fpviz/fpviz/pkg/placement"
)

// Options tunes the builders.
type Options struct {
	HideLabels bool      // omit block, node and terminal names
	HideNets   bool      // omit net bounding boxes
	Window     geom.Rect // fixed window; the zero Rect fits the data
}

func (o Options) window(auto geom.Rect) geom.Rect {
	if o.Window != (geom.Rect{}) {
		return o.Window
	}
	return pad(auto)
}

// pad gives a degenerate window some area so it can be scaled.
func pad(r geom.Rect) geom.Rect {
	if r.Width() <= 0 {
		r.X0, r.X1 = r.X0-1, r.X1+1
	}
	if r.Height() <= 0 {
		r.Y0, r.Y1 = r.Y0-1, r.Y1+1
	}
	return r
}

var (
	outlineStyle  = Style{Stroke: Black, Width: 2}
	blockStyle    = Style{Stroke: Red, Width: 1.5}
	terminalStyle = Style{Fill: Green, Width: 3}
	netStyle      = Style{Stroke: Blue, Width: 1, Dash: []float64{6, 4}}
	cleanStyle    = Style{Stroke: Green, Fill: LightGrn, Width: 1.5, Opacity: 0.6}
	hitStyle      = Style{Stroke: Red, Fill: LightRed, Width: 1.5, Opacity: 0.6}
	overlapStyle  = Style{Stroke: DarkRed, Fill: DarkRed, Width: 1, Opacity: 0.5}
)

// FromFloorplan draws the outline, the placed blocks, the terminals and the
// bounding box of each net. A net box is drawn as its bottom and right edges.
func FromFloorplan(fp *floorplan.Floorplan, opts Options) *Scene {
	s := New(fmt.Sprintf("Block and Terminal Positions for %s", fp.Name), opts.window(fp.Extent()))

	outline := geom.R(0, 0, fp.Problem.Outline.Width, fp.Problem.Outline.Height)
	s.AddRect(LayerOutline, "outline", outline, outlineStyle)

	for _, b := range fp.Result.Blocks {
		s.AddRect(LayerBlock, b.Name, b.Rect, blockStyle)
		if !opts.HideLabels {
			s.AddLabel(b.Name, b.Rect.Origin(), Style{Fill: Red})
		}
	}
	for _, t := range fp.Problem.Terminals {
		s.AddPoint(LayerTerminal, t.Name, t.At, terminalStyle)
		if !opts.HideLabels {
			s.AddLabel(t.Name, t.At, Style{Fill: Green})
		}
	}

	if !opts.HideNets {
		for i, n := range fp.Problem.Nets {
			box, ok := fp.NetBox(n)
			if !ok {
				continue
			}
			s.AddPath(LayerNet, fmt.Sprintf("net%d", i), netStyle,
				geom.Pt(box.X0, box.Y0), geom.Pt(box.X1, box.Y0), geom.Pt(box.X1, box.Y1))
		}
	}

	s.Legend = []LegendEntry{
		{Label: "outline", Style: outlineStyle},
		{Label: "block", Style: blockStyle},
		{Label: "terminal", Style: terminalStyle},
	}
	if !opts.HideNets {
		s.Legend = append(s.Legend, LegendEntry{Label: "net HPWL", Style: netStyle})
	}
	return s
}

// FromOverlap fills each item green or red depending on whether it overlaps
// another item and shades every pairwise intersection.
func FromOverlap(name string, items []overlap.Item, res *overlap.Result, opts Options) *Scene {
	var b geom.Bounds
	for _, it := range items {
		b.AddRect(it.Rect)
	}
	auto, _ := b.Rect()
	s := New(fmt.Sprintf("Block Overlaps for %s", name), opts.window(auto))

	for _, it := range items {
		st := cleanStyle
		if res.IsOverlapping(it.Name) {
			st = hitStyle
		}
		s.AddRect(LayerBlock, it.Name, it.Rect, st)
	}
	for _, p := range res.Pairs {
		if p.Overlap.Empty() {
			continue
		}
		s.AddRect(LayerOverlap, p.A+"/"+p.B, p.Overlap, overlapStyle)
	}
	if !opts.HideLabels {
		for _, it := range items {
			st := Style{Fill: Green}
			if res.IsOverlapping(it.Name) {
				st = Style{Fill: Red}
			}
			s.AddLabel(it.Name, it.Rect.Origin(), st)
		}
	}

	s.Legend = []LegendEntry{
		{Label: "no overlap", Style: cleanStyle},
		{Label: "overlapping", Style: hitStyle},
		{Label: "intersection", Style: overlapStyle},
	}
	return s
}

// FromPlacement draws every placed node. Unplaced nodes are skipped.
func FromPlacement(p *placement.Placement, opts Options) *Scene {
	auto, _ := p.Extent()
	s := New(fmt.Sprintf("Block and Terminal Positions for %s", p.Name), opts.window(auto))

	for _, n := range p.Nodes {
		if !n.Placed {
			continue
		}
		s.AddRect(LayerBlock, n.Name, n.Rect(), blockStyle)
		if !opts.HideLabels {
			s.AddLabel(n.Name, n.At, Style{Fill: Red})
		}
	}
	s.Legend = []LegendEntry{{Label: "node", Style: blockStyle}}
	return s
}
