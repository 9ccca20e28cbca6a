package floorplan

import (
	"math"

	"github.com/fpviz/fpviz/pkg/geom"
	"github.com/fpviz/fpviz/pkg/overlap"
)

// Floorplan is a problem joined with a solver result.
type Floorplan struct {
	Name    string // display name, usually the block file's base name
	Problem *Problem
	Result  *Result

	placed    map[string]geom.Rect
	terminals map[string]geom.Point
	declared  map[string]geom.Size
}

// New joins p and res. Either may describe names the other lacks; [Verify]
// reports such mismatches.
func New(p *Problem, res *Result) *Floorplan {
	fp := &Floorplan{
		Problem:   p,
		Result:    res,
		placed:    make(map[string]geom.Rect, len(res.Blocks)),
		terminals: make(map[string]geom.Point, len(p.Terminals)),
		declared:  make(map[string]geom.Size, len(p.Blocks)),
	}
	for _, b := range res.Blocks {
		fp.placed[b.Name] = b.Rect
	}
	for _, t := range p.Terminals {
		fp.terminals[t.Name] = t.At
	}
	for _, b := range p.Blocks {
		fp.declared[b.Name] = b.Size
	}
	return fp
}

// Block returns the placed rectangle of a block.
func (fp *Floorplan) Block(name string) (geom.Rect, bool) {
	r, ok := fp.placed[name]
	return r, ok
}

// Terminal returns the location of a terminal.
func (fp *Floorplan) Terminal(name string) (geom.Point, bool) {
	pt, ok := fp.terminals[name]
	return pt, ok
}

// Pin returns the point a net member connects at: a block's center or a
// terminal's location. Blocks shadow terminals of the same name.
func (fp *Floorplan) Pin(name string) (geom.Point, bool) {
	if r, ok := fp.placed[name]; ok {
		return r.Center(), true
	}
	return fp.Terminal(name)
}

// NetBox returns the bounding box of a net's pins. Members that name neither
// a placed block nor a terminal are skipped; ok is false when no member
// resolves.
func (fp *Floorplan) NetBox(n Net) (geom.Rect, bool) {
	var b geom.Bounds
	for _, m := range n.Members {
		if pt, ok := fp.Pin(m); ok {
			b.Add(pt)
		}
	}
	return b.Rect()
}

// HPWL returns the half-perimeter wirelength of a net, zero when it has no
// resolvable pins.
func (fp *Floorplan) HPWL(n Net) float64 {
	r, ok := fp.NetBox(n)
	if !ok {
		return 0
	}
	return r.HalfPerimeter()
}

// TotalHPWL sums HPWL over all nets.
func (fp *Floorplan) TotalHPWL() float64 {
	var sum float64
	for _, n := range fp.Problem.Nets {
		sum += fp.HPWL(n)
	}
	return sum
}

// Unresolved returns the net members that name neither a placed block nor a
// terminal, in first-seen order.
func (fp *Floorplan) Unresolved() []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range fp.Problem.Nets {
		for _, m := range n.Members {
			if _, ok := fp.Pin(m); ok || seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// ChipSize returns the extent of the placed blocks measured from the origin.
func (fp *Floorplan) ChipSize() geom.Size {
	var s geom.Size
	for _, b := range fp.Result.Blocks {
		s.Width = math.Max(s.Width, b.Rect.X1)
		s.Height = math.Max(s.Height, b.Rect.Y1)
	}
	return s
}

// Extent returns the window a plot of the floorplan should show: from the
// origin to the larger of the outline and the reported chip, grown to include
// every terminal and placed block.
func (fp *Floorplan) Extent() geom.Rect {
	var b geom.Bounds
	b.Add(geom.Pt(0, 0))
	b.Add(geom.Pt(fp.Problem.Outline.Width, fp.Problem.Outline.Height))
	b.Add(geom.Pt(fp.Result.ChipWidth, fp.Result.ChipHeight))
	for _, t := range fp.Problem.Terminals {
		b.Add(t.At)
	}
	for _, p := range fp.Result.Blocks {
		b.AddRect(p.Rect)
	}
	r, _ := b.Rect()
	return r
}

// Items returns the placed blocks as overlap items.
func (fp *Floorplan) Items() []overlap.Item {
	return Items(fp.Result)
}

// Items returns the blocks of res as overlap items.
func Items(res *Result) []overlap.Item {
	items := make([]overlap.Item, len(res.Blocks))
	for i, b := range res.Blocks {
		items[i] = overlap.Item{Name: b.Name, Rect: b.Rect}
	}
	return items
}
