package overlap

import (
	"math"

	"github.com/asim/quadtree"

	"github.com/fpviz/fpviz/pkg/geom"
)

// Quadtree detects overlaps using a quadtree over rectangle centers.
//
// Two rectangles can only overlap when their centers are closer than the sum
// of their half extents, so each rectangle searches a box around its center
// grown by the largest half extent in the set.
func Quadtree(items []Item) *Result {
	c := newCollector(items)
	if len(items) < 2 {
		return c.result(MethodQuadtree)
	}

	var centers geom.Bounds
	var maxHalfW, maxHalfH float64
	for _, it := range items {
		centers.Add(it.Rect.Center())
		maxHalfW = math.Max(maxHalfW, it.Rect.Width()/2)
		maxHalfH = math.Max(maxHalfH, it.Rect.Height()/2)
	}
	box, _ := centers.Rect()
	// Margin keeps centers on the boundary from being dropped.
	box = box.Inflate(1+box.Width()*0.01, 1+box.Height()*0.01)
	mid := box.Center()

	qt := quadtree.New(quadtree.NewAABB(
		quadtree.NewPoint(mid.X, mid.Y, nil),
		quadtree.NewPoint(box.Width()/2, box.Height()/2, nil),
	), 0, nil)

	// Points the tree refuses are checked against everything.
	var unindexed []int
	for i, it := range items {
		ctr := it.Rect.Center()
		if !qt.Insert(quadtree.NewPoint(ctr.X, ctr.Y, i)) {
			unindexed = append(unindexed, i)
		}
	}

	for i, it := range items {
		ctr := it.Rect.Center()
		reach := quadtree.NewAABB(
			quadtree.NewPoint(ctr.X, ctr.Y, nil),
			quadtree.NewPoint(it.Rect.Width()/2+maxHalfW, it.Rect.Height()/2+maxHalfH, nil),
		)
		for _, p := range qt.Search(reach) {
			j := p.Data().(int)
			if j > i && it.Rect.Overlaps(items[j].Rect) {
				c.add(i, j)
			}
		}
	}

	for _, i := range unindexed {
		for j := range items {
			if j != i && items[i].Rect.Overlaps(items[j].Rect) {
				c.add(i, j)
			}
		}
	}
	return c.result(MethodQuadtree)
}
