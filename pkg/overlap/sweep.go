package overlap

import (
	"cmp"
	"slices"
)

// Sweep detects overlaps by sweeping rectangles in order of their left edge.
func Sweep(items []Item) *Result {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		return cmp.Compare(items[a].Rect.X0, items[b].Rect.X0)
	})

	c := newCollector(items)
	var active []int
	for _, i := range order {
		r := items[i].Rect
		// Drop rectangles that end at or before the sweep line.
		kept := active[:0]
		for _, j := range active {
			if items[j].Rect.X1 > r.X0 {
				kept = append(kept, j)
			}
		}
		active = kept

		for _, j := range active {
			if r.Overlaps(items[j].Rect) {
				c.add(j, i)
			}
		}
		active = append(active, i)
	}
	return c.result(MethodSweep)
}
