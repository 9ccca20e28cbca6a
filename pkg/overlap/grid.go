package overlap

import (
	"math"

	"github.com/fpviz/fpviz/pkg/errors"
)

type cell struct{ x, y int64 }

// Grid detects overlaps with a brute-force occupancy map of unit cells.
// A rectangle [x0,x1)×[y0,y1) owns the cells floor(x0)..ceil(x1)-1 in x and
// likewise in y. maxCells bounds the total number of cells expanded; zero
// selects DefaultMaxCells.
func Grid(items []Item, maxCells int64) (*Result, error) {
	if maxCells <= 0 {
		maxCells = DefaultMaxCells
	}

	var total int64
	for _, it := range items {
		w, h := cellSpan(it.Rect.X0, it.Rect.X1), cellSpan(it.Rect.Y0, it.Rect.Y1)
		if h > 0 && w > (maxCells-total)/h {
			return nil, errors.New(errors.ErrCodeTooLarge,
				"occupancy map exceeds %d cells; use --method sweep or raise --max-cells", maxCells)
		}
		total += w * h
	}

	// Most cells have one owner; extra owners are kept separately so the
	// common case costs a single map entry.
	first := make(map[cell]int32, min(total, 1<<20))
	extra := make(map[cell][]int32)
	c := newCollector(items)

	for i, it := range items {
		x0, x1 := int64(math.Floor(it.Rect.X0)), int64(math.Ceil(it.Rect.X1))
		y0, y1 := int64(math.Floor(it.Rect.Y0)), int64(math.Ceil(it.Rect.Y1))
		for x := x0; x < x1; x++ {
			for y := y0; y < y1; y++ {
				k := cell{x, y}
				owner, taken := first[k]
				if !taken {
					first[k] = int32(i)
					continue
				}
				c.add(int(owner), i)
				for _, o := range extra[k] {
					c.add(int(o), i)
				}
				extra[k] = append(extra[k], int32(i))
			}
		}
	}

	res := c.result(MethodGrid)
	res.Cells = total
	return res, nil
}

func cellSpan(lo, hi float64) int64 {
	n := int64(math.Ceil(hi)) - int64(math.Floor(lo))
	if n < 0 {
		return 0
	}
	return n
}
