package overlap

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/fpviz/fpviz/pkg/errors"
	"github.com/fpviz/fpviz/pkg/geom"
)

// Method selects an overlap detector.
type Method string

const (
	MethodGrid     Method = "grid"
	MethodSweep    Method = "sweep"
	MethodQuadtree Method = "quadtree"
)

// DefaultMaxCells bounds the occupancy map built by [Grid].
const DefaultMaxCells int64 = 50_000_000

// ValidMethods lists the supported detectors.
var ValidMethods = []Method{MethodGrid, MethodSweep, MethodQuadtree}

// ParseMethod converts a flag value into a Method.
func ParseMethod(s string) (Method, error) {
	if s == "" {
		return MethodGrid, nil
	}
	m := Method(s)
	if !slices.Contains(ValidMethods, m) {
		return "", errors.New(errors.ErrCodeInvalidMethod, "invalid overlap method: %s (must be grid, sweep or quadtree)", s)
	}
	return m, nil
}

// Item is a named rectangle to check.
type Item struct {
	Name string
	Rect geom.Rect
}

// Pair is one overlapping pair. A sorts before B.
type Pair struct {
	A       string    `json:"a"`
	B       string    `json:"b"`
	Overlap geom.Rect `json:"overlap"` // intersection of the two rectangles
}

// Result reports which items overlap.
type Result struct {
	Method      Method   `json:"method"`
	Pairs       []Pair   `json:"pairs"` // sorted by (A, B)
	Overlapping []string `json:"overlapping"`
	Cells       int64    `json:"cells,omitempty"` // unit cells visited, grid detector only

	set map[string]bool
}

// UnmarshalJSON decodes a Result and rebuilds its name index.
func (r *Result) UnmarshalJSON(data []byte) error {
	type plain Result
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Result(p)
	r.set = make(map[string]bool, len(r.Overlapping))
	for _, n := range r.Overlapping {
		r.set[n] = true
	}
	return nil
}

// IsOverlapping reports whether name overlaps any other item.
func (r *Result) IsOverlapping(name string) bool {
	return r.set[name]
}

// Count returns the number of overlapping items.
func (r *Result) Count() int { return len(r.Overlapping) }

// Clean reports whether no overlaps were found.
func (r *Result) Clean() bool { return len(r.Pairs) == 0 && len(r.Overlapping) == 0 }

// Options configures [Detect].
type Options struct {
	Method   Method
	MaxCells int64 // grid budget; zero means DefaultMaxCells
}

// Detect runs the detector named by opts.Method.
func Detect(items []Item, opts Options) (*Result, error) {
	switch opts.Method {
	case MethodGrid, "":
		return Grid(items, opts.MaxCells)
	case MethodSweep:
		return Sweep(items), nil
	case MethodQuadtree:
		return Quadtree(items), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidMethod, "invalid overlap method: %s", opts.Method)
	}
}

// collector deduplicates pairs found by a detector.
type collector struct {
	items []Item
	seen  map[[2]int]bool
	pairs []Pair
	set   map[string]bool
}

func newCollector(items []Item) *collector {
	return &collector{items: items, seen: make(map[[2]int]bool), set: make(map[string]bool)}
}

// add records items i and j as overlapping.
func (c *collector) add(i, j int) {
	if i == j {
		return
	}
	if i > j {
		i, j = j, i
	}
	if c.seen[[2]int{i, j}] {
		return
	}
	c.seen[[2]int{i, j}] = true

	a, b := c.items[i], c.items[j]
	if b.Name < a.Name {
		a, b = b, a
	}
	c.pairs = append(c.pairs, Pair{A: a.Name, B: b.Name, Overlap: a.Rect.Intersect(b.Rect)})
	c.set[a.Name] = true
	c.set[b.Name] = true
}

func (c *collector) result(m Method) *Result {
	slices.SortFunc(c.pairs, func(x, y Pair) int {
		return cmp.Or(cmp.Compare(x.A, y.A), cmp.Compare(x.B, y.B))
	})
	names := make([]string, 0, len(c.set))
	for n := range c.set {
		names = append(names, n)
	}
	slices.Sort(names)
	return &Result{Method: m, Pairs: c.pairs, Overlapping: names, set: c.set}
}

// String summarizes a pair for logs.
func (p Pair) String() string {
	return fmt.Sprintf("%s/%s %s", p.A, p.B, p.Overlap)
}
