package geom

import (
	"fmt"
	"math"
)

// Point is a location in layout coordinates.
type Point struct {
	X, Y float64
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

// Size is a width/height pair.
type Size struct {
	Width, Height float64
}

// Sz returns the size w×h.
func Sz(w, h float64) Size { return Size{Width: w, Height: h} }

func (s Size) String() string { return fmt.Sprintf("%g×%g", s.Width, s.Height) }

// Area returns Width*Height.
func (s Size) Area() float64 { return s.Width * s.Height }

// Rect is an axis-aligned rectangle.
type Rect struct {
	X0, Y0 float64
	X1, Y1 float64
}

// R returns the rectangle spanned by (x0, y0) and (x1, y1), normalized.
func R(x0, y0, x1, y1 float64) Rect {
	return Rect{
		X0: math.Min(x0, x1), Y0: math.Min(y0, y1),
		X1: math.Max(x0, x1), Y1: math.Max(y0, y1),
	}
}

// RectFromOrigin returns the rectangle with lower-left corner at origin.
func RectFromOrigin(origin Point, size Size) Rect {
	return R(origin.X, origin.Y, origin.X+size.Width, origin.Y+size.Height)
}

func (r Rect) String() string {
	return fmt.Sprintf("[%g,%g]-[%g,%g]", r.X0, r.Y0, r.X1, r.Y1)
}

func (r Rect) Width() float64  { return r.X1 - r.X0 }
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }
func (r Rect) Size() Size      { return Size{Width: r.Width(), Height: r.Height()} }
func (r Rect) Area() float64   { return r.Width() * r.Height() }
func (r Rect) Origin() Point   { return Point{X: r.X0, Y: r.Y0} }

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: 0.5 * (r.X0 + r.X1), Y: 0.5 * (r.Y0 + r.Y1)}
}

// HalfPerimeter returns Width+Height, the HPWL of a net whose bounding box is r.
func (r Rect) HalfPerimeter() float64 { return r.Width() + r.Height() }

// Empty reports whether r has zero area.
func (r Rect) Empty() bool { return r.X0 >= r.X1 || r.Y0 >= r.Y1 }

// Contains reports whether pt lies in r. The lower and left edges are
// inclusive, the upper and right edges exclusive.
func (r Rect) Contains(pt Point) bool {
	return pt.X >= r.X0 && pt.X < r.X1 && pt.Y >= r.Y0 && pt.Y < r.Y1
}

// ContainsRect reports whether o lies entirely inside r (edges inclusive).
func (r Rect) ContainsRect(o Rect) bool {
	return o.X0 >= r.X0 && o.Y0 >= r.Y0 && o.X1 <= r.X1 && o.Y1 <= r.Y1
}

// Union returns the smallest rectangle enclosing r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		X0: math.Min(r.X0, o.X0), Y0: math.Min(r.Y0, o.Y0),
		X1: math.Max(r.X1, o.X1), Y1: math.Max(r.Y1, o.Y1),
	}
}

// UnionPoint returns the smallest rectangle enclosing r and pt.
// Zero-area rectangles count, so a run of UnionPoint calls seeded with a
// degenerate rectangle yields the bounding box of the points.
func (r Rect) UnionPoint(pt Point) Rect {
	return Rect{
		X0: math.Min(r.X0, pt.X), Y0: math.Min(r.Y0, pt.Y),
		X1: math.Max(r.X1, pt.X), Y1: math.Max(r.Y1, pt.Y),
	}
}

// Intersect returns the intersection of r and o. The result has zero area
// when they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x0 := math.Max(r.X0, o.X0)
	y0 := math.Max(r.Y0, o.Y0)
	x1 := math.Min(r.X1, o.X1)
	y1 := math.Min(r.Y1, o.Y1)
	return Rect{X0: x0, Y0: y0, X1: math.Max(x0, x1), Y1: math.Max(y0, y1)}
}

// Overlaps reports whether r and o share interior area. Rectangles that only
// touch along an edge or at a corner do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X0 < o.X1 && o.X0 < r.X1 && r.Y0 < o.Y1 && o.Y0 < r.Y1
}

// Inflate grows r by dx on the left and right and dy at the top and bottom.
func (r Rect) Inflate(dx, dy float64) Rect {
	return Rect{X0: r.X0 - dx, Y0: r.Y0 - dy, X1: r.X1 + dx, Y1: r.Y1 + dy}
}

// Translate moves r by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X0: r.X0 + dx, Y0: r.Y0 + dy, X1: r.X1 + dx, Y1: r.Y1 + dy}
}

// Rotated reports whether size s matches r's size after a 90° turn.
func (r Rect) Rotated(s Size) bool {
	return r.Width() == s.Height && r.Height() == s.Width
}

// Bounds accumulates points into a bounding box.
// The zero value is empty.
type Bounds struct {
	r Rect
	n int
}

// Add extends the bounds to include pt.
func (b *Bounds) Add(pt Point) {
	if b.n == 0 {
		b.r = Rect{X0: pt.X, Y0: pt.Y, X1: pt.X, Y1: pt.Y}
	} else {
		b.r = b.r.UnionPoint(pt)
	}
	b.n++
}

// AddRect extends the bounds to include r.
func (b *Bounds) AddRect(r Rect) {
	b.Add(Point{X: r.X0, Y: r.Y0})
	b.Add(Point{X: r.X1, Y: r.Y1})
}

// Len returns the number of points added.
func (b *Bounds) Len() int { return b.n }

// Rect returns the bounding box, or false if nothing was added.
func (b *Bounds) Rect() (Rect, bool) {
	return b.r, b.n > 0
}
