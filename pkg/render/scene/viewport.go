package scene

import (
	"math"

	"github.com/fpviz/fpviz/pkg/geom"
)

// Margins reserve canvas space around the plot area, in pixels.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// DefaultMargins leave room for the title, tick labels and axis labels.
var DefaultMargins = Margins{Top: 48, Right: 24, Bottom: 56, Left: 80}

// Viewport maps world coordinates onto a canvas with the same scale on both
// axes. The y axis points up in the world and down on the canvas.
type Viewport struct {
	Window        geom.Rect
	Width, Height float64
	Plot          geom.Rect // canvas area the window is drawn into
	Scale         float64   // pixels per world unit
}

// NewViewport fits window into a width×height canvas inside margins,
// centered on the free axis.
func NewViewport(window geom.Rect, width, height float64, m Margins) Viewport {
	window = pad(window)
	pw := math.Max(width-m.Left-m.Right, 1)
	ph := math.Max(height-m.Top-m.Bottom, 1)
	scale := math.Min(pw/window.Width(), ph/window.Height())

	dw := window.Width() * scale
	dh := window.Height() * scale
	x0 := m.Left + (pw-dw)/2
	y0 := m.Top + (ph-dh)/2
	return Viewport{
		Window: window,
		Width:  width,
		Height: height,
		Plot:   geom.R(x0, y0, x0+dw, y0+dh),
		Scale:  scale,
	}
}

// X maps a world x to a canvas x.
func (v Viewport) X(x float64) float64 {
	return v.Plot.X0 + (x-v.Window.X0)*v.Scale
}

// Y maps a world y to a canvas y.
func (v Viewport) Y(y float64) float64 {
	return v.Plot.Y0 + (v.Window.Y1-y)*v.Scale
}

// Point maps a world point to the canvas.
func (v Viewport) Point(p geom.Point) (x, y float64) {
	return v.X(p.X), v.Y(p.Y)
}

// Rect maps a world rectangle to its canvas top-left corner and size.
func (v Viewport) Rect(r geom.Rect) (x, y, w, h float64) {
	return v.X(r.X0), v.Y(r.Y1), r.Width() * v.Scale, r.Height() * v.Scale
}

// maxTicksPerRequested bounds the tick count relative to n.
const maxTicksPerRequested = 4

// Ticks returns about n round values covering [lo, hi]. When no round step
// is representable at the magnitude of lo and hi, only the ends are returned.
func Ticks(lo, hi float64, n int) []float64 {
	if n < 1 || !(hi > lo) {
		return []float64{lo}
	}
	step := niceStep((hi - lo) / float64(n))
	start := math.Ceil(lo/step) * step
	count := math.Floor((hi-start)/step+1e-9) + 1
	if start+step == start || math.IsNaN(count) || count > float64(maxTicksPerRequested*n+1) {
		return []float64{lo, hi}
	}
	out := make([]float64, 0, int(count))
	for i := 0; i < int(count); i++ {
		// Snap values like 0.30000000000000004.
		v := start + float64(i)*step
		out = append(out, math.Round(v/step)*step)
	}
	return out
}

func niceStep(raw float64) float64 {
	exp := math.Pow(10, math.Floor(math.Log10(raw)))
	switch f := raw / exp; {
	case f <= 1:
		return exp
	case f <= 2:
		return 2 * exp
	case f <= 5:
		return 5 * exp
	default:
		return 10 * exp
	}
}
