package sink

import (
	"strconv"

	"github.com/fpviz/fpviz/pkg/render/scene"
)

type anchor int

const (
	anchorStart anchor = iota
	anchorMiddle
	anchorEnd
)

// painter is the drawing surface shared by the SVG and PNG sinks. All
// coordinates are canvas pixels.
type painter interface {
	rect(x, y, w, h float64, st scene.Style)
	circle(x, y, r float64, st scene.Style)
	polyline(xs, ys []float64, st scene.Style)
	text(x, y float64, s string, size float64, color string, a anchor)
	vtext(x, y float64, s string, size float64, color string)
}

// paint draws s onto p. Shapes are not clipped to the plot frame.
func paint(p painter, s *scene.Scene, c config) {
	v := scene.NewViewport(s.Window, c.width, c.height, scene.DefaultMargins)

	p.rect(0, 0, c.width, c.height, scene.Style{Fill: "#ffffff"})

	for _, sh := range s.Shapes {
		switch sh.Kind {
		case scene.KindRect:
			x, y, w, h := v.Rect(sh.Rect)
			p.rect(x, y, w, h, sh.Style)
		case scene.KindPoint:
			if len(sh.Points) == 0 {
				continue
			}
			x, y := v.Point(sh.Points[0])
			r := sh.Style.Width
			if r <= 0 {
				r = 3
			}
			p.circle(x, y, r, sh.Style)
		case scene.KindPath:
			xs := make([]float64, len(sh.Points))
			ys := make([]float64, len(sh.Points))
			for i, pt := range sh.Points {
				xs[i], ys[i] = v.Point(pt)
			}
			p.polyline(xs, ys, sh.Style)
		case scene.KindLabel:
			if len(sh.Points) == 0 {
				continue
			}
			x, y := v.Point(sh.Points[0])
			p.text(x+2, y-2, sh.Text, c.fontSize*0.8, sh.Style.Fill, anchorStart)
		}
	}

	frame := v.Plot
	p.rect(frame.X0, frame.Y0, frame.Width(), frame.Height(), scene.Style{Stroke: "#000000", Width: 1})

	if c.ticks > 0 {
		for _, t := range scene.Ticks(v.Window.X0, v.Window.X1, c.ticks) {
			x := v.X(t)
			p.polyline([]float64{x, x}, []float64{frame.Y1, frame.Y1 + 5}, scene.Style{Stroke: "#000000", Width: 1})
			p.text(x, frame.Y1+18, formatTick(t), c.fontSize, scene.LabelGray, anchorMiddle)
		}
		for _, t := range scene.Ticks(v.Window.Y0, v.Window.Y1, c.ticks) {
			y := v.Y(t)
			p.polyline([]float64{frame.X0 - 5, frame.X0}, []float64{y, y}, scene.Style{Stroke: "#000000", Width: 1})
			p.text(frame.X0-8, y+c.fontSize/3, formatTick(t), c.fontSize, scene.LabelGray, anchorEnd)
		}
	}

	p.text(c.width/2, 28, s.Title, c.fontSize*1.6, scene.Black, anchorMiddle)
	p.text((frame.X0+frame.X1)/2, c.height-14, s.XLabel, c.fontSize*1.2, scene.Black, anchorMiddle)
	p.vtext(18, (frame.Y0+frame.Y1)/2, s.YLabel, c.fontSize*1.2, scene.Black)

	if c.legend && len(s.Legend) > 0 {
		paintLegend(p, s.Legend, frame.X1, frame.Y0, c.fontSize)
	}
}

// paintLegend stacks entries in the top-right corner of the plot area.
func paintLegend(p painter, entries []scene.LegendEntry, right, top, size float64) {
	const swatch = 14.0
	widest := 0
	for _, e := range entries {
		widest = max(widest, len(e.Label))
	}
	w := swatch + 16 + float64(widest)*size*0.6
	h := float64(len(entries))*(swatch+6) + 6
	x0 := right - w - 8
	y0 := top + 8
	p.rect(x0, y0, w, h, scene.Style{Stroke: "#999999", Fill: "#ffffff", Width: 1, Opacity: 0.85})

	for i, e := range entries {
		y := y0 + 6 + float64(i)*(swatch+6)
		st := e.Style
		switch {
		case st.Stroke == "" && st.Fill != "":
			p.circle(x0+6+swatch/2, y+swatch/2, 3, st)
		case len(st.Dash) > 0:
			p.polyline([]float64{x0 + 6, x0 + 6 + swatch}, []float64{y + swatch/2, y + swatch/2}, st)
		default:
			p.rect(x0+6, y, swatch, swatch, st)
		}
		p.text(x0+12+swatch, y+swatch-3, e.Label, size, scene.Black, anchorStart)
	}
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
