package sink

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/fpviz/fpviz/pkg/render/scene"
)

// RenderSVG draws the scene as a standalone SVG document.
func RenderSVG(s *scene.Scene, opts ...Option) []byte {
	c := newConfig(opts...)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(px(c.width), px(c.height))
	canvas.Title(s.Title)
	paint(&svgPainter{canvas: canvas}, s, c)
	canvas.End()
	return buf.Bytes()
}

type svgPainter struct {
	canvas *svg.SVG
}

func (p *svgPainter) rect(x, y, w, h float64, st scene.Style) {
	p.canvas.Rect(px(x), px(y), max(px(w), 1), max(px(h), 1), styleAttr(st))
}

func (p *svgPainter) circle(x, y, r float64, st scene.Style) {
	p.canvas.Circle(px(x), px(y), max(px(r), 1), styleAttr(st))
}

func (p *svgPainter) polyline(xs, ys []float64, st scene.Style) {
	ix := make([]int, len(xs))
	iy := make([]int, len(ys))
	for i := range xs {
		ix[i], iy[i] = px(xs[i]), px(ys[i])
	}
	st.Fill = ""
	p.canvas.Polyline(ix, iy, styleAttr(st))
}

func (p *svgPainter) text(x, y float64, s string, size float64, color string, a anchor) {
	p.canvas.Text(px(x), px(y), s, textAttr(size, color, a))
}

func (p *svgPainter) vtext(x, y float64, s string, size float64, color string) {
	p.canvas.TranslateRotate(px(x), px(y), -90)
	p.canvas.Text(0, 0, s, textAttr(size, color, anchorMiddle))
	p.canvas.Gend()
}

func px(v float64) int { return int(math.Round(v)) }

func styleAttr(st scene.Style) string {
	var parts []string
	if st.Fill != "" {
		parts = append(parts, "fill:"+st.Fill)
		if st.Opacity > 0 && st.Opacity < 1 {
			parts = append(parts, fmt.Sprintf("fill-opacity:%.2f", st.Opacity))
		}
	} else {
		parts = append(parts, "fill:none")
	}
	if st.Stroke != "" {
		parts = append(parts, "stroke:"+st.Stroke)
		w := st.Width
		if w <= 0 {
			w = 1
		}
		parts = append(parts, fmt.Sprintf("stroke-width:%g", w))
		if len(st.Dash) > 0 {
			dash := make([]string, len(st.Dash))
			for i, d := range st.Dash {
				dash[i] = fmt.Sprintf("%g", d)
			}
			parts = append(parts, "stroke-dasharray:"+strings.Join(dash, ","))
		}
	}
	return strings.Join(parts, ";")
}

func textAttr(size float64, color string, a anchor) string {
	if color == "" {
		color = scene.Black
	}
	attr := fmt.Sprintf("font-family:sans-serif;font-size:%gpx;fill:%s", math.Round(size*10)/10, color)
	switch a {
	case anchorMiddle:
		attr += ";text-anchor:middle"
	case anchorEnd:
		attr += ";text-anchor:end"
	}
	return attr
}
