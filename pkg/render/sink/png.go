package sink

import (
	"bytes"
	"image/color"
	"strconv"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/fpviz/fpviz/pkg/errors"
	"github.com/fpviz/fpviz/pkg/render/scene"
)

// RenderPNG rasterizes the scene in-process. The image is the canvas size
// times the scale factor set by [WithScale].
func RenderPNG(s *scene.Scene, opts ...Option) ([]byte, error) {
	c := newConfig(opts...)

	dc := gg.NewContext(px(c.width*c.scale), px(c.height*c.scale))
	p := &pngPainter{dc: dc, scale: c.scale, faces: make(map[float64]font.Face)}
	paint(p, s, c)
	if p.err != nil {
		return nil, p.err
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

type pngPainter struct {
	dc    *gg.Context
	scale float64
	faces map[float64]font.Face
	err   error
}

var (
	goRegular     *opentype.Font
	goRegularErr  error
	goRegularOnce sync.Once
)

func (p *pngPainter) face(size float64) font.Face {
	size *= p.scale
	if f, ok := p.faces[size]; ok {
		return f
	}
	goRegularOnce.Do(func() {
		goRegular, goRegularErr = opentype.Parse(goregular.TTF)
	})
	if goRegularErr != nil {
		p.err = errors.Wrap(errors.ErrCodeInternal, goRegularErr, "parse font")
		return nil
	}
	f, err := opentype.NewFace(goRegular, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		p.err = errors.Wrap(errors.ErrCodeInternal, err, "load font face")
		return nil
	}
	p.faces[size] = f
	return f
}

func (p *pngPainter) rect(x, y, w, h float64, st scene.Style) {
	s := p.scale
	p.dc.DrawRectangle(x*s, y*s, max(w*s, 1), max(h*s, 1))
	p.fillStroke(st)
}

func (p *pngPainter) circle(x, y, r float64, st scene.Style) {
	p.dc.DrawCircle(x*p.scale, y*p.scale, r*p.scale)
	p.fillStroke(st)
}

func (p *pngPainter) polyline(xs, ys []float64, st scene.Style) {
	if len(xs) == 0 {
		return
	}
	p.dc.MoveTo(xs[0]*p.scale, ys[0]*p.scale)
	for i := 1; i < len(xs); i++ {
		p.dc.LineTo(xs[i]*p.scale, ys[i]*p.scale)
	}
	st.Fill = ""
	p.fillStroke(st)
}

func (p *pngPainter) text(x, y float64, s string, size float64, c string, a anchor) {
	f := p.face(size)
	if f == nil {
		return
	}
	p.dc.SetFontFace(f)
	p.dc.SetColor(parseColor(c, 1))
	ax := 0.0
	switch a {
	case anchorMiddle:
		ax = 0.5
	case anchorEnd:
		ax = 1
	}
	p.dc.DrawStringAnchored(s, x*p.scale, y*p.scale, ax, 0)
}

func (p *pngPainter) vtext(x, y float64, s string, size float64, c string) {
	p.dc.Push()
	p.dc.RotateAbout(gg.Radians(-90), x*p.scale, y*p.scale)
	p.text(x, y, s, size, c, anchorMiddle)
	p.dc.Pop()
}

func (p *pngPainter) fillStroke(st scene.Style) {
	if st.Fill != "" {
		alpha := 1.0
		if st.Opacity > 0 && st.Opacity < 1 {
			alpha = st.Opacity
		}
		p.dc.SetColor(parseColor(st.Fill, alpha))
		if st.Stroke != "" {
			p.dc.FillPreserve()
		} else {
			p.dc.Fill()
		}
	}
	if st.Stroke != "" {
		w := st.Width
		if w <= 0 {
			w = 1
		}
		p.dc.SetColor(parseColor(st.Stroke, 1))
		p.dc.SetLineWidth(w * p.scale)
		if len(st.Dash) > 0 {
			dash := make([]float64, len(st.Dash))
			for i, d := range st.Dash {
				dash[i] = d * p.scale
			}
			p.dc.SetDash(dash...)
		}
		p.dc.Stroke()
		p.dc.SetDash()
	}
	p.dc.ClearPath()
}

// parseColor decodes "#rrggbb" or "#rgb". Anything else is black.
func parseColor(hex string, alpha float64) color.NRGBA {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	c := color.NRGBA{A: uint8(alpha*255 + 0.5)}
	if len(hex) != 6 {
		return c
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return c
	}
	c.R, c.G, c.B = uint8(v>>16), uint8(v>>8), uint8(v)
	return c
}
