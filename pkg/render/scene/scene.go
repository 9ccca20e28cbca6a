package scene

import (
	"encoding/json"

	"github.com/fpviz/fpviz/pkg/geom"
)

// Kind identifies the geometry of a shape.
type Kind string

const (
	KindRect  Kind = "rect"  // Rect
	KindPoint Kind = "point" // Points[0], drawn as a dot
	KindPath  Kind = "path"  // Points, an open polyline
	KindLabel Kind = "label" // Text anchored at Points[0]
)

// Layer groups shapes for styling and for toggling in viewers.
type Layer string

const (
	LayerOutline  Layer = "outline"
	LayerBlock    Layer = "block"
	LayerTerminal Layer = "terminal"
	LayerNet      Layer = "net"
	LayerOverlap  Layer = "overlap"
	LayerLabel    Layer = "label"
)

// Colors used by the builders.
const (
	Black     = "#000000"
	Red       = "#d62728"
	Green     = "#2ca02c"
	Blue      = "#1f77b4"
	LightRed  = "#f4a6a6"
	LightGrn  = "#b7e4b7"
	DarkRed   = "#8b0000"
	LabelGray = "#333333"
)

// Style is the paint of a shape. Width is in canvas pixels.
type Style struct {
	Stroke  string    `json:"stroke,omitempty"`
	Fill    string    `json:"fill,omitempty"`
	Width   float64   `json:"width,omitempty"`
	Dash    []float64 `json:"dash,omitempty"`
	Opacity float64   `json:"opacity,omitempty"` // fill opacity, 0 means opaque
}

// Shape is one drawable element.
type Shape struct {
	Kind   Kind         `json:"kind"`
	Layer  Layer        `json:"layer"`
	Name   string       `json:"name,omitempty"`
	Rect   geom.Rect    `json:"rect,omitempty"`
	Points []geom.Point `json:"points,omitempty"`
	Text   string       `json:"text,omitempty"`
	Style  Style        `json:"style"`
}

// Scene is a complete picture in world coordinates.
type Scene struct {
	Title  string        `json:"title"`
	XLabel string        `json:"x_label"`
	YLabel string        `json:"y_label"`
	Window geom.Rect     `json:"window"`
	Shapes []Shape       `json:"shapes"`
	Legend []LegendEntry `json:"legend,omitempty"`
}

// LegendEntry pairs a label with the style drawn next to it.
type LegendEntry struct {
	Label string `json:"label"`
	Style Style  `json:"style"`
}

// New returns an empty scene with the standard axis labels.
func New(title string, window geom.Rect) *Scene {
	return &Scene{
		Title:  title,
		XLabel: "X-coordinate",
		YLabel: "Y-coordinate",
		Window: window,
	}
}

// AddRect appends a rectangle.
func (s *Scene) AddRect(layer Layer, name string, r geom.Rect, st Style) {
	s.Shapes = append(s.Shapes, Shape{Kind: KindRect, Layer: layer, Name: name, Rect: r, Style: st})
}

// AddPoint appends a dot.
func (s *Scene) AddPoint(layer Layer, name string, p geom.Point, st Style) {
	s.Shapes = append(s.Shapes, Shape{Kind: KindPoint, Layer: layer, Name: name, Points: []geom.Point{p}, Style: st})
}

// AddPath appends an open polyline.
func (s *Scene) AddPath(layer Layer, name string, st Style, pts ...geom.Point) {
	s.Shapes = append(s.Shapes, Shape{Kind: KindPath, Layer: layer, Name: name, Points: pts, Style: st})
}

// AddLabel appends text whose lower-left corner sits at p.
func (s *Scene) AddLabel(text string, p geom.Point, st Style) {
	s.Shapes = append(s.Shapes, Shape{Kind: KindLabel, Layer: LayerLabel, Text: text, Points: []geom.Point{p}, Style: st})
}

// Count returns the number of shapes of the given kind on a layer.
func (s *Scene) Count(layer Layer, kind Kind) int {
	n := 0
	for _, sh := range s.Shapes {
		if sh.Layer == layer && sh.Kind == kind {
			n++
		}
	}
	return n
}

// Without returns a copy of s with the given layers removed.
func (s *Scene) Without(layers ...Layer) *Scene {
	drop := make(map[Layer]bool, len(layers))
	for _, l := range layers {
		drop[l] = true
	}
	out := *s
	out.Shapes = make([]Shape, 0, len(s.Shapes))
	for _, sh := range s.Shapes {
		if !drop[sh.Layer] {
			out.Shapes = append(out.Shapes, sh)
		}
	}
	return &out
}

// ParseLayer validates a layer name.
func ParseLayer(s string) (Layer, bool) {
	switch l := Layer(s); l {
	case LayerOutline, LayerBlock, LayerTerminal, LayerNet, LayerOverlap, LayerLabel:
		return l, true
	}
	return "", false
}

// Recolor returns a copy of s with the stroke of every shape on a layer in
// colors replaced. Fills follow the stroke for points, paths, labels and
// rectangles filled in their stroke color; status fills are kept. Legend
// entries are updated to match.
func (s *Scene) Recolor(colors map[Layer]string) *Scene {
	if len(colors) == 0 {
		return s
	}
	out := *s
	out.Shapes = make([]Shape, len(s.Shapes))
	subst := make(map[string]string)
	for i, sh := range s.Shapes {
		c, ok := colors[sh.Layer]
		if ok {
			if sh.Style.Fill != "" && (sh.Kind != KindRect || sh.Style.Fill == sh.Style.Stroke) {
				subst[sh.Style.Fill] = c
				sh.Style.Fill = c
			}
			if sh.Style.Stroke != "" {
				subst[sh.Style.Stroke] = c
				sh.Style.Stroke = c
			}
		}
		out.Shapes[i] = sh
	}
	out.Legend = make([]LegendEntry, len(s.Legend))
	for i, e := range s.Legend {
		if c, ok := subst[e.Style.Stroke]; ok {
			if e.Style.Fill == e.Style.Stroke {
				e.Style.Fill = c
			}
			e.Style.Stroke = c
		} else if c, ok := subst[e.Style.Fill]; ok && e.Style.Stroke == "" {
			e.Style.Fill = c
		}
		out.Legend[i] = e
	}
	return &out
}

// Marshal encodes the scene as indented JSON.
func Marshal(s *Scene) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Unmarshal decodes a scene produced by [Marshal].
func Unmarshal(data []byte) (*Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
