package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fpviz/fpviz/pkg/geom"
	"github.com/fpviz/fpviz/pkg/render/scene"
)

// Viewer styles
var (
	viewerTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewerDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	viewerFrameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
)

const (
	// cellAspect is the height of a terminal cell divided by its width.
	cellAspect = 2.0

	panStep  = 0.1 // fraction of the window moved per key press
	zoomStep = 0.8 // window scale per zoom-in key press

	// chrome is the number of lines taken by the title, frame and footer.
	chrome = 5
)

// =============================================================================
// SceneModel - Interactive scene viewer
// =============================================================================

// SceneModel is the bubbletea model of the terminal viewer. It draws a scene
// with box-drawing characters and supports panning, zooming and toggling
// layers.
type SceneModel struct {
	Scene  *scene.Scene
	Info   string    // status line, e.g. block and overlap counts
	Window geom.Rect // visible world window
	Width  int       // terminal columns
	Height int       // terminal rows
	Hidden map[scene.Layer]bool

	home geom.Rect
}

// NewSceneModel creates a viewer showing the whole scene window.
func NewSceneModel(s *scene.Scene, info string) SceneModel {
	return SceneModel{
		Scene:  s,
		Info:   info,
		Window: s.Window,
		Width:  100,
		Height: 32,
		Hidden: make(map[scene.Layer]bool),
		home:   s.Window,
	}
}

func (m SceneModel) Init() tea.Cmd {
	return nil
}

func (m SceneModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		w, h := m.Window.Width(), m.Window.Height()
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.Window = m.Window.Translate(-w*panStep, 0)
		case "right", "l":
			m.Window = m.Window.Translate(w*panStep, 0)
		case "up", "k":
			m.Window = m.Window.Translate(0, h*panStep)
		case "down", "j":
			m.Window = m.Window.Translate(0, -h*panStep)
		case "+", "=":
			m.Window = zoom(m.Window, zoomStep)
		case "-", "_":
			m.Window = zoom(m.Window, 1/zoomStep)
		case "0", "r":
			m.Window = m.home
		case "t":
			m.toggle(scene.LayerLabel)
		case "n":
			m.toggle(scene.LayerNet)
		case "o":
			m.toggle(scene.LayerOverlap)
		}
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
	}
	return m, nil
}

// toggle flips the visibility of a layer. The map is copied so earlier
// models are not affected.
func (m *SceneModel) toggle(l scene.Layer) {
	hidden := make(map[scene.Layer]bool, len(m.Hidden)+1)
	for k, v := range m.Hidden {
		hidden[k] = v
	}
	hidden[l] = !hidden[l]
	m.Hidden = hidden
}

// zoom scales r about its center.
func zoom(r geom.Rect, f float64) geom.Rect {
	c := r.Center()
	hw, hh := r.Width()*f/2, r.Height()*f/2
	return geom.R(c.X-hw, c.Y-hh, c.X+hw, c.Y+hh)
}

func (m SceneModel) View() string {
	cols, rows := max(m.Width-2, 10), max(m.Height-chrome, 4)

	var b strings.Builder
	b.WriteString(viewerTitleStyle.Render(m.Scene.Title))
	b.WriteString("\n")

	c := rasterize(m.Scene, m.Window, cols, rows, m.Hidden)
	b.WriteString(viewerFrameStyle.Render(c.String()))
	b.WriteString("\n")

	status := fmt.Sprintf("x %s..%s  y %s..%s", num(m.Window.X0), num(m.Window.X1), num(m.Window.Y0), num(m.Window.Y1))
	if m.Info != "" {
		status = m.Info + "  ·  " + status
	}
	b.WriteString(viewerDimStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(viewerDimStyle.Render("←↓↑→/hjkl pan  +/- zoom  0 reset  t labels  n nets  o overlaps  q quit"))
	return b.String()
}

func num(v float64) string {
	return formatHPWL(math.Round(v*100) / 100)
}

// =============================================================================
// Canvas - character raster of a scene
// =============================================================================

type cell struct {
	r     rune
	color string
}

// canvas is a grid of colored characters. Row 0 is the top line.
type canvas struct {
	cols, rows int
	cells      []cell

	// world to cell transform
	x0, y0 float64 // world coordinates of the lower-left corner
	sx, sy float64 // world units per column and per row
}

// newCanvas fits view into cols×rows cells keeping equal aspect, centered.
func newCanvas(view geom.Rect, cols, rows int) *canvas {
	c := &canvas{cols: cols, rows: rows, cells: make([]cell, cols*rows)}
	for i := range c.cells {
		c.cells[i].r = ' '
	}
	w, h := math.Max(view.Width(), 1e-9), math.Max(view.Height(), 1e-9)
	c.sx = math.Max(w/float64(cols), h/(float64(rows)*cellAspect))
	c.sy = c.sx * cellAspect
	center := view.Center()
	c.x0 = center.X - c.sx*float64(cols)/2
	c.y0 = center.Y - c.sy*float64(rows)/2
	return c
}

// cell returns the column and row of a world point. Points off the canvas
// are clamped to one cell outside it, so loops over cell ranges stay within
// the canvas however far the view is zoomed.
func (c *canvas) cell(p geom.Point) (col, row int) {
	col = clampCell((p.X-c.x0)/c.sx, c.cols)
	row = c.rows - 1 - clampCell((p.Y-c.y0)/c.sy, c.rows)
	return col, row
}

func clampCell(v float64, n int) int {
	switch f := math.Floor(v); {
	case math.IsNaN(f) || f < -1:
		return -1
	case f > float64(n):
		return n
	default:
		return int(f)
	}
}

// bounds is the world rectangle covered by the canvas.
func (c *canvas) bounds() geom.Rect {
	return geom.R(c.x0, c.y0, c.x0+c.sx*float64(c.cols), c.y0+c.sy*float64(c.rows))
}

func (c *canvas) set(col, row int, r rune, color string) {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return
	}
	c.cells[row*c.cols+col] = cell{r: r, color: color}
}

func (c *canvas) at(col, row int) rune {
	return c.cells[row*c.cols+col].r
}

func (c *canvas) rect(r geom.Rect, color string, fill rune) {
	c0, r1 := c.cell(geom.Pt(r.X0, r.Y0))
	c1, r0 := c.cell(geom.Pt(r.X1, r.Y1))
	if c1 == c0 && r1 == r0 {
		c.set(c0, r0, '▪', color)
		return
	}
	if fill != 0 {
		for row := r0 + 1; row < r1; row++ {
			for col := c0 + 1; col < c1; col++ {
				c.set(col, row, fill, color)
			}
		}
	}
	for col := c0 + 1; col < c1; col++ {
		c.set(col, r0, '─', color)
		c.set(col, r1, '─', color)
	}
	for row := r0 + 1; row < r1; row++ {
		c.set(c0, row, '│', color)
		c.set(c1, row, '│', color)
	}
	c.set(c0, r0, '┌', color)
	c.set(c1, r0, '┐', color)
	c.set(c0, r1, '└', color)
	c.set(c1, r1, '┘', color)
}

// line draws a segment. Axis-parallel segments use dashed box characters.
func (c *canvas) line(a, b geom.Point, color string) {
	a, b, ok := clipSegment(a, b, c.bounds())
	if !ok {
		return
	}
	c0, r0 := c.cell(a)
	c1, r1 := c.cell(b)
	switch {
	case r0 == r1:
		for col := min(c0, c1); col <= max(c0, c1); col++ {
			c.set(col, r0, '┄', color)
		}
	case c0 == c1:
		for row := min(r0, r1); row <= max(r0, r1); row++ {
			c.set(c0, row, '┆', color)
		}
	default:
		n := max(abs(c1-c0), abs(r1-r0))
		for i := 0; i <= n; i++ {
			t := float64(i) / float64(n)
			c.set(c0+int(math.Round(t*float64(c1-c0))), r0+int(math.Round(t*float64(r1-r0))), '·', color)
		}
	}
}

// clipSegment clips ab to r (Liang-Barsky). ok is false when no part of the
// segment lies in r.
func clipSegment(a, b geom.Point, r geom.Rect) (geom.Point, geom.Point, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{
		{-dx, a.X - r.X0}, {dx, r.X1 - a.X},
		{-dy, a.Y - r.Y0}, {dy, r.Y1 - a.Y},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = max(t0, t)
		} else {
			t1 = min(t1, t)
		}
		if t0 > t1 {
			return a, b, false
		}
	}
	return geom.Pt(a.X+t0*dx, a.Y+t0*dy), geom.Pt(a.X+t1*dx, a.Y+t1*dy), true
}

func (c *canvas) text(p geom.Point, s, color string) {
	if !c.bounds().Inflate(c.sx*float64(len(s)+1), c.sy).Contains(p) {
		return
	}
	col, row := c.cell(p)
	// Labels sit just above the anchor, inside the block's lower-left corner.
	row--
	col++
	for _, r := range s {
		c.set(col, row, r, color)
		col++
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// String renders the canvas with one lipgloss style per color run.
func (c *canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		start := 0
		for col := 1; col <= c.cols; col++ {
			if col < c.cols && c.cells[row*c.cols+col].color == c.cells[row*c.cols+start].color {
				continue
			}
			var run strings.Builder
			for i := start; i < col; i++ {
				run.WriteRune(c.cells[row*c.cols+i].r)
			}
			if color := c.cells[row*c.cols+start].color; color != "" {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			start = col
		}
	}
	return b.String()
}

// rasterize draws s as seen through view.
func rasterize(s *scene.Scene, view geom.Rect, cols, rows int, hidden map[scene.Layer]bool) *canvas {
	c := newCanvas(view, cols, rows)
	for _, sh := range s.Shapes {
		if hidden[sh.Layer] {
			continue
		}
		color := sh.Style.Stroke
		if color == "" {
			color = sh.Style.Fill
		}
		switch sh.Kind {
		case scene.KindRect:
			var fill rune
			if sh.Layer == scene.LayerOverlap {
				fill = '▒'
			}
			c.rect(sh.Rect, color, fill)
		case scene.KindPoint:
			col, row := c.cell(sh.Points[0])
			c.set(col, row, '●', color)
		case scene.KindPath:
			for i := 1; i < len(sh.Points); i++ {
				c.line(sh.Points[i-1], sh.Points[i], color)
			}
		case scene.KindLabel:
			c.text(sh.Points[0], sh.Text, color)
		}
	}
	return c
}
