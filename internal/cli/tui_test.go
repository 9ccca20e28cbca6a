package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fpviz/fpviz/pkg/geom"
	"github.com/fpviz/fpviz/pkg/render/scene"
)

func testScene() *scene.Scene {
	s := scene.New("mini", geom.R(0, 0, 10, 10))
	s.AddRect(scene.LayerBlock, "bk1", geom.R(1, 1, 9, 9), scene.Style{Stroke: scene.Blue})
	return s
}

func TestRasterizeRect(t *testing.T) {
	// 20x10 cells over a 10x10 window: half a unit per column, one per row.
	c := rasterize(testScene(), geom.R(0, 0, 10, 10), 20, 10, nil)

	tests := []struct {
		col, row int
		want     rune
	}{
		{2, 0, '┌'},
		{18, 0, '┐'},
		{2, 8, '└'},
		{18, 8, '┘'},
		{10, 0, '─'},
		{2, 4, '│'},
		{10, 4, ' '},
		{0, 9, ' '},
	}
	for _, tt := range tests {
		if got := c.at(tt.col, tt.row); got != tt.want {
			t.Errorf("at(%d, %d) = %q, want %q", tt.col, tt.row, got, tt.want)
		}
	}
}

func TestRasterizeOverlapFill(t *testing.T) {
	s := testScene()
	s.AddRect(scene.LayerOverlap, "bk1/bk2", geom.R(1, 1, 9, 9), scene.Style{Fill: scene.Red})

	c := rasterize(s, geom.R(0, 0, 10, 10), 20, 10, nil)
	if got := c.at(10, 4); got != '▒' {
		t.Errorf("overlap interior = %q, want '▒'", got)
	}

	c = rasterize(s, geom.R(0, 0, 10, 10), 20, 10, map[scene.Layer]bool{scene.LayerOverlap: true})
	if got := c.at(10, 4); got != ' ' {
		t.Errorf("hidden overlap interior = %q, want ' '", got)
	}
}

func TestRasterizeLabelAndPoint(t *testing.T) {
	s := scene.New("mini", geom.R(0, 0, 10, 10))
	s.AddPoint(scene.LayerTerminal, "P1", geom.Pt(5, 5), scene.Style{Fill: scene.Black})
	s.AddLabel("bk", geom.Pt(1, 1), scene.Style{Fill: scene.LabelGray})

	c := rasterize(s, geom.R(0, 0, 10, 10), 20, 10, nil)
	if got := c.at(10, 4); got != '●' {
		t.Errorf("terminal cell = %q, want '●'", got)
	}
	if got := string([]rune{c.at(3, 7), c.at(4, 7)}); got != "bk" {
		t.Errorf("label = %q, want bk", got)
	}
}

func TestRasterizeDeepZoom(t *testing.T) {
	s := testScene()
	s.AddRect(scene.LayerOverlap, "bk1/bk2", geom.R(1, 1, 9, 9), scene.Style{Fill: scene.Red})
	s.AddPath(scene.LayerNet, "n1", scene.Style{Stroke: scene.Blue}, geom.Pt(1, 9), geom.Pt(9, 8), geom.Pt(9, 1))

	view := s.Window
	for range 60 {
		view = zoom(view, zoomStep)
	}

	done := make(chan *canvas, 1)
	go func() { done <- rasterize(s, view, 118, 35, nil) }()
	select {
	case c := <-done:
		if got := c.at(59, 17); got != '▒' {
			t.Errorf("center cell = %q, want '▒'", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("rasterize of a deeply zoomed view did not finish")
	}
}

func TestClipSegment(t *testing.T) {
	box := geom.R(0, 0, 10, 10)
	tests := []struct {
		a, b, wantA, wantB geom.Point
		ok                 bool
	}{
		{geom.Pt(-10, 5), geom.Pt(30, 5), geom.Pt(0, 5), geom.Pt(10, 5), true},
		{geom.Pt(2, 2), geom.Pt(8, 8), geom.Pt(2, 2), geom.Pt(8, 8), true},
		{geom.Pt(-5, -5), geom.Pt(15, 15), geom.Pt(0, 0), geom.Pt(10, 10), true},
		{geom.Pt(-5, 20), geom.Pt(20, 20), geom.Point{}, geom.Point{}, false},
		{geom.Pt(11, 0), geom.Pt(20, 10), geom.Point{}, geom.Point{}, false},
	}
	for _, tt := range tests {
		a, b, ok := clipSegment(tt.a, tt.b, box)
		if ok != tt.ok {
			t.Errorf("clipSegment(%v, %v) ok = %v, want %v", tt.a, tt.b, ok, tt.ok)
			continue
		}
		if ok && (a != tt.wantA || b != tt.wantB) {
			t.Errorf("clipSegment(%v, %v) = %v, %v, want %v, %v", tt.a, tt.b, a, b, tt.wantA, tt.wantB)
		}
	}
}

func TestCanvasString(t *testing.T) {
	c := newCanvas(geom.R(0, 0, 4, 2), 4, 1)
	c.set(0, 0, 'a', "")
	c.set(1, 0, 'b', "")
	c.set(5, 0, 'x', "") // off canvas
	if got := c.String(); !strings.HasPrefix(got, "ab") {
		t.Errorf("String() = %q, want prefix ab", got)
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m SceneModel, keys ...string) SceneModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(SceneModel)
	}
	return m
}

func TestSceneModelNavigation(t *testing.T) {
	m := NewSceneModel(testScene(), "3 blocks")

	tests := []struct {
		name string
		keys []string
		want geom.Rect
	}{
		{"zoom in", []string{"+"}, geom.R(1, 1, 9, 9)},
		{"pan left", []string{"left"}, geom.R(-1, 0, 9, 10)},
		{"pan up", []string{"k"}, geom.R(0, 1, 10, 11)},
		{"reset", []string{"+", "l", "0"}, geom.R(0, 0, 10, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := update(t, m, tt.keys...).Window
			if !approxRect(got, tt.want) {
				t.Errorf("Window = %v, want %v", got, tt.want)
			}
		})
	}
}

func approxRect(a, b geom.Rect) bool {
	const eps = 1e-9
	d := func(x, y float64) bool { return x-y < eps && y-x < eps }
	return d(a.X0, b.X0) && d(a.Y0, b.Y0) && d(a.X1, b.X1) && d(a.Y1, b.Y1)
}

func TestSceneModelToggle(t *testing.T) {
	m := NewSceneModel(testScene(), "")
	toggled := update(t, m, "n", "o")

	if !toggled.Hidden[scene.LayerNet] || !toggled.Hidden[scene.LayerOverlap] {
		t.Errorf("Hidden = %v, want net and overlap hidden", toggled.Hidden)
	}
	if len(m.Hidden) != 0 {
		t.Errorf("original model changed: %v", m.Hidden)
	}
	if back := update(t, toggled, "n"); back.Hidden[scene.LayerNet] {
		t.Error("second n did not show nets again")
	}
}

func TestSceneModelQuit(t *testing.T) {
	m := NewSceneModel(testScene(), "")
	for _, k := range []string{"q", "esc"} {
		_, cmd := m.Update(key(k))
		if cmd == nil {
			t.Fatalf("%s returned no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s command did not quit", k)
		}
	}
}

func TestSceneModelView(t *testing.T) {
	m := NewSceneModel(testScene(), "3 blocks")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	m = next.(SceneModel)

	view := m.View()
	for _, want := range []string{"mini", "3 blocks", "q quit", "┌"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() lacks %q", want)
		}
	}
}
