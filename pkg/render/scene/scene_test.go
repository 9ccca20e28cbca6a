package scene

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fpviz/fpviz/pkg/floorplan"
	"github.com/fpviz/fpviz/pkg/geom"
	"github.com/fpviz/fpviz/pkg/overlap"
	"github.com/fpviz/fpviz/pkg/placement"
)

func miniFloorplan(t *testing.T) *floorplan.Floorplan {
	t.Helper()
	dir := filepath.Join("..", "..", "floorplan", "testdata")
	fp, err := floorplan.Load(filepath.Join(dir, "mini.block"), filepath.Join(dir, "mini.nets"), filepath.Join(dir, "mini.out"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return fp
}

func TestFromFloorplan(t *testing.T) {
	fp := miniFloorplan(t)
	s := FromFloorplan(fp, Options{})

	if s.Title != "Block and Terminal Positions for mini.block" {
		t.Errorf("Title = %q", s.Title)
	}
	if s.XLabel != "X-coordinate" || s.YLabel != "Y-coordinate" {
		t.Errorf("axis labels = %q, %q", s.XLabel, s.YLabel)
	}
	if want := geom.R(0, 0, 110, 80); s.Window != want {
		t.Errorf("Window = %v, want %v", s.Window, want)
	}

	counts := map[string]int{
		"outline": s.Count(LayerOutline, KindRect),
		"blocks":  s.Count(LayerBlock, KindRect),
		"pins":    s.Count(LayerTerminal, KindPoint),
		"nets":    s.Count(LayerNet, KindPath),
		"labels":  s.Count(LayerLabel, KindLabel),
	}
	want := map[string]int{"outline": 1, "blocks": 3, "pins": 2, "nets": 3, "labels": 5}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Errorf("shape counts mismatch (-want +got):\n%s", diff)
	}

	// First net joins bk1 (center 20,15) and bk2 (center 65,10).
	for _, sh := range s.Shapes {
		if sh.Name != "net0" {
			continue
		}
		wantPts := []geom.Point{geom.Pt(20, 10), geom.Pt(65, 10), geom.Pt(65, 15)}
		if diff := cmp.Diff(wantPts, sh.Points); diff != "" {
			t.Errorf("net0 path mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestFromFloorplanOptions(t *testing.T) {
	fp := miniFloorplan(t)
	win := geom.R(-10, -10, 200, 200)
	s := FromFloorplan(fp, Options{HideLabels: true, HideNets: true, Window: win})

	if s.Window != win {
		t.Errorf("Window = %v, want %v", s.Window, win)
	}
	if n := s.Count(LayerLabel, KindLabel); n != 0 {
		t.Errorf("labels = %d, want 0", n)
	}
	if n := s.Count(LayerNet, KindPath); n != 0 {
		t.Errorf("nets = %d, want 0", n)
	}
}

func TestFromOverlap(t *testing.T) {
	items := []overlap.Item{
		{Name: "a", Rect: geom.R(0, 0, 10, 10)},
		{Name: "b", Rect: geom.R(5, 5, 15, 15)},
		{Name: "c", Rect: geom.R(20, 0, 30, 10)},
	}
	res, err := overlap.Detect(items, overlap.Options{})
	if err != nil {
		t.Fatal(err)
	}
	s := FromOverlap("x.out", items, res, Options{HideLabels: true})

	fills := map[string]string{}
	for _, sh := range s.Shapes {
		if sh.Layer == LayerBlock {
			fills[sh.Name] = sh.Style.Fill
		}
	}
	want := map[string]string{"a": LightRed, "b": LightRed, "c": LightGrn}
	if diff := cmp.Diff(want, fills); diff != "" {
		t.Errorf("fills mismatch (-want +got):\n%s", diff)
	}
	if n := s.Count(LayerOverlap, KindRect); n != 1 {
		t.Errorf("intersections = %d, want 1", n)
	}
	if want := geom.R(0, 0, 30, 15); s.Window != want {
		t.Errorf("Window = %v, want %v", s.Window, want)
	}
}

func TestFromPlacement(t *testing.T) {
	dir := filepath.Join("..", "..", "placement", "testdata")
	p, err := placement.Load(filepath.Join(dir, "small.nodes"), filepath.Join(dir, "small.pl"))
	if err != nil {
		t.Fatal(err)
	}
	s := FromPlacement(p, Options{})
	if n := s.Count(LayerBlock, KindRect); n != 4 {
		t.Errorf("nodes = %d, want 4", n)
	}
	if want := geom.R(0, -10, 24, 52); s.Window != want {
		t.Errorf("Window = %v, want %v", s.Window, want)
	}
}

func TestWithout(t *testing.T) {
	s := FromFloorplan(miniFloorplan(t), Options{})
	stripped := s.Without(LayerLabel, LayerNet)
	if n := stripped.Count(LayerLabel, KindLabel); n != 0 {
		t.Errorf("labels after Without = %d", n)
	}
	if n := s.Count(LayerLabel, KindLabel); n == 0 {
		t.Error("Without modified the original scene")
	}
}

func TestRecolor(t *testing.T) {
	items := []overlap.Item{
		{Name: "a", Rect: geom.R(0, 0, 10, 10)},
		{Name: "b", Rect: geom.R(5, 5, 15, 15)},
	}
	res := overlap.Sweep(items)
	s := FromOverlap("x.out", items, res, Options{})
	got := s.Recolor(map[Layer]string{LayerBlock: "#000080", LayerOverlap: "#ff00ff"})

	for _, sh := range got.Shapes {
		switch sh.Layer {
		case LayerBlock:
			if sh.Style.Stroke != "#000080" {
				t.Errorf("block %s stroke = %s", sh.Name, sh.Style.Stroke)
			}
			if sh.Style.Fill != LightRed {
				t.Errorf("block %s fill = %s, want status fill kept", sh.Name, sh.Style.Fill)
			}
		case LayerOverlap:
			if sh.Style.Stroke != "#ff00ff" || sh.Style.Fill != "#ff00ff" {
				t.Errorf("overlap style = %+v", sh.Style)
			}
		}
	}
	for _, e := range got.Legend {
		if e.Label == "overlapping" && e.Style.Stroke != "#000080" {
			t.Errorf("legend %q stroke = %s", e.Label, e.Style.Stroke)
		}
	}
	if s.Shapes[0].Style.Stroke != Red {
		t.Error("Recolor modified the original scene")
	}
	if _, ok := ParseLayer("terminal"); !ok {
		t.Error("ParseLayer(terminal) failed")
	}
	if _, ok := ParseLayer("pins"); ok {
		t.Error("ParseLayer(pins) accepted")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	s := FromFloorplan(miniFloorplan(t), Options{})
	data, err := Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestViewport(t *testing.T) {
	v := NewViewport(geom.R(0, 0, 100, 50), 300, 200, Margins{})

	if v.Scale != 3 {
		t.Fatalf("Scale = %v, want 3", v.Scale)
	}
	// 150px tall plot centered in 200px.
	if x, y := v.Point(geom.Pt(0, 0)); x != 0 || y != 175 {
		t.Errorf("Point(0,0) = %v,%v, want 0,175", x, y)
	}
	if x, y := v.Point(geom.Pt(100, 50)); x != 300 || y != 25 {
		t.Errorf("Point(100,50) = %v,%v, want 300,25", x, y)
	}
	x, y, w, h := v.Rect(geom.R(10, 10, 20, 30))
	if x != 30 || y != 85 || w != 30 || h != 60 {
		t.Errorf("Rect = %v,%v,%v,%v", x, y, w, h)
	}
}

func TestViewportDegenerate(t *testing.T) {
	v := NewViewport(geom.R(5, 5, 5, 5), 100, 100, DefaultMargins)
	if v.Window.Empty() || v.Scale <= 0 {
		t.Errorf("degenerate window not padded: %+v", v)
	}
}

func TestTicks(t *testing.T) {
	tests := []struct {
		lo, hi float64
		n      int
		want   []float64
	}{
		{0, 100, 5, []float64{0, 20, 40, 60, 80, 100}},
		{0, 1, 4, []float64{0, 0.5, 1}},
		{-33330, 33396, 4, []float64{-20000, 0, 20000}},
		{3, 3, 5, []float64{3}},
		{1e16, 1e16 + 4, 6, []float64{1e16, 1e16 + 4}},
		{1e300, math.Inf(1), 4, []float64{1e300, math.Inf(1)}},
	}
	for _, tt := range tests {
		got := Ticks(tt.lo, tt.hi, tt.n)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Ticks(%v, %v, %d) mismatch (-want +got):\n%s", tt.lo, tt.hi, tt.n, diff)
		}
	}
}
