package netgraph

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fpviz/fpviz/pkg/floorplan"
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

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(miniFloorplan(t), Options{})

	for _, want := range []string{
		"graph G {",
		`"bk1" [label="bk1"]`,
		`"P1" [shape=ellipse`,
		`"bk1" -- "bk2"`,
		`"net1" [shape=point`,
		`"net1" -- "P1"`,
		`"bk2" -- "P2"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q", want)
		}
	}
	if strings.Contains(dot, "->") {
		t.Error("ToDOT() should produce an undirected graph")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(miniFloorplan(t), Options{Detailed: true})

	if !strings.Contains(dot, `bk1\n40×30`) {
		t.Error("ToDOT() detailed output missing block size")
	}
	if !strings.Contains(dot, `label="hpwl 50"`) {
		t.Error("ToDOT() detailed output missing two-pin net HPWL")
	}
	if !strings.Contains(dot, `xlabel="hpwl 50"`) {
		t.Error("ToDOT() detailed output missing hub HPWL")
	}
}

func TestToDOT_SkipsUnresolved(t *testing.T) {
	fp := miniFloorplan(t)
	fp.Problem.Nets = append(fp.Problem.Nets, floorplan.Net{Members: []string{"bk1", "ghost"}})

	dot := ToDOT(fp, Options{})
	if strings.Contains(dot, "ghost") {
		t.Error("ToDOT() emitted an unknown member")
	}
	if s := Summarize(fp); s.Skipped != 1 || s.NetHubs != 1 || s.Edges != 5 || s.Nodes != 5 {
		t.Errorf("Summarize() = %+v", s)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Error("normalizeViewBox() changed an SVG without viewBox")
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(miniFloorplan(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !strings.Contains(string(svg), "<svg") || !strings.Contains(string(svg), "bk1") {
		t.Error("RenderSVG() output does not look like the graph")
	}
}
