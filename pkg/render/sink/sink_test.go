package sink

import (
	"bytes"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"

	"github.com/fpviz/fpviz/pkg/errors"
	"github.com/fpviz/fpviz/pkg/geom"
	"github.com/fpviz/fpviz/pkg/render/scene"
)

func testScene() *scene.Scene {
	s := scene.New("Block and Terminal Positions for t.block", geom.R(0, 0, 100, 50))
	s.AddRect(scene.LayerOutline, "outline", geom.R(0, 0, 100, 50), scene.Style{Stroke: scene.Black, Width: 2})
	s.AddRect(scene.LayerBlock, "bk<1>", geom.R(10, 10, 40, 30), scene.Style{Stroke: scene.Red, Width: 1.5})
	s.AddPoint(scene.LayerTerminal, "P1", geom.Pt(0, 25), scene.Style{Fill: scene.Green, Width: 3})
	s.AddPath(scene.LayerNet, "net0", scene.Style{Stroke: scene.Blue, Dash: []float64{6, 4}},
		geom.Pt(0, 20), geom.Pt(25, 20), geom.Pt(25, 25))
	s.AddLabel("bk<1>", geom.Pt(10, 10), scene.Style{Fill: scene.Red})
	s.Legend = []scene.LegendEntry{{Label: "block", Style: scene.Style{Stroke: scene.Red}}}
	return s
}

func TestRenderSVG(t *testing.T) {
	out := string(RenderSVG(testScene(), WithSize(400, 300)))

	for _, want := range []string{
		`<svg`,
		`width="400"`,
		`height="300"`,
		`<title>Block and Terminal Positions for t.block</title>`,
		`stroke-dasharray:6,4`,
		`bk&lt;1&gt;`,
		`X-coordinate`,
		`Y-coordinate`,
		`rotate(-90`,
		`</svg>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
}

func TestRenderSVGWithoutLegendAndTicks(t *testing.T) {
	with := RenderSVG(testScene())
	without := RenderSVG(testScene(), WithoutLegend(), WithTicks(0))
	if len(without) >= len(with) {
		t.Errorf("legend/ticks not removed: %d >= %d bytes", len(without), len(with))
	}
	if strings.Contains(string(without), ">block<") {
		t.Error("legend label present with WithoutLegend")
	}
}

func TestRenderSVGZ(t *testing.T) {
	data, err := RenderSVGZ(testScene())
	if err != nil {
		t.Fatal(err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("not gzip: %v", err)
	}
	plain, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(plain, RenderSVG(testScene())) {
		t.Error("decompressed SVGZ differs from SVG")
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(testScene(), WithSize(200, 100), WithScale(2))
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Errorf("size = %dx%d, want 400x200", b.Dx(), b.Dy())
	}
	// The corner is outside every shape and keeps the white background.
	if r, g, b, _ := img.At(1, 1).RGBA(); r>>8 != 0xff || g>>8 != 0xff || b>>8 != 0xff {
		t.Errorf("background = %v, want white", img.At(1, 1))
	}
}

func TestRenderJSON(t *testing.T) {
	s := testScene()
	data, err := RenderJSON(s)
	if err != nil {
		t.Fatal(err)
	}
	got, err := scene.Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{"", []string{"svg"}, false},
		{"svg", []string{"svg"}, false},
		{"PNG, svg,png", []string{"png", "svg"}, false},
		{"svg,svgz,png,pdf,json,dot", Formats, false},
		{"gif", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormats(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormats(%q) error = %v", tt.in, err)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("code = %s", errors.GetCode(err))
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in    string
		alpha float64
		want  color.NRGBA
	}{
		{"#d62728", 1, color.NRGBA{0xd6, 0x27, 0x28, 0xff}},
		{"#fff", 0.5, color.NRGBA{0xff, 0xff, 0xff, 0x80}},
		{"red", 1, color.NRGBA{A: 0xff}},
	}
	for _, tt := range tests {
		if got := parseColor(tt.in, tt.alpha); got != tt.want {
			t.Errorf("parseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStyleAttr(t *testing.T) {
	tests := []struct {
		st   scene.Style
		want string
	}{
		{scene.Style{}, "fill:none"},
		{scene.Style{Stroke: "#000"}, "fill:none;stroke:#000;stroke-width:1"},
		{scene.Style{Fill: "#f00", Opacity: 0.5}, "fill:#f00;fill-opacity:0.50"},
		{scene.Style{Stroke: "#00f", Width: 1.5, Dash: []float64{6, 4}}, "fill:none;stroke:#00f;stroke-width:1.5;stroke-dasharray:6,4"},
	}
	for _, tt := range tests {
		if got := styleAttr(tt.st); got != tt.want {
			t.Errorf("styleAttr(%+v) = %q, want %q", tt.st, got, tt.want)
		}
	}
}

func TestExtension(t *testing.T) {
	if Extension(FormatDOT) != "nets.svg" || Extension(FormatPNG) != "png" {
		t.Error("unexpected extensions")
	}
	if ContentType(FormatPDF) != "application/pdf" {
		t.Error("unexpected content type")
	}
}
