// Package pipeline provides the core visualization pipeline for fpviz.
//
// This package implements the complete parse → analyze → render pipeline that
// is shared by the CLI commands, the terminal viewer and the HTTP server. By
// centralizing this logic, every entry point computes the same HPWL, overlap
// and verification results and draws them the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: read the block/net/output files or the nodes/pl files
//  2. Analyze: net bounding boxes, overlap detection, verification, and the
//     resulting [scene.Scene]
//  3. Render: generate output in various formats (SVG, SVGZ, PNG, PDF, JSON,
//     DOT)
//
// Parsing always runs; the analysis bundle and every rendered artifact are
// cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	block, _ := pipeline.ReadInput("ami33.block")
//	nets, _ := pipeline.ReadInput("ami33.nets")
//	out, _ := pipeline.ReadInput("ami33.out")
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Kind:    pipeline.KindFloorplan,
//	    Block:   block,
//	    Nets:    nets,
//	    Output:  out,
//	    Formats: []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
//
// [scene.Scene]: github.com/fpviz/fpviz/pkg/render/scene#Scene
package pipeline

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fpviz/fpviz/pkg/cache"
	"github.com/fpviz/fpviz/pkg/errors"
	"github.com/fpviz/fpviz/pkg/floorplan"
	"github.com/fpviz/fpviz/pkg/geom"
	"github.com/fpviz/fpviz/pkg/overlap"
	"github.com/fpviz/fpviz/pkg/placement"
	"github.com/fpviz/fpviz/pkg/render/scene"
	"github.com/fpviz/fpviz/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, viewer and server
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 1000.0

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 800.0

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 1.0

	// DefaultAlpha weighs area against wirelength in the cost function.
	DefaultAlpha = 0.5

	// MaxPixels bounds each side of the canvas after scaling.
	MaxPixels = 10000.0
)

// Kind selects what the pipeline visualizes.
type Kind string

const (
	KindFloorplan Kind = "floorplan" // block + nets + solver output
	KindOverlap   Kind = "overlap"   // solver output only
	KindPlacement Kind = "placement" // Bookshelf nodes + pl
)

// ValidKinds lists the supported kinds.
var ValidKinds = []Kind{KindFloorplan, KindOverlap, KindPlacement}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !slices.Contains(ValidKinds, k) {
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid kind: %s (must be floorplan, overlap or placement)", s)
	}
	return k, nil
}

// =============================================================================
// Inputs
// =============================================================================

// Input is the content of one input file.
type Input struct {
	Name string // base name, used in titles and error messages
	Data []byte
}

// Empty reports whether no data was supplied.
func (in Input) Empty() bool { return len(in.Data) == 0 && in.Name == "" }

// ReadInput loads the file at path.
func ReadInput(path string) (Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Input{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return Input{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	return Input{Name: filepath.Base(path), Data: data}, nil
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	Kind Kind

	// Inputs. Floorplan uses Block, Nets and Output; overlap uses Output;
	// placement uses Nodes and PL.
	Block, Nets, Output Input
	Nodes, PL           Input

	// Analysis options
	Verify           bool    // floorplan: run Floorplan.Verify
	Alpha            float64 // cost weight for Verify; negative skips the cost check
	OverlapMethod    string  // grid, sweep or quadtree
	MaxCells         int64   // grid budget
	PlacementOverlap bool    // placement: color nodes by overlap
	Window           string  // placement: auto, a preset, or x0,y0,x1,y1

	// Scene options
	HideLabels bool
	HideNets   bool

	// Render options
	Formats  []string
	Width    float64
	Height   float64
	Scale    float64
	NoLegend bool
	Colors   map[string]string // layer name to color, e.g. "block": "#1f77b4"

	// Refresh skips cache reads; results are still written.
	Refresh bool

	// Logger defaults to a discarding logger.
	Logger *log.Logger

	method    overlap.Method
	window    geom.Rect
	colors    map[scene.Layer]string
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if _, err := ParseKind(string(o.Kind)); err != nil {
		return err
	}

	required := map[Kind][]struct {
		what string
		in   Input
	}{
		KindFloorplan: {{"block file", o.Block}, {"net file", o.Nets}, {"output file", o.Output}},
		KindOverlap:   {{"output file", o.Output}},
		KindPlacement: {{"nodes file", o.Nodes}, {"pl file", o.PL}},
	}
	for _, r := range required[o.Kind] {
		if r.in.Empty() {
			return errors.New(errors.ErrCodeInvalidInput, "%s is required", r.what)
		}
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{sink.FormatSVG}
	}
	for _, f := range o.Formats {
		if !slices.Contains(sink.Formats, f) {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s", f)
		}
		if f == sink.FormatDOT && o.Kind != KindFloorplan {
			return errors.New(errors.ErrCodeInvalidFormat, "dot output needs a net file (floorplan only)")
		}
	}

	m, err := overlap.ParseMethod(o.OverlapMethod)
	if err != nil {
		return err
	}
	o.method = m
	if o.MaxCells <= 0 {
		o.MaxCells = overlap.DefaultMaxCells
	}

	if o.Kind == KindPlacement {
		w, ok, err := placement.ParseWindow(o.Window)
		if err != nil {
			return err
		}
		if ok {
			o.window = w
		}
	}

	if len(o.Colors) > 0 {
		o.colors = make(map[scene.Layer]string, len(o.Colors))
		for name, c := range o.Colors {
			l, ok := scene.ParseLayer(name)
			if !ok {
				return errors.New(errors.ErrCodeInvalidInput, "unknown layer in colors: %s", name)
			}
			if !strings.HasPrefix(c, "#") || (len(c) != 4 && len(c) != 7) {
				return errors.New(errors.ErrCodeInvalidInput, "invalid color for %s: %q (want #rgb or #rrggbb)", name, c)
			}
			o.colors[l] = c
		}
	}

	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Width*o.Scale > MaxPixels || o.Height*o.Scale > MaxPixels {
		return errors.New(errors.ErrCodeInvalidInput, "canvas %g×%g at scale %g exceeds %g pixels per side", o.Width, o.Height, o.Scale, MaxPixels)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Method returns the validated overlap method.
func (o *Options) Method() overlap.Method { return o.method }

// SceneKeyOpts returns cache key options for the analysis bundle.
func (o *Options) SceneKeyOpts() cache.SceneKeyOpts {
	k := cache.SceneKeyOpts{
		HideLabels: o.HideLabels,
		HideNets:   o.HideNets,
		Window:     o.Window,
	}
	switch o.Kind {
	case KindFloorplan:
		if o.Verify {
			k.Alpha = o.Alpha
			k.OverlapMethod = "verify"
		}
	case KindOverlap:
		k.OverlapMethod = string(o.method)
		k.MaxCells = o.MaxCells
	case KindPlacement:
		if o.PlacementOverlap {
			k.OverlapMethod = string(o.method)
			k.MaxCells = o.MaxCells
		}
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case sink.FormatJSON:
	case sink.FormatDOT:
		// The net graph reads nets and declared blocks the scene may omit.
		k.Inputs = o.InputHash()
	default:
		k.Width, k.Height, k.Legend = o.Width, o.Height, !o.NoLegend
		if format == sink.FormatPNG {
			k.Scale = o.Scale
		}
	}
	return k
}

// SinkOptions translates render options for the image sinks.
func (o *Options) SinkOptions() []sink.Option {
	opts := []sink.Option{sink.WithSize(o.Width, o.Height), sink.WithScale(o.Scale)}
	if o.NoLegend {
		opts = append(opts, sink.WithoutLegend())
	}
	return opts
}

func (o *Options) inputs() []Input {
	switch o.Kind {
	case KindFloorplan:
		return []Input{o.Block, o.Nets, o.Output}
	case KindOverlap:
		return []Input{o.Output}
	default:
		return []Input{o.Nodes, o.PL}
	}
}

// InputHash identifies the input files' names and contents.
func (o *Options) InputHash() string {
	var parts [][]byte
	for _, in := range o.inputs() {
		parts = append(parts, []byte(in.Name), in.Data)
	}
	return cache.HashAll(parts...)
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	Kind Kind
	Name string // title name: block file, output file or nodes file

	// Exactly one of Floorplan, Overlap-only Items, or Placement is set,
	// depending on Kind.
	Floorplan *floorplan.Floorplan
	Placement *placement.Placement
	Items     []overlap.Item

	// Analysis results; see Analysis.
	Analysis

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// InputHash is the content hash of the inputs.
	InputHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Analysis is the cached output of the analyze stage.
type Analysis struct {
	Scene   *scene.Scene      `json:"scene"`
	Overlap *overlap.Result   `json:"overlap,omitempty"`
	Report  *floorplan.Report `json:"report,omitempty"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Blocks      int     `json:"blocks"`               // placed blocks or placed nodes
	Terminals   int     `json:"terminals,omitempty"`  // terminals or terminal nodes
	Nets        int     `json:"nets,omitempty"`       // floorplan only
	HPWL        float64 `json:"hpwl,omitempty"`       // total HPWL, floorplan only
	Unresolved  int     `json:"unresolved,omitempty"` // net members naming nothing
	Unplaced    int     `json:"unplaced,omitempty"`   // declared but without a location
	Overlapping int     `json:"overlapping"`          // items overlapping another item
	Pairs       int     `json:"pairs"`                // overlapping pairs

	ParseTime   time.Duration `json:"parse_ns"`
	AnalyzeTime time.Duration `json:"analyze_ns"`
	RenderTime  time.Duration `json:"render_ns"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	AnalyzeHit bool // Whether the analysis bundle came from cache
	RenderHit  bool // Whether all artifacts came from cache
}
