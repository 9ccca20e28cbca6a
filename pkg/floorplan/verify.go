package floorplan

import (
	"fmt"
	"math"

	"github.com/fpviz/fpviz/pkg/geom"
	"github.com/fpviz/fpviz/pkg/overlap"
)

// Severity classifies a verification finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one problem found by [Floorplan.Verify].
type Finding struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Figures are the summary numbers of a floorplan.
type Figures struct {
	Cost       float64 `json:"cost"`
	Wirelength float64 `json:"wirelength"`
	Area       float64 `json:"area"`
	ChipWidth  float64 `json:"chip_width"`
	ChipHeight float64 `json:"chip_height"`
}

// Report is the outcome of [Floorplan.Verify].
type Report struct {
	Alpha    float64         `json:"alpha"` // cost weight; negative when the cost was not checked
	Reported Figures         `json:"reported"`
	Computed Figures         `json:"computed"`
	Findings []Finding       `json:"findings"`
	Overlaps *overlap.Result `json:"overlaps,omitempty"`
}

// OK reports whether no error-level findings were raised.
func (r *Report) OK() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Errors returns the number of error-level findings.
func (r *Report) Errors() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			n++
		}
	}
	return n
}

func (r *Report) add(s Severity, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{Severity: s, Message: fmt.Sprintf(format, args...)})
}

// Cost returns alpha*area + (1-alpha)*wirelength.
func Cost(alpha, area, wirelength float64) float64 {
	return alpha*area + (1-alpha)*wirelength
}

// Verify recomputes the solver's summary and checks the placement against the
// problem: every block placed once with its declared size (a 90° rotation is
// allowed), nothing at negative coordinates, the chip inside the outline, and
// no two blocks overlapping. Reported figures that disagree with the
// recomputed ones produce warnings. Pass a negative alpha to skip the cost
// comparison.
func (fp *Floorplan) Verify(alpha float64) *Report {
	res := fp.Result
	rep := &Report{
		Alpha: alpha,
		Reported: Figures{
			Cost:       res.Cost,
			Wirelength: res.Wirelength,
			Area:       res.Area,
			ChipWidth:  res.ChipWidth,
			ChipHeight: res.ChipHeight,
		},
	}

	chip := fp.ChipSize()
	rep.Computed = Figures{
		Wirelength: fp.TotalHPWL(),
		Area:       chip.Area(),
		ChipWidth:  chip.Width,
		ChipHeight: chip.Height,
	}
	if alpha >= 0 {
		rep.Computed.Cost = Cost(alpha, rep.Computed.Area, rep.Computed.Wirelength)
	}

	for _, b := range res.Blocks {
		decl, ok := fp.declared[b.Name]
		if !ok {
			rep.add(SeverityError, "placed block %s is not declared in the block file", b.Name)
			continue
		}
		if b.Rect.Size() != decl && !b.Rect.Rotated(decl) {
			rep.add(SeverityError, "block %s is placed as %s but declared %s", b.Name, b.Rect.Size(), decl)
		}
		if b.Rect.X0 < 0 || b.Rect.Y0 < 0 {
			rep.add(SeverityError, "block %s has negative coordinates %s", b.Name, b.Rect)
		}
	}
	for _, decl := range fp.Problem.Blocks {
		if _, ok := fp.placed[decl.Name]; !ok {
			rep.add(SeverityError, "block %s is not placed", decl.Name)
		}
	}

	outline := geom.RectFromOrigin(geom.Pt(0, 0), fp.Problem.Outline)
	if !outline.ContainsRect(geom.RectFromOrigin(geom.Pt(0, 0), chip)) {
		rep.add(SeverityError, "chip %s exceeds outline %s", chip, fp.Problem.Outline)
	}

	for _, name := range fp.Unresolved() {
		rep.add(SeverityWarning, "net member %s is neither a block nor a terminal", name)
	}

	compare := func(what string, reported, computed float64) {
		if !approxEqual(reported, computed) {
			rep.add(SeverityWarning, "reported %s %g differs from computed %g", what, reported, computed)
		}
	}
	compare("chip width", res.ChipWidth, chip.Width)
	compare("chip height", res.ChipHeight, chip.Height)
	compare("chip area", res.Area, rep.Computed.Area)
	compare("wirelength", res.Wirelength, rep.Computed.Wirelength)
	if alpha >= 0 {
		compare("cost", res.Cost, rep.Computed.Cost)
	}

	rep.Overlaps = overlap.Sweep(fp.Items())
	for _, p := range rep.Overlaps.Pairs {
		rep.add(SeverityError, "blocks %s and %s overlap in %s", p.A, p.B, p.Overlap)
	}
	return rep
}

// approxEqual compares a figure printed with six significant digits against
// its recomputed value.
func approxEqual(a, b float64) bool {
	d := math.Abs(a - b)
	return d <= 1e-6 || d <= 1e-5*math.Max(math.Abs(a), math.Abs(b))
}
