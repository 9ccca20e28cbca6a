package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/markkurossi/tabulate"

	"github.com/fpviz/fpviz/pkg/floorplan"
	"github.com/fpviz/fpviz/pkg/overlap"
	"github.com/fpviz/fpviz/pkg/pipeline"
)

// =============================================================================
// Summary (lipgloss)
// =============================================================================

// summaryTable renders the counts and timings of a run as a two-column table.
func summaryTable(res *pipeline.Result) string {
	st := res.Stats
	rows := [][]string{{"Blocks", strconv.Itoa(st.Blocks)}}
	if st.Terminals > 0 {
		rows = append(rows, []string{"Terminals", strconv.Itoa(st.Terminals)})
	}
	if res.Kind == pipeline.KindFloorplan {
		rows = append(rows,
			[]string{"Nets", strconv.Itoa(st.Nets)},
			[]string{"HPWL", formatHPWL(st.HPWL)})
	}
	if res.Overlap != nil {
		rows = append(rows, []string{"Overlapping", fmt.Sprintf("%d blocks, %d pairs", st.Overlapping, st.Pairs)})
	}
	if st.Unresolved > 0 {
		rows = append(rows, []string{"Unresolved", strconv.Itoa(st.Unresolved)})
	}
	if st.Unplaced > 0 {
		rows = append(rows, []string{"Unplaced", strconv.Itoa(st.Unplaced)})
	}
	rows = append(rows, []string{"Time", (st.ParseTime + st.AnalyzeTime + st.RenderTime).Round(time.Millisecond).String()})

	keyStyle := lipgloss.NewStyle().Foreground(colorGray).PaddingRight(1)
	valueStyle := lipgloss.NewStyle().Foreground(colorWhite).PaddingLeft(1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return keyStyle
			}
			if row >= 0 && row < len(rows) && rows[row][0] == "Overlapping" && st.Pairs > 0 {
				return valueStyle.Foreground(colorRed)
			}
			return valueStyle
		})
	return t.Render()
}

// =============================================================================
// Detail Reports (tabulate)
// =============================================================================

// writeNetReport prints the bounding box and HPWL of every net.
func writeNetReport(w io.Writer, fp *floorplan.Floorplan) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Net").SetAlign(tabulate.MR)
	tab.Header("Degree").SetAlign(tabulate.MR)
	tab.Header("Box").SetAlign(tabulate.ML)
	tab.Header("HPWL").SetAlign(tabulate.MR)

	for i, n := range fp.Problem.Nets {
		row := tab.Row()
		row.Column(strconv.Itoa(i))
		row.Column(strconv.Itoa(n.Degree()))
		if box, ok := fp.NetBox(n); ok {
			row.Column(box.String())
			row.Column(formatHPWL(box.HalfPerimeter()))
		} else {
			row.Column("-").SetFormat(tabulate.FmtItalic)
			row.Column("0")
		}
	}
	row := tab.Row()
	row.Column("Total").SetFormat(tabulate.FmtBold)
	row.Column("")
	row.Column("")
	row.Column(formatHPWL(fp.TotalHPWL())).SetFormat(tabulate.FmtBold)

	tab.Print(w)
}

// writeOverlapReport prints every overlapping pair and its intersection.
func writeOverlapReport(w io.Writer, res *overlap.Result) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Block").SetAlign(tabulate.ML)
	tab.Header("Block").SetAlign(tabulate.ML)
	tab.Header("Intersection").SetAlign(tabulate.ML)
	tab.Header("Area").SetAlign(tabulate.MR)

	var total float64
	for _, p := range res.Pairs {
		row := tab.Row()
		row.Column(p.A)
		row.Column(p.B)
		row.Column(p.Overlap.String())
		row.Column(formatHPWL(p.Overlap.Area()))
		total += p.Overlap.Area()
	}
	row := tab.Row()
	row.Column(fmt.Sprintf("%d pairs", len(res.Pairs))).SetFormat(tabulate.FmtBold)
	row.Column("")
	row.Column(string(res.Method))
	row.Column(formatHPWL(total)).SetFormat(tabulate.FmtBold)

	tab.Print(w)
}

// writeVerifyReport prints the reported and recomputed figures followed by
// the findings.
func writeVerifyReport(w io.Writer, rep *floorplan.Report) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Figure").SetAlign(tabulate.ML)
	tab.Header("Reported").SetAlign(tabulate.MR)
	tab.Header("Computed").SetAlign(tabulate.MR)

	figures := []struct {
		name               string
		reported, computed float64
	}{
		{"chip width", rep.Reported.ChipWidth, rep.Computed.ChipWidth},
		{"chip height", rep.Reported.ChipHeight, rep.Computed.ChipHeight},
		{"area", rep.Reported.Area, rep.Computed.Area},
		{"wirelength", rep.Reported.Wirelength, rep.Computed.Wirelength},
	}
	if rep.Alpha >= 0 {
		figures = append(figures, struct {
			name               string
			reported, computed float64
		}{fmt.Sprintf("cost (alpha %g)", rep.Alpha), rep.Reported.Cost, rep.Computed.Cost})
	}
	for _, f := range figures {
		row := tab.Row()
		row.Column(f.name)
		row.Column(strconv.FormatFloat(f.reported, 'g', -1, 64))
		row.Column(strconv.FormatFloat(f.computed, 'g', -1, 64))
	}
	tab.Print(w)

	if len(rep.Findings) == 0 {
		return
	}
	findings := tabulate.New(tabulate.UnicodeLight)
	findings.Header("Severity").SetAlign(tabulate.ML)
	findings.Header("Finding").SetAlign(tabulate.ML)
	for _, f := range rep.Findings {
		row := findings.Row()
		if f.Severity == floorplan.SeverityError {
			row.Column(string(f.Severity)).SetFormat(tabulate.FmtBold)
		} else {
			row.Column(string(f.Severity))
		}
		row.Column(f.Message)
	}
	findings.Print(w)
}
