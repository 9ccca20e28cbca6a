package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fpviz/fpviz/pkg/floorplan"
	"github.com/fpviz/fpviz/pkg/geom"
	"github.com/fpviz/fpviz/pkg/overlap"
	"github.com/fpviz/fpviz/pkg/pipeline"
)

func loadMini(t *testing.T) *floorplan.Floorplan {
	t.Helper()
	dir := filepath.Join("..", "..", "pkg", "floorplan", "testdata")
	fp, err := floorplan.Load(
		filepath.Join(dir, "mini.block"),
		filepath.Join(dir, "mini.nets"),
		filepath.Join(dir, "mini.out"),
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return fp
}

func TestWriteNetReport(t *testing.T) {
	var buf bytes.Buffer
	writeNetReport(&buf, loadMini(t))

	got := buf.String()
	for _, want := range []string{"Net", "Degree", "HPWL", "Total", "145"} {
		if !strings.Contains(got, want) {
			t.Errorf("net report lacks %q:\n%s", want, got)
		}
	}
	// header, three nets, total
	if n := strings.Count(got, "\n"); n < 5 {
		t.Errorf("net report has %d lines:\n%s", n, got)
	}
}

func TestWriteOverlapReport(t *testing.T) {
	res, err := overlap.Detect([]overlap.Item{
		{Name: "a", Rect: geom.R(0, 0, 20, 20)},
		{Name: "b", Rect: geom.R(10, 10, 30, 20)},
	}, overlap.Options{Method: overlap.MethodSweep})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	var buf bytes.Buffer
	writeOverlapReport(&buf, res)
	got := buf.String()
	for _, want := range []string{"a", "b", "1 pairs", "sweep", "100"} {
		if !strings.Contains(got, want) {
			t.Errorf("overlap report lacks %q:\n%s", want, got)
		}
	}
}

func TestWriteVerifyReport(t *testing.T) {
	rep := loadMini(t).Verify(pipeline.DefaultAlpha)

	var buf bytes.Buffer
	writeVerifyReport(&buf, rep)
	got := buf.String()
	for _, want := range []string{"chip width", "wirelength", "cost (alpha 0.5)", "145"} {
		if !strings.Contains(got, want) {
			t.Errorf("verify report lacks %q:\n%s", want, got)
		}
	}
	if len(rep.Findings) == 0 && strings.Contains(got, "Severity") {
		t.Errorf("clean report printed a findings table:\n%s", got)
	}
}

func TestWriteVerifyReportFindings(t *testing.T) {
	rep := &floorplan.Report{
		Alpha: -1,
		Findings: []floorplan.Finding{
			{Severity: floorplan.SeverityError, Message: "bk1 overlaps bk2"},
			{Severity: floorplan.SeverityWarning, Message: "reported area differs"},
		},
	}
	var buf bytes.Buffer
	writeVerifyReport(&buf, rep)
	got := buf.String()
	if strings.Contains(got, "cost") {
		t.Errorf("negative alpha printed a cost row:\n%s", got)
	}
	for _, want := range []string{"bk1 overlaps bk2", "reported area differs", "error", "warning"} {
		if !strings.Contains(got, want) {
			t.Errorf("verify report lacks %q:\n%s", want, got)
		}
	}
}

func TestSummaryTable(t *testing.T) {
	res := &pipeline.Result{
		Kind:  pipeline.KindFloorplan,
		Stats: pipeline.Stats{Blocks: 3, Terminals: 2, Nets: 3, HPWL: 145, Overlapping: 2, Pairs: 1},
	}
	res.Overlap = &overlap.Result{Method: overlap.MethodGrid}

	got := summaryTable(res)
	for _, want := range []string{"Blocks", "Terminals", "Nets", "HPWL", "145", "2 blocks, 1 pairs", "Time"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary lacks %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Unplaced") {
		t.Errorf("summary shows zero Unplaced:\n%s", got)
	}
}
