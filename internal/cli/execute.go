package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fpviz/fpviz/pkg/errors"
	"github.com/fpviz/fpviz/pkg/history"
	"github.com/fpviz/fpviz/pkg/pipeline"
)

// execute runs opts through a pipeline runner, writes the artifacts next to
// paths[0] (or to output), records the run in the history and prints a
// summary.
func (c *CLI) execute(ctx context.Context, command string, opts pipeline.Options, rf *renderFlags, paths []string) (*pipeline.Result, error) {
	runner := c.newRunner(ctx, rf.noCache)
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)
	run := history.NewRun(command, paths...)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", filepath.Base(paths[0])))
	spinner.Start()

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("%s failed: %s", command, errors.UserMessage(err)))
		run.Error = err.Error()
		run.Duration = prog.elapsed()
		c.record(ctx, run)
		return nil, err
	}
	spinner.Stop()

	written, err := writeArtifacts(res.Artifacts, opts.Formats, paths[0], rf.output)
	if err != nil {
		return nil, err
	}

	run.Name = res.Name
	run.Outputs = written
	run.Blocks = res.Stats.Blocks
	run.Nets = res.Stats.Nets
	run.HPWL = res.Stats.HPWL
	run.Overlaps = res.Stats.Overlapping
	if res.Report != nil {
		run.Findings = res.Report.Errors()
	}
	run.CacheHit = res.CacheInfo.AnalyzeHit && res.CacheInfo.RenderHit
	run.Duration = prog.elapsed()
	c.record(ctx, run)

	printSuccess("Rendered %s", StyleHighlight.Render(res.Name))
	printWritten(written)
	printStats(run.CacheHit, statParts(res)...)
	fmt.Fprintln(stdout, summaryTable(res))
	printNextStep("Browse it", appName+" view "+command+" "+strings.Join(paths, " "))

	prog.done("done", "command", command, "formats", strings.Join(opts.Formats, ","))
	return res, nil
}

// statParts lists the headline counts of a result.
func statParts(res *pipeline.Result) []string {
	parts := []string{fmt.Sprintf("%d blocks", res.Stats.Blocks)}
	if res.Stats.Nets > 0 {
		parts = append(parts, fmt.Sprintf("%d nets", res.Stats.Nets))
	}
	if res.Overlap != nil {
		parts = append(parts, fmt.Sprintf("%d overlapping", res.Stats.Overlapping))
	}
	return parts
}
