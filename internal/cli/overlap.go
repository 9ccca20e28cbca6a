package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fpviz/fpviz/pkg/pipeline"
)

// overlapCommand creates the overlap command.
func (c *CLI) overlapCommand() *cobra.Command {
	var (
		rf            renderFlags
		af            analysisFlags
		report        bool
		failOnOverlap bool
	)

	cmd := &cobra.Command{
		Use:   "overlap OUTPUT",
		Short: "Check a solver output file for overlapping blocks",
		Long: `Check a solver output file for overlapping blocks and render them.

Blocks that overlap another block are filled red, the others green, and every
pairwise intersection is shaded. Touching edges do not count as overlap.

Detectors:
  grid      expands every block into integer unit cells; blocks with fractional
            coordinates that share only part of a cell are reported as
            overlapping (memory bound by --max-cells)
  sweep     sorts by x and sweeps an active set (exact)
  quadtree  indexes block centers in a quadtree (exact)`,
		Example: `  fpviz overlap ami33.out
  fpviz overlap ami49.out --method sweep --report --fail-on-overlap`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := readInputs(args...)
			if err != nil {
				return err
			}
			opts := pipeline.Options{Kind: pipeline.KindOverlap, Output: inputs[0]}
			af.apply(cmd, c.Config, &opts)
			if err := rf.apply(cmd, c.Config, &opts); err != nil {
				return err
			}

			res, err := c.execute(cmd.Context(), "overlap", opts, &rf, args)
			if err != nil {
				return err
			}

			if report && len(res.Overlap.Pairs) > 0 {
				printNewline()
				writeOverlapReport(stdout, res.Overlap)
			}
			if res.Overlap.Clean() {
				printSuccess("No overlapping blocks")
				return nil
			}
			msg := fmt.Sprintf("%d blocks overlap in %d pairs", res.Stats.Overlapping, res.Stats.Pairs)
			printWarning("%s", msg)
			if failOnOverlap {
				return &ExitError{Code: ExitOverlap, Msg: msg}
			}
			return nil
		},
	}

	rf.register(cmd)
	af.register(cmd)
	cmd.Flags().BoolVar(&report, "report", false, "print a table of overlapping pairs")
	cmd.Flags().BoolVar(&failOnOverlap, "fail-on-overlap", false, "exit with status 2 when blocks overlap")

	return cmd
}
