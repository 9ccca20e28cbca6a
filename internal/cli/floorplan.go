package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fpviz/fpviz/pkg/pipeline"
)

// floorplanCommand creates the floorplan command.
func (c *CLI) floorplanCommand() *cobra.Command {
	var (
		rf     renderFlags
		noNets bool
		alpha  float64
		verify bool
		strict bool
		report bool
	)

	cmd := &cobra.Command{
		Use:   "floorplan BLOCK NETS OUTPUT",
		Short: "Render a floorplan from its block, net and solver output files",
		Long: `Render a floorplan from its block, net and solver output files.

The picture shows the outline, every placed block, the terminals, and the
bounding box of each net (drawn as its bottom and right edges). Net boxes
span the block centers and terminal positions.

With --verify the solver's reported chip size, area, wirelength and cost are
recomputed and the placement is checked against the problem: every block
placed once with its declared size, inside the outline, without overlaps.`,
		Example: `  fpviz floorplan ami33.block ami33.nets ami33.out
  fpviz floorplan ami33.block ami33.nets ami33.out -f svg,png --verify --report`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := readInputs(args...)
			if err != nil {
				return err
			}
			opts := pipeline.Options{
				Kind:     pipeline.KindFloorplan,
				Block:    inputs[0],
				Nets:     inputs[1],
				Output:   inputs[2],
				HideNets: noNets,
				Verify:   verify,
				Alpha:    alpha,
			}
			if !cmd.Flags().Changed("alpha") && c.Config.Alpha != nil {
				opts.Alpha = *c.Config.Alpha
			}
			if err := rf.apply(cmd, c.Config, &opts); err != nil {
				return err
			}

			res, err := c.execute(cmd.Context(), "floorplan", opts, &rf, args)
			if err != nil {
				return err
			}

			if report {
				printNewline()
				writeNetReport(stdout, res.Floorplan)
			}
			if res.Report != nil {
				if report {
					writeVerifyReport(stdout, res.Report)
				}
				if res.Report.OK() {
					printSuccess("Floorplan verified")
				} else {
					msg := fmt.Sprintf("Verification found %d problems", res.Report.Errors())
					printWarning("%s", msg)
					if strict {
						return &ExitError{Code: ExitFindings, Msg: msg}
					}
				}
			}
			return nil
		},
	}

	rf.register(cmd)
	cmd.Flags().BoolVar(&noNets, "no-nets", false, "omit net bounding boxes")
	cmd.Flags().Float64Var(&alpha, "alpha", pipeline.DefaultAlpha, "cost weight: alpha*area + (1-alpha)*wirelength (negative skips the cost check)")
	cmd.Flags().BoolVar(&verify, "verify", false, "recompute and check the solver's results")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with status 2 when verification finds problems (with --verify)")
	cmd.Flags().BoolVar(&report, "report", false, "print per-net HPWL (and verification) tables")

	return cmd
}
