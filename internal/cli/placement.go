package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fpviz/fpviz/pkg/pipeline"
	"github.com/fpviz/fpviz/pkg/placement"
)

// placementCommand creates the placement command.
func (c *CLI) placementCommand() *cobra.Command {
	var (
		rf      renderFlags
		af      analysisFlags
		window  string
		overlap bool
		report  bool
	)

	cmd := &cobra.Command{
		Use:   "placement NODES PL",
		Short: "Render a Bookshelf placement from its .nodes and .pl files",
		Long: `Render a Bookshelf placement from its .nodes and .pl files.

Every node with a location is drawn; nodes the .pl file does not place are
skipped and counted. The view window defaults to the extent of the placed
nodes and can be fixed with --window:

  auto           fit the placed nodes
  ` + strings.Join(presetNames(), ", ") + `       a named benchmark window
  x0,y0,x1,y1    an explicit window

With --overlap nodes are colored by whether they overlap another node.`,
		Example: `  fpviz placement adaptec1.nodes adaptec1.pl -f png
  fpviz placement adaptec1.nodes adaptec1.pl --window adaptec1 --overlap --method sweep`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := readInputs(args...)
			if err != nil {
				return err
			}
			opts := pipeline.Options{
				Kind:             pipeline.KindPlacement,
				Nodes:            inputs[0],
				PL:               inputs[1],
				Window:           window,
				PlacementOverlap: overlap,
			}
			af.apply(cmd, c.Config, &opts)
			if err := rf.apply(cmd, c.Config, &opts); err != nil {
				return err
			}

			res, err := c.execute(cmd.Context(), "placement", opts, &rf, args)
			if err != nil {
				return err
			}

			if res.Stats.Unplaced > 0 {
				printDetail("%d nodes have no location", res.Stats.Unplaced)
			}
			if res.Stats.Unresolved > 0 {
				printWarning("%d .pl entries name unknown nodes", res.Stats.Unresolved)
			}
			if res.Overlap != nil {
				if report && len(res.Overlap.Pairs) > 0 {
					printNewline()
					writeOverlapReport(stdout, res.Overlap)
				}
				if !res.Overlap.Clean() {
					printWarning("%d nodes overlap in %d pairs", res.Stats.Overlapping, res.Stats.Pairs)
				}
			}
			return nil
		},
	}

	rf.register(cmd)
	af.register(cmd)
	cmd.Flags().StringVar(&window, "window", "auto", "view window: auto, a preset, or x0,y0,x1,y1")
	cmd.Flags().BoolVar(&overlap, "overlap", false, "color nodes by overlap")
	cmd.Flags().BoolVar(&report, "report", false, "print a table of overlapping pairs (with --overlap)")

	return cmd
}

// presetNames lists the named windows in sorted order.
func presetNames() []string {
	names := make([]string, 0, len(placement.Windows))
	for name := range placement.Windows {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
