package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fpviz/fpviz/pkg/pipeline"
)

// viewCommand creates the view command and its per-kind subcommands.
func (c *CLI) viewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse a floorplan, overlap check or placement in the terminal",
		Long: `Browse a floorplan, overlap check or placement in the terminal.

Keys:
  arrows, hjkl   pan
  + -            zoom in and out
  0              reset the view
  t n o          toggle labels, nets and overlap shading
  q              quit`,
	}

	cmd.AddCommand(c.viewKindCommand(pipeline.KindFloorplan, "BLOCK NETS OUTPUT", 3))
	cmd.AddCommand(c.viewKindCommand(pipeline.KindOverlap, "OUTPUT", 1))
	cmd.AddCommand(c.viewKindCommand(pipeline.KindPlacement, "NODES PL", 2))

	return cmd
}

func (c *CLI) viewKindCommand(kind pipeline.Kind, args string, nargs int) *cobra.Command {
	var (
		af      analysisFlags
		window  string
		overlap bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   string(kind) + " " + args,
		Short: fmt.Sprintf("Browse a %s", kind),
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			inputs, err := readInputs(args...)
			if err != nil {
				return err
			}
			opts := optionsFor(kind, inputs)
			opts.Window = window
			opts.PlacementOverlap = overlap
			opts.Colors = c.Config.Colors
			af.apply(cmd, c.Config, &opts)

			runner := c.newRunner(ctx, noCache)
			defer runner.Close()

			spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Loading %s...", inputs[0].Name))
			spinner.Start()
			res, err := runner.Analyze(ctx, opts)
			spinner.Stop()
			if err != nil {
				return err
			}

			m := NewSceneModel(res.Scene, strings.Join(statParts(res), " · "))
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	af.register(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	if kind == pipeline.KindPlacement {
		cmd.Flags().StringVar(&window, "window", "auto", "view window: auto, a preset, or x0,y0,x1,y1")
		cmd.Flags().BoolVar(&overlap, "overlap", false, "color nodes by overlap")
	}
	return cmd
}

// optionsFor assigns inputs, in command-line order, to the fields kind reads.
func optionsFor(kind pipeline.Kind, inputs []pipeline.Input) pipeline.Options {
	opts := pipeline.Options{Kind: kind}
	switch kind {
	case pipeline.KindFloorplan:
		opts.Block, opts.Nets, opts.Output = inputs[0], inputs[1], inputs[2]
	case pipeline.KindOverlap:
		opts.Output = inputs[0]
	case pipeline.KindPlacement:
		opts.Nodes, opts.PL = inputs[0], inputs[1]
	}
	return opts
}
