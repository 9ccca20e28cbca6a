package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/fpviz/fpviz/pkg/history"
)

// historyCommand creates the history command.
func (c *CLI) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs",
		Long: `List recent runs, newest first.

Runs are recorded when the config file sets history, for example

  history = "mongodb://localhost:27017"
  history = "file:///home/me/.local/share/fpviz/history.jsonl"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if c.Config.History == "" {
				printInfo("History is off; set history in the config file")
				return nil
			}
			rec, err := history.Open(ctx, c.Config.History)
			if err != nil {
				return err
			}
			defer rec.Close(ctx)

			runs, err := rec.Recent(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				printInfo("No runs recorded")
				return nil
			}
			fmt.Fprintln(stdout, historyTable(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", defaultHistoryLimit, "number of runs to list")

	return cmd
}

// historyTable renders runs, one per row. Failed runs are red.
func historyTable(runs []history.Run) string {
	rows := make([][]string, len(runs))
	for i, r := range runs {
		status := "ok"
		if r.Error != "" {
			status = "failed"
		} else if r.CacheHit {
			status = iconCached
		}
		hpwl := ""
		if r.HPWL > 0 {
			hpwl = formatHPWL(r.HPWL)
		}
		rows[i] = []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Command,
			r.Name,
			strconv.Itoa(r.Blocks),
			hpwl,
			strconv.Itoa(r.Overlaps),
			r.Duration.Round(time.Millisecond).String(),
			status,
		}
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
	failedStyle := cellStyle.Foreground(colorRed)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("When", "Command", "Name", "Blocks", "HPWL", "Overlaps", "Time", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= 0 && row < len(runs) && runs[row].Error != "" {
				return failedStyle
			}
			return cellStyle
		}).
		Render()
}
