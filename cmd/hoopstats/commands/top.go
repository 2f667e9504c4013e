package commands

import (
	"fmt"
	"hoopstats/internal/table"
	"io"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	topN        *int
	topPerGroup *bool
	topRun      *string
)

func init() {
	topN = topCmd.Flags().IntP("count", "n", 0, "How many rows to show, defaults to top_n in the config.")
	topPerGroup = topCmd.Flags().Bool("per-team", false, "Show the best row of every team instead.")
	topRun = topCmd.Flags().String("run", "", "The run to rank, defaults to the latest.")
	rootCmd.AddCommand(topCmd)
}

var topCmd = &cobra.Command{
	Use:   "top <column> [-n <count>] [--per-team] [--run <id>]",
	Short: "Ranks players by a numeric column, ex. `hoopstats top pts -n 5`.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		t, _, err := loadRun(cmd.Context(), *topRun)
		if err != nil {
			fatal("failed to load run", err)
		}
		n := *topN
		if n <= 0 {
			n = config.TopN
		}
		err = printTop(cmd.OutOrStdout(), t, args[0], n, *topPerGroup)
		if err != nil {
			fatal("failed to rank", err)
		}
	},
}

func printTop(out io.Writer, t table.Table, name string, n int, perGroup bool) error {
	column, ok := t.ParseColumn(name)
	if !ok {
		return fmt.Errorf("unknown column %q", name)
	}

	var ranking []table.Ranked
	if perGroup {
		ranking = table.TopPerGroup(t, column)
	} else {
		ranking = table.TopN(t, column, n)
	}

	w := newTable(out)
	w.AppendHeader(prettytable.Row{"#", table.ColumnMember, table.ColumnCollection, column})
	for i, entry := range ranking {
		w.AppendRow(prettytable.Row{i + 1, entry.Member, entry.Group, table.FormatValue(entry.Value)})
	}
	w.Render()
	return nil
}
