package commands

import (
	"fmt"
	"hoopstats/internal/lookup"
	"hoopstats/internal/table"
	"io"
	"strings"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var lookupRun *string

func init() {
	lookupRun = lookupCmd.Flags().String("run", "", "The run to search, defaults to the latest.")
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <name...> [--run <id>]",
	Short: "Shows a player's row, or the closest names when there isn't an exact match.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		t, _, err := loadRun(cmd.Context(), *lookupRun)
		if err != nil {
			fatal("failed to load run", err)
		}
		printLookup(cmd.OutOrStdout(), t, strings.Join(args, " "))
	},
}

func printLookup(out io.Writer, t table.Table, query string) {
	matches := lookup.Find(query, t.Members(), 5)
	if len(matches) == 0 {
		fmt.Fprintf(out, "no player matches %q\n", query)
		return
	}

	if matches[0].Similarity < 1 {
		fmt.Fprintf(out, "no exact match for %q, did you mean:\n", query)
		w := newTable(out)
		w.AppendHeader(prettytable.Row{table.ColumnMember, "similarity"})
		for _, match := range matches {
			w.AppendRow(prettytable.Row{match.Member, formatFloat(match.Similarity * 100)})
		}
		w.Render()
		return
	}

	for _, match := range matches {
		row, _ := t.Find(match.Member)
		w := newTable(out)
		w.SetTitle(match.Member)
		for _, column := range t.Columns() {
			value := t.Value(row, column)
			if value == nil {
				continue
			}
			w.AppendRow(prettytable.Row{column, table.FormatValue(value)})
		}
		w.Render()
	}
}
