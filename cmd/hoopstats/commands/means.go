package commands

import (
	"fmt"
	"hoopstats/internal/table"
	"io"
	"strings"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	meansBy      *string
	meansColumns *string
	meansRun     *string
)

func init() {
	meansBy = meansCmd.Flags().String("by", table.ColumnCollection, "The column to group by.")
	meansColumns = meansCmd.Flags().String("columns", "", "Comma separated columns to show, defaults to every numeric column.")
	meansRun = meansCmd.Flags().String("run", "", "The run to summarize, defaults to the latest.")
	rootCmd.AddCommand(meansCmd)
}

var meansCmd = &cobra.Command{
	Use:   "means [--by <column>] [--columns <a,b,c>] [--run <id>]",
	Short: "Shows the mean of every numeric column per group.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		t, _, err := loadRun(cmd.Context(), *meansRun)
		if err != nil {
			fatal("failed to load run", err)
		}
		err = printMeans(cmd.OutOrStdout(), t, *meansBy, *meansColumns)
		if err != nil {
			fatal("failed to compute means", err)
		}
	},
}

func parseColumns(t table.Table, list string) ([]string, error) {
	var columns []string
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		column, ok := t.ParseColumn(name)
		if !ok {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		columns = append(columns, column)
	}
	return columns, nil
}

func printMeans(out io.Writer, t table.Table, by, columnList string) error {
	groupKey, ok := t.ParseColumn(by)
	if !ok {
		return fmt.Errorf("unknown column %q", by)
	}
	means := table.ComputeGroupMeans(t, groupKey)

	columns := means.Columns
	if columnList != "" {
		var err error
		columns, err = parseColumns(t, columnList)
		if err != nil {
			return err
		}
	}

	w := newTable(out)
	header := prettytable.Row{groupKey, "rows"}
	for _, column := range columns {
		header = append(header, column)
	}
	w.AppendHeader(header)

	for _, group := range means.Groups {
		row := prettytable.Row{group.Group, group.Rows}
		for _, column := range columns {
			mean, ok := group.Means[column]
			if !ok {
				row = append(row, "-")
				continue
			}
			row = append(row, formatFloat(mean))
		}
		w.AppendRow(row)
	}
	w.Render()
	return nil
}
