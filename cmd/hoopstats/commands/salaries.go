package commands

import (
	"hoopstats/internal/table"
	"io"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const salaryColumn = "salary"

var salariesRun *string

func init() {
	salariesRun = salariesCmd.Flags().String("run", "", "The run to report on, defaults to the latest.")
	rootCmd.AddCommand(salariesCmd)
}

var salariesCmd = &cobra.Command{
	Use:   "salaries [--run <id>]",
	Short: "Shows every team's average salary, lowest first, along with its highest paid player.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		t, _, err := loadRun(cmd.Context(), *salariesRun)
		if err != nil {
			fatal("failed to load run", err)
		}
		printSalaries(cmd.OutOrStdout(), t)
	},
}

func printSalaries(out io.Writer, t table.Table) {
	w := newTable(out)
	w.AppendHeader(prettytable.Row{"team", "average salary", "highest paid", "salary"})
	for _, report := range table.ReportByGroup(t, salaryColumn) {
		w.AppendRow(prettytable.Row{
			report.Group,
			formatFloat(report.Mean),
			report.Top.Member,
			table.FormatValue(report.Top.Value),
		})
	}
	w.Render()
}
