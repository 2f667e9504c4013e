package commands

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var exportRun *string

func init() {
	exportRun = exportCmd.Flags().String("run", "", "The run to export, defaults to the latest.")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <path/to/table.csv> [--run <id>]",
	Short: "Writes the table of a saved run to a csv file.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		t, summary, err := loadRun(cmd.Context(), *exportRun)
		if err != nil {
			fatal("failed to load run", err)
		}
		err = writeCSVFile(args[0], t)
		if err != nil {
			fatal("failed to write csv", err)
		}
		slog.Info("exported run", "run", summary.RunID, "rows", len(t.Rows), "path", args[0])
	},
}
