package commands

import (
	"time"

	"github.com/google/uuid"
	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	runsCmd.AddCommand(runsDeleteCmd)
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Lists every saved run, newest first.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		store, closeStore, err := openStore(cmd.Context())
		if err != nil {
			fatal("failed to open db", err)
		}
		defer closeStore()

		summaries, err := store.ListSummaries(cmd.Context())
		if err != nil {
			closeStore()
			fatal("failed to list runs", err)
		}

		w := newTable(cmd.OutOrStdout())
		w.AppendHeader(prettytable.Row{"id", "started", "members", "with career", "skipped"})
		for _, summary := range summaries {
			w.AppendRow(prettytable.Row{
				summary.RunID,
				summary.StartedAt.Format(time.DateTime),
				summary.Members,
				summary.WithCareer,
				summary.Skipped(),
			})
		}
		w.Render()
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Deletes a saved run.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runID, err := uuid.Parse(args[0])
		if err != nil {
			fatal("invalid run id", err)
		}
		store, closeStore, err := openStore(cmd.Context())
		if err != nil {
			fatal("failed to open db", err)
		}
		defer closeStore()

		err = store.DeleteRun(cmd.Context(), runID)
		if err != nil {
			closeStore()
			fatal("failed to delete run", err)
		}
	},
}
