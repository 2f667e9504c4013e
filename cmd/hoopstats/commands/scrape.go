package commands

import (
	"context"
	"fmt"
	"hoopstats/internal/components/chrono"
	"hoopstats/internal/pipeline"
	"hoopstats/internal/scrapers/espn"
	"hoopstats/internal/table"
	"hoopstats/lib/restyutil"
	libtelemetry "hoopstats/lib/telemetry"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	scrapeCsv    *string
	scrapeRecord *string
	scrapeNoSave *bool
)

func init() {
	scrapeCsv = scrapeCmd.Flags().String("csv", "", "Also write the table to this csv file.")
	scrapeRecord = scrapeCmd.Flags().String("record", "", "Write every http exchange into this directory.")
	scrapeNoSave = scrapeCmd.Flags().Bool("no-save", false, "Do not write the run to the database.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--csv <path/to/table.csv>] [--record <dir>] [--no-save]",
	Short: "Scrapes every team's roster and every player's career stats and saves the table.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		err := runScrape(cmd.Context(), scrapeOptions{
			csv:    *scrapeCsv,
			record: *scrapeRecord,
			noSave: *scrapeNoSave,
		}, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			fatal("scrape failed", err)
		}
	},
}

type scrapeOptions struct {
	csv    string
	record string
	noSave bool
}

// runScrape returns every error instead of exiting so the store is closed
// before the process exits.
func runScrape(ctx context.Context, opts scrapeOptions, out, errOut io.Writer) error {
	clientOpts := config.ClientOptions()
	if opts.record != "" {
		output, err := restyutil.NewFilesystemOutput(opts.record)
		if err != nil {
			return fmt.Errorf("create record directory: %w", err)
		}
		clientOpts.Output = output
	}
	client := espn.NewClient(clientOpts, tel)
	scraper := espn.NewScraper(client, config.Endpoints, tel)

	policy, err := pipeline.ParseCollisionPolicy(config.CollisionPolicy)
	if err != nil {
		return err
	}
	clock, err := chrono.NewStandardImpl(config.TimeZone)
	if err != nil {
		return fmt.Errorf("time zone: %w", err)
	}

	libtelemetry.InstrumentPerfStats(ctx, 30*time.Second)

	t1 := time.Now()
	result, err := pipeline.New(scraper, pipeline.Options{
		CollisionPolicy: policy,
		Chrono:          clock,
	}, tel).Run(ctx)
	if err != nil {
		return err
	}
	slog.Info("scraping time", "seconds", time.Since(t1).Seconds())

	if !opts.noSave {
		store, closeStore, err := openStore(ctx)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer closeStore()
		err = store.SaveRun(ctx, result)
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
	}

	if opts.csv != "" {
		err := writeCSVFile(opts.csv, result.Table)
		if err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}

	printSummary(out, result.Summary)
	for _, failure := range result.Failures {
		fmt.Fprintf(errOut, "nulled %s of %s: %v\n", failure.Field, failure.Member, failure.Err)
	}
	return nil
}

func writeCSVFile(path string, t table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	table.WriteCSV(f, t)
	return f.Close()
}
