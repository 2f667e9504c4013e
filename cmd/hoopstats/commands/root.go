package commands

import (
	"context"
	"fmt"
	"hoopstats/internal/components/telemetry"
	configlibsql "hoopstats/lib/configutil/libsql"
	libtelemetry "hoopstats/lib/telemetry"
	"hoopstats/lib/util/serviceutil"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	configName *string
	verbose    *bool
	dbFile     *string
)

// set by the root command before any subcommand runs
var (
	config   Config
	tel      telemetry.API = telemetry.SlogAPI{}
	otelStop func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:          "hoopstats",
	Short:        "hoopstats scrapes nba rosters and career stats into one table and summarizes it.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		libtelemetry.InitSlog(*verbose)

		cfg, err := LoadConfig(*configName)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if *dbFile != "" {
			cfg.Database = configlibsql.Struct{File: *dbFile}
		}
		config = cfg

		t, err := libtelemetry.SetupFromEnv(cmd.Context(), "hoopstats")
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}
		otelStop = t.Shutdown
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdownTelemetry()
	},
}

func shutdownTelemetry() {
	if otelStop == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := otelStop(ctx)
	otelStop = nil
	if err != nil {
		slog.Warn("failed to shutdown telemetry", "err", err)
	}
}

// fatal flushes telemetry before exiting, deferred calls of the caller do not
// run.
func fatal(message string, err error) {
	shutdownTelemetry()
	serviceutil.Fatal(message, err)
}

func init() {
	configName = rootCmd.PersistentFlags().String("config", "hoopstats.json5", "The config file, searched for from the cwd upwards.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logs.")
	dbFile = rootCmd.PersistentFlags().String("db", "", "The sqlite database file, overrides the config.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
