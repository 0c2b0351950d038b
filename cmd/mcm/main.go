package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/rn7cvj-dvfu/6-semester-mcm/internal/logging"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	noSave     bool

	logger = logging.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "mcm",
		Short:        "numerical physics lab: ODE integration, particle swarms and advection",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = logging.New(level)
			slog.SetDefault(logger)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mcm", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newRunCmd(),
		newCompareCmd(),
		newAdvectCmd(),
		newSwarmCmd(),
		newListCmd(),
		newPlotCmd(),
		newAnalyzeCmd(),
		newPhaseCmd(),
		newExportCmd(),
		newPresetsCmd(),
		newSweepCmd(),
		newScenarioCmd(),
		newSVGCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// addConfigFlags registers the flags shared by every command that builds a
// configuration.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	cmd.Flags().Int64("seed", 1, "random seed")
}
