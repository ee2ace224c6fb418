package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wesleyorama2/hotprof/internal/logging"
)

var version = "0.1.0"

// logger is built from the persistent flags before any subcommand runs.
var logger = zap.NewNop()

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "hotprof",
	Short:   "Rate-gated throughput and utilization profiling for hot code paths",
	Version: version,
	Long: `hotprof measures events/sec, data/sec and busy vs idle time of
instrumented code while keeping the cost of reporting bounded: a report is
produced at most once per interval, however often the code path runs.

The demo command runs sample workloads under the profilers; the bench
command measures what a single logging call costs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		file, _ := cmd.Flags().GetString("log-file")

		logger = logging.New(logging.Options{
			Level:      level,
			File:       file,
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
			Writer:     cmd.ErrOrStderr(),
		})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print help
		_ = cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

func init() {
	RootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	RootCmd.PersistentFlags().String("log-file", "", "Write logs to this file (rotated) instead of stderr")

	RootCmd.AddCommand(demoCmd)
	RootCmd.AddCommand(benchCmd)
}
