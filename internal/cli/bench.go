package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wesleyorama2/hotprof/internal/bench"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure the cost of a profiler logging call",
	Long: `Time LogEvent, LogData and a LogEnter/LogLeave pair in a tight loop and
print the latency distribution of each call.

Examples:
  hotprof bench
  hotprof bench --calls 1000000 --interval 10ms
  hotprof bench --json`,
	RunE: runBench,
}

func runBench(cmd *cobra.Command, args []string) error {
	calls, _ := cmd.Flags().GetInt("calls")
	intervalStr, _ := cmd.Flags().GetString("interval")
	asJSON, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	cfg := bench.DefaultConfig()
	cfg.Calls = calls
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return fmt.Errorf("invalid interval %q: %w", intervalStr, err)
		}
		cfg.Interval = d
	}

	logger.Debug("bench starting", zap.Int("calls", cfg.Calls), zap.Duration("interval", cfg.Interval))

	results, err := bench.Run(cfg)
	if err != nil {
		return err
	}

	if asJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling results: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	outputBenchResults(cmd.OutOrStdout(), results, noColor)
	return nil
}

// outputBenchResults prints one latency block per operation.
func outputBenchResults(w io.Writer, results []bench.Result, noColor bool) {
	header := color.New(color.FgCyan, color.Bold)
	if noColor {
		header.DisableColor()
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "="+strings.Repeat("=", 59))
	fmt.Fprintln(w, header.Sprint(" Profiler Call Overhead"))
	fmt.Fprintln(w, "="+strings.Repeat("=", 59))

	for _, r := range results {
		title := fmt.Sprintf("─── %s ", r.Operation)
		fmt.Fprintln(w)
		fmt.Fprintln(w, title+strings.Repeat("─", max(0, 60-len([]rune(title)))))
		fmt.Fprintf(w, "  Calls:    %d\n", r.Calls)
		fmt.Fprintf(w, "  Reports:  %d\n", r.Reports)
		fmt.Fprintf(w, "  Min:      %s\n", r.Min)
		fmt.Fprintf(w, "  Mean:     %s\n", r.Mean)
		fmt.Fprintf(w, "  P50:      %s\n", r.P50)
		fmt.Fprintf(w, "  P90:      %s\n", r.P90)
		fmt.Fprintf(w, "  P99:      %s\n", r.P99)
		fmt.Fprintf(w, "  Max:      %s\n", r.Max)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "="+strings.Repeat("=", 59))
}

func init() {
	benchCmd.Flags().Int("calls", 100_000, "Measured calls per operation")
	benchCmd.Flags().String("interval", "1500ms", "Profiler report interval")
	benchCmd.Flags().Bool("json", false, "Print results as JSON")
	benchCmd.Flags().Bool("no-color", false, "Disable colored output")
}
