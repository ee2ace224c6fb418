package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wesleyorama2/hotprof/internal/config"
	"github.com/wesleyorama2/hotprof/internal/demo"
	"github.com/wesleyorama2/hotprof/internal/logging"
	"github.com/wesleyorama2/hotprof/profiler"
	"github.com/wesleyorama2/hotprof/report"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run sample workloads under the profilers",
	Long: `Run two instrumented workloads (about 2ms and 6ms of work per call) in a
loop. Each workload has a method profiler and a data profiler, and the loop
has an event profiler. Reports are printed at most once per interval.

Defaults:
  hotprof demo

From a configuration file:
  hotprof demo --config demo.yaml

Paced, as JSON log lines, with Prometheus gauges:
  hotprof demo --rate 100 --format json --metrics-addr :9100`,
	RunE: runDemo,
}

// runDemo runs the demo workloads
func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := demoConfig(cmd)
	if err != nil {
		return err
	}

	interval, _ := cfg.IntervalDuration()

	specs := make([]demo.Spec, 0, len(cfg.Workloads))
	for _, w := range cfg.Workloads {
		work, _ := w.WorkDuration()
		specs = append(specs, demo.Spec{Name: w.Name, Work: work, Bytes: w.Bytes})
	}

	log := logger
	if cfg.Log.File != "" && !cmd.Flags().Changed("log-file") {
		log = logging.New(logging.Options{
			Level:      cfg.Log.Level,
			File:       cfg.Log.File,
			MaxSize:    cfg.Log.Rotation.MaxSize,
			MaxBackups: cfg.Log.Rotation.MaxBackups,
			MaxAge:     cfg.Log.Rotation.MaxAge,
			Compress:   cfg.Log.Rotation.Compress,
		})
		defer func() { _ = log.Sync() }()
	}

	sinks, err := demoSinks(cmd, cfg)
	if err != nil {
		return err
	}

	var server *http.Server
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		prom, err := report.NewPrometheus(reg, "hotprof")
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		sinks = withPrometheus(sinks, prom)
		server = serveMetrics(cfg.MetricsAddr, reg, log)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		}()
	}

	runner, err := demo.NewRunner(demo.Config{
		Interval:  interval,
		Rate:      cfg.Rate,
		Workloads: specs,
		Sinks:     sinks,
	})
	if err != nil {
		return fmt.Errorf("error creating demo: %w", err)
	}

	log.Info("demo starting",
		zap.Int("iterations", cfg.Iterations),
		zap.Duration("interval", interval),
		zap.Float64("rate", cfg.Rate),
		zap.Int("workloads", len(specs)),
	)
	for _, w := range runner.Workloads() {
		log.Debug("workload ready", zap.String("profiler", w.Name()))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	res, err := runner.Run(ctx, cfg.Iterations)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	log.Info("demo finished",
		zap.Int("iterations", res.Iterations),
		zap.Duration("elapsed", res.Elapsed),
	)

	if cfg.Format == "text" {
		summary := color.New(color.FgGreen, color.Bold)
		if cfg.NoColor {
			summary.DisableColor()
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d iterations in %v\n",
			summary.Sprint("done:"), res.Iterations, res.Elapsed.Round(time.Millisecond))
	}

	return nil
}

// demoConfig loads the config file (or defaults) and applies flag overrides.
func demoConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("iterations") {
		cfg.Iterations, _ = flags.GetInt("iterations")
	}
	if flags.Changed("interval") {
		cfg.Interval, _ = flags.GetString("interval")
	}
	if flags.Changed("rate") {
		cfg.Rate, _ = flags.GetFloat64("rate")
	}
	if flags.Changed("format") {
		cfg.Format, _ = flags.GetString("format")
	}
	if flags.Changed("no-color") {
		cfg.NoColor, _ = flags.GetBool("no-color")
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr, _ = flags.GetString("metrics-addr")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// demoSinks builds the console or zap sinks selected by cfg.Format.
func demoSinks(cmd *cobra.Command, cfg *config.Config) (demo.Sinks, error) {
	switch cfg.Format {
	case "text":
		console := report.NewConsole(report.ConsoleConfig{
			Writer:     cmd.OutOrStdout(),
			NoColor:    cfg.NoColor,
			GroupEvery: cfg.GroupEvery,
		})
		return demo.Sinks{
			Events: func(name string) profiler.RateSink {
				return profiler.BindRateSink(console.Reporter(name), (*report.ConsoleReporter).Events)
			},
			Data: func(name string) profiler.RateSink {
				return profiler.BindRateSink(console.Reporter(name+"/data"), (*report.ConsoleReporter).Data)
			},
			Usage: func(name string) profiler.UsageSink {
				return profiler.BindUsageSink(console.Reporter(name), (*report.ConsoleReporter).Usage)
			},
		}, nil

	case "json":
		reportLog := logging.New(logging.Options{Level: "info", Writer: cmd.OutOrStdout()})
		return demo.Sinks{
			Events: func(name string) profiler.RateSink {
				return profiler.BindRateSink(report.NewLogger(reportLog, name), (*report.Logger).Events)
			},
			Data: func(name string) profiler.RateSink {
				return profiler.BindRateSink(report.NewLogger(reportLog, name), (*report.Logger).Data)
			},
			Usage: func(name string) profiler.UsageSink {
				return profiler.BindUsageSink(report.NewLogger(reportLog, name), (*report.Logger).Usage)
			},
		}, nil

	default:
		return demo.Sinks{}, fmt.Errorf("unknown format %q", cfg.Format)
	}
}

// withPrometheus adds Prometheus gauges next to the existing sinks.
func withPrometheus(s demo.Sinks, prom *report.Prometheus) demo.Sinks {
	return demo.Sinks{
		Events: func(name string) profiler.RateSink {
			return demo.TeeRate(s.Events(name), profiler.BindRateSink(prom.Reporter(name), (*report.PrometheusReporter).Events))
		},
		Data: func(name string) profiler.RateSink {
			return demo.TeeRate(s.Data(name), profiler.BindRateSink(prom.Reporter(name), (*report.PrometheusReporter).Data))
		},
		Usage: func(name string) profiler.UsageSink {
			return demo.TeeUsage(s.Usage(name), profiler.BindUsageSink(prom.Reporter(name), (*report.PrometheusReporter).Usage))
		},
	}
}

// serveMetrics exposes reg on addr in the background.
func serveMetrics(addr string, reg *prometheus.Registry, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("serving metrics", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()

	return server
}

func init() {
	demoCmd.Flags().StringP("config", "c", "", "Configuration file (YAML or JSON)")
	demoCmd.Flags().Int("iterations", 1000, "Loop iterations")
	demoCmd.Flags().String("interval", "1500ms", "Report interval (e.g., 1500ms, 2s)")
	demoCmd.Flags().Float64("rate", 0, "Loop iterations per second (0 = unpaced)")
	demoCmd.Flags().String("format", "text", "Report format (text, json)")
	demoCmd.Flags().Bool("no-color", false, "Disable colored output")
	demoCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g., :9100)")
}
