// Package bench measures how much a profiler logging call costs the code
// path it instruments.
package bench

import (
	"fmt"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/jonboulle/clockwork"

	"github.com/wesleyorama2/hotprof/profiler"
)

// Config contains configuration for an overhead run.
type Config struct {
	// Calls is the number of measured calls per operation (default: 100000)
	Calls int

	// Interval is the profilers' report interval. It must be positive;
	// DefaultConfig sets profiler.DefaultInterval.
	Interval time.Duration

	// HistogramMax is the largest recordable latency in nanoseconds (default: 1s)
	HistogramMax int64

	// HistogramSigFigs is the number of significant figures (default: 3)
	HistogramSigFigs int

	// Clock times each call (default: real clock)
	Clock clockwork.Clock
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Calls:            100_000,
		Interval:         profiler.DefaultInterval,
		HistogramMax:     int64(time.Second),
		HistogramSigFigs: 3,
	}
}

// Result contains the latency distribution of one operation.
type Result struct {
	Operation string        `json:"operation"`
	Calls     int64         `json:"calls"`
	Reports   uint64        `json:"reports"` // Sink invocations during the run
	Min       time.Duration `json:"min"`
	Mean      time.Duration `json:"mean"`
	P50       time.Duration `json:"p50"`
	P90       time.Duration `json:"p90"`
	P99       time.Duration `json:"p99"`
	Max       time.Duration `json:"max"`
}

// recorder wraps an HDR histogram of nanosecond latencies.
type recorder struct {
	hist  *hdrhistogram.Histogram
	max   int64
	clock clockwork.Clock
}

func (r *recorder) time(fn func()) {
	start := r.clock.Now()
	fn()
	ns := int64(r.clock.Since(start))

	// Clamp to valid range
	if ns < 1 {
		ns = 1
	}
	if ns > r.max {
		ns = r.max
	}
	_ = r.hist.RecordValue(ns)
}

func (r *recorder) result(op string, reports uint64) Result {
	return Result{
		Operation: op,
		Calls:     r.hist.TotalCount(),
		Reports:   reports,
		Min:       time.Duration(r.hist.Min()),
		Mean:      time.Duration(r.hist.Mean()),
		P50:       time.Duration(r.hist.ValueAtQuantile(50)),
		P90:       time.Duration(r.hist.ValueAtQuantile(90)),
		P99:       time.Duration(r.hist.ValueAtQuantile(99)),
		Max:       time.Duration(r.hist.Max()),
	}
}

// Run measures LogEvent, LogData and a LogEnter/LogLeave pair.
func Run(cfg Config) ([]Result, error) {
	def := DefaultConfig()
	if cfg.Calls <= 0 {
		cfg.Calls = def.Calls
	}
	if cfg.HistogramMax <= 0 {
		cfg.HistogramMax = def.HistogramMax
	}
	if cfg.HistogramSigFigs <= 0 {
		cfg.HistogramSigFigs = def.HistogramSigFigs
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}

	newRecorder := func() *recorder {
		return &recorder{
			hist:  hdrhistogram.New(1, cfg.HistogramMax, cfg.HistogramSigFigs),
			max:   cfg.HistogramMax,
			clock: cfg.Clock,
		}
	}

	var reports uint64
	countRate := profiler.NewRateSink(func(uint64, time.Duration) { reports++ })
	countUsage := profiler.NewUsageSink(func(_, _ time.Duration, _ uint64, _ time.Duration) { reports++ })
	opts := []profiler.Option{profiler.WithInterval(cfg.Interval), profiler.WithClock(cfg.Clock)}

	results := make([]Result, 0, 3)

	events, err := profiler.NewEventProfiler(countRate, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create event profiler: %w", err)
	}
	rec := newRecorder()
	reports = 0
	for i := 0; i < cfg.Calls; i++ {
		rec.time(events.LogEvent)
	}
	results = append(results, rec.result("LogEvent", reports))

	data, err := profiler.NewDataProfiler(countRate, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create data profiler: %w", err)
	}
	rec = newRecorder()
	reports = 0
	for i := 0; i < cfg.Calls; i++ {
		rec.time(func() { data.LogData(64) })
	}
	results = append(results, rec.result("LogData", reports))

	method, err := profiler.NewMethodProfiler(countUsage, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create method profiler: %w", err)
	}
	rec = newRecorder()
	reports = 0
	var protoErr error
	for i := 0; i < cfg.Calls && protoErr == nil; i++ {
		rec.time(func() {
			if err := method.LogEnter(); err != nil {
				protoErr = err
				return
			}
			protoErr = method.LogLeave()
		})
	}
	if protoErr != nil {
		return nil, protoErr
	}
	results = append(results, rec.result("LogEnter+LogLeave", reports))

	return results, nil
}
