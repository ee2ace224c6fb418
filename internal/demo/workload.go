// Package demo runs instrumented sample workloads: each workload owns a
// MethodProfiler around its body and a DataProfiler for the bytes it
// produces, and the loop driving them owns an EventProfiler.
package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/wesleyorama2/hotprof/profiler"
)

// Sinks supplies report sinks for named profilers.
type Sinks struct {
	Events func(name string) profiler.RateSink
	Data   func(name string) profiler.RateSink
	Usage  func(name string) profiler.UsageSink
}

// Spec describes one workload.
type Spec struct {
	Name  string
	Work  time.Duration // Simulated busy time per call
	Bytes uint64        // Volume produced per call
}

// Workload is an instrumented function. Its profilers are created once in
// NewRunner and live as long as the workload.
type Workload struct {
	spec   Spec
	clock  clockwork.Clock
	method *profiler.MethodProfiler
	data   *profiler.DataProfiler
}

// Call runs the workload body once between LogEnter and LogLeave.
func (w *Workload) Call() (err error) {
	leave, err := w.method.Track()
	if err != nil {
		return err
	}
	defer func() {
		if lerr := leave(); err == nil {
			err = lerr
		}
	}()

	if w.spec.Work > 0 {
		w.clock.Sleep(w.spec.Work)
	}
	w.data.LogData(w.spec.Bytes)

	return nil
}

// Name returns the name of the workload's profilers.
func (w *Workload) Name() string {
	return w.method.Name()
}

// Config configures a Runner.
type Config struct {
	Interval  time.Duration
	Rate      float64 // Loop iterations per second; 0 runs unpaced
	Clock     clockwork.Clock
	Workloads []Spec
	Sinks     Sinks
}

// Runner drives the workloads in a loop.
type Runner struct {
	clock     clockwork.Clock
	pacer     *Pacer
	loop      *profiler.EventProfiler
	workloads []*Workload
}

// LoopName is the profiler name used for the driving loop.
const LoopName = "loop"

// NewRunner builds every profiler up front.
func NewRunner(cfg Config) (*Runner, error) {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	opts := func(name string) []profiler.Option {
		return []profiler.Option{
			profiler.WithName(name),
			profiler.WithInterval(cfg.Interval),
			profiler.WithClock(clock),
		}
	}

	loop, err := profiler.NewEventProfiler(rateSink(cfg.Sinks.Events, LoopName), opts(LoopName)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create loop profiler: %w", err)
	}

	r := &Runner{
		clock: clock,
		pacer: NewPacer(cfg.Rate, clock),
		loop:  loop,
	}

	for _, spec := range cfg.Workloads {
		method, err := profiler.NewMethodProfiler(usageSink(cfg.Sinks.Usage, spec.Name), opts(spec.Name)...)
		if err != nil {
			return nil, fmt.Errorf("failed to create profiler for %s: %w", spec.Name, err)
		}
		data, err := profiler.NewDataProfiler(rateSink(cfg.Sinks.Data, spec.Name), opts(spec.Name)...)
		if err != nil {
			return nil, fmt.Errorf("failed to create data profiler for %s: %w", spec.Name, err)
		}

		r.workloads = append(r.workloads, &Workload{
			spec:   spec,
			clock:  clock,
			method: method,
			data:   data,
		})
	}

	return r, nil
}

// Result summarizes a run.
type Result struct {
	Iterations int
	Elapsed    time.Duration
}

// Run executes iterations loop passes, calling every workload once per
// pass. It stops early when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, iterations int) (Result, error) {
	start := r.clock.Now()
	res := Result{}

	for i := 0; i < iterations; i++ {
		if err := r.pacer.Wait(ctx); err != nil {
			res.Elapsed = r.clock.Since(start)
			return res, err
		}

		for _, w := range r.workloads {
			if err := w.Call(); err != nil {
				res.Elapsed = r.clock.Since(start)
				return res, fmt.Errorf("workload %s: %w", w.Name(), err)
			}
		}

		r.loop.LogEvent()
		res.Iterations++
	}

	res.Elapsed = r.clock.Since(start)
	return res, nil
}

// Workloads returns the instrumented workloads in configuration order.
func (r *Runner) Workloads() []*Workload {
	return r.workloads
}

func rateSink(f func(string) profiler.RateSink, name string) profiler.RateSink {
	if f == nil {
		return profiler.DiscardRate()
	}
	return f(name)
}

func usageSink(f func(string) profiler.UsageSink, name string) profiler.UsageSink {
	if f == nil {
		return profiler.DiscardUsage()
	}
	return f(name)
}

// TeeRate returns a sink forwarding to every bound sink in sinks.
func TeeRate(sinks ...profiler.RateSink) profiler.RateSink {
	bound := make([]profiler.RateSink, 0, len(sinks))
	for _, s := range sinks {
		if s.Bound() {
			bound = append(bound, s)
		}
	}
	if len(bound) == 1 {
		return bound[0]
	}
	return profiler.NewRateSink(func(amount uint64, elapsed time.Duration) {
		for _, s := range bound {
			s.Invoke(amount, elapsed)
		}
	})
}

// TeeUsage returns a sink forwarding to every bound sink in sinks.
func TeeUsage(sinks ...profiler.UsageSink) profiler.UsageSink {
	bound := make([]profiler.UsageSink, 0, len(sinks))
	for _, s := range sinks {
		if s.Bound() {
			bound = append(bound, s)
		}
	}
	if len(bound) == 1 {
		return bound[0]
	}
	return profiler.NewUsageSink(func(busy, idle time.Duration, calls uint64, elapsed time.Duration) {
		for _, s := range bound {
			s.Invoke(busy, idle, calls, elapsed)
		}
	})
}
