// Package profiler measures throughput, volume and utilization of hot code
// paths while bounding the cost of reporting them.
//
// Three profilers are provided:
//
//   - EventProfiler counts discrete occurrences and reports (count, elapsed).
//   - DataProfiler accumulates a volume and reports (volume, elapsed).
//   - MethodProfiler tracks busy and idle time around a code section and
//     reports (busy, idle, calls, elapsed).
//
// Every profiler owns a rate.Gate. Each logging call updates the
// accumulators and asks the gate for permission; only when permission is
// granted does the profiler call its sink and reset. Between grants the
// accumulators keep growing, so no event is lost or counted twice.
//
// # Sinks
//
// Summaries are delivered through RateSink and UsageSink, small values
// holding a function and an opaque context. A sink can be built from any
// function value:
//
//	events, _ := profiler.NewEventProfiler(profiler.NewRateSink(func(n uint64, elapsed time.Duration) {
//	    fmt.Println(report.Events(n, elapsed))
//	}))
//
// or from a method expression plus the receiver it should be called on:
//
//	usage, _ := profiler.NewMethodProfiler(profiler.BindUsageSink(rep, (*Reporter).Usage))
//
// Sinks borrow their context. They never copy or release it, and invoking a
// sink does not allocate.
//
// # Thread Safety
//
// Profilers are not safe for concurrent use. Use one profiler per goroutine
// or serialize access externally. Sinks run synchronously on the goroutine
// that made the logging call, so a slow sink stalls that call.
package profiler
