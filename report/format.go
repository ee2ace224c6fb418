// Package report renders profiler summaries and provides ready-made sinks
// for the console, zap loggers and Prometheus.
package report

import (
	"fmt"
	"time"
)

// PerSecond converts an amount observed over elapsed into a per-second rate.
// Returns 0 for a non-positive elapsed.
func PerSecond(amount uint64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(amount) / elapsed.Seconds()
}

// Utilization returns busy as a fraction of elapsed (0.0 to 1.0 in normal
// operation). Returns 0 for a non-positive elapsed.
func Utilization(busy, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(busy) / float64(elapsed)
}

// Millis renders d in fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Events formats an EventProfiler summary:
//
//	"2666.67 event/sec in 1500.00 ms."
func Events(count uint64, elapsed time.Duration) string {
	return fmt.Sprintf("%.2f event/sec in %.2f ms.", PerSecond(count, elapsed), Millis(elapsed))
}

// Data formats a DataProfiler summary:
//
//	"1048576.00 data/sec in 1500.00 ms."
func Data(volume uint64, elapsed time.Duration) string {
	return fmt.Sprintf("%.2f data/sec in %.2f ms.", PerSecond(volume, elapsed), Millis(elapsed))
}

// Usage formats a MethodProfiler summary:
//
//	"25.00% usage in 1500.00 ms."
func Usage(busy, idle time.Duration, calls uint64, elapsed time.Duration) string {
	return fmt.Sprintf("%.2f%% usage in %.2f ms.", Utilization(busy, elapsed)*100, Millis(elapsed))
}
