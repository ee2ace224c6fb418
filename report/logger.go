package report

import (
	"time"

	"go.uber.org/zap"
)

// Logger emits summaries as structured zap entries at info level.
type Logger struct {
	log *zap.Logger
}

// NewLogger creates a reporter logging through l with a "profiler" field
// set to name. A nil l falls back to a no-op logger.
func NewLogger(l *zap.Logger, name string) *Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &Logger{log: l.With(zap.String("profiler", name))}
}

// Events logs an EventProfiler summary.
func (r *Logger) Events(count uint64, elapsed time.Duration) {
	r.log.Info("event rate",
		zap.Uint64("events", count),
		zap.Duration("elapsed", elapsed),
		zap.Float64("per_sec", PerSecond(count, elapsed)),
	)
}

// Data logs a DataProfiler summary.
func (r *Logger) Data(volume uint64, elapsed time.Duration) {
	r.log.Info("data rate",
		zap.Uint64("volume", volume),
		zap.Duration("elapsed", elapsed),
		zap.Float64("per_sec", PerSecond(volume, elapsed)),
	)
}

// Usage logs a MethodProfiler summary.
func (r *Logger) Usage(busy, idle time.Duration, calls uint64, elapsed time.Duration) {
	r.log.Info("method usage",
		zap.Duration("busy", busy),
		zap.Duration("idle", idle),
		zap.Uint64("calls", calls),
		zap.Duration("elapsed", elapsed),
		zap.Float64("utilization", Utilization(busy, elapsed)),
	)
}
