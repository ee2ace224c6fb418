package profiler

import "time"

// RateFunc receives an EventProfiler or DataProfiler summary: the count or
// volume accumulated during the window and the window's length.
type RateFunc func(amount uint64, elapsed time.Duration)

// UsageFunc receives a MethodProfiler summary.
type UsageFunc func(busy, idle time.Duration, calls uint64, elapsed time.Duration)

// RateSink is a non-owning binding of a report function to an opaque
// context. The context is passed back to the function on every Invoke and
// is never retained beyond the sink itself.
//
// The zero RateSink is unbound and profiler constructors reject it. Use
// DiscardRate for a sink that deliberately ignores reports.
type RateSink struct {
	fn  func(ctx any, amount uint64, elapsed time.Duration)
	ctx any
}

// NewRateSink binds fn directly. Closures, method values and plain
// functions are all accepted.
func NewRateSink(fn RateFunc) RateSink {
	if fn == nil {
		return RateSink{}
	}
	return RateSink{
		fn: func(ctx any, amount uint64, elapsed time.Duration) {
			ctx.(RateFunc)(amount, elapsed)
		},
		ctx: fn,
	}
}

// BindRateSink binds fn to ctx. Method expressions fit directly:
//
//	sink := BindRateSink(counter, (*Counter).Record)
//
// The caller keeps ownership of ctx.
func BindRateSink[T any](ctx *T, fn func(ctx *T, amount uint64, elapsed time.Duration)) RateSink {
	if fn == nil {
		return RateSink{}
	}
	return RateSink{
		fn: func(c any, amount uint64, elapsed time.Duration) {
			fn(c.(*T), amount, elapsed)
		},
		ctx: ctx,
	}
}

// Invoke forwards a summary to the bound function.
func (s RateSink) Invoke(amount uint64, elapsed time.Duration) {
	if s.fn == nil {
		return
	}
	s.fn(s.ctx, amount, elapsed)
}

// Bound reports whether the sink has a function attached.
func (s RateSink) Bound() bool {
	return s.fn != nil
}

// UsageSink is the MethodProfiler counterpart of RateSink.
//
// The zero UsageSink is unbound and profiler constructors reject it. Use
// DiscardUsage for a sink that deliberately ignores reports.
type UsageSink struct {
	fn  func(ctx any, busy, idle time.Duration, calls uint64, elapsed time.Duration)
	ctx any
}

// NewUsageSink binds fn directly.
func NewUsageSink(fn UsageFunc) UsageSink {
	if fn == nil {
		return UsageSink{}
	}
	return UsageSink{
		fn: func(ctx any, busy, idle time.Duration, calls uint64, elapsed time.Duration) {
			ctx.(UsageFunc)(busy, idle, calls, elapsed)
		},
		ctx: fn,
	}
}

// BindUsageSink binds fn to ctx. The caller keeps ownership of ctx.
func BindUsageSink[T any](ctx *T, fn func(ctx *T, busy, idle time.Duration, calls uint64, elapsed time.Duration)) UsageSink {
	if fn == nil {
		return UsageSink{}
	}
	return UsageSink{
		fn: func(c any, busy, idle time.Duration, calls uint64, elapsed time.Duration) {
			fn(c.(*T), busy, idle, calls, elapsed)
		},
		ctx: ctx,
	}
}

// Invoke forwards a summary to the bound function.
func (s UsageSink) Invoke(busy, idle time.Duration, calls uint64, elapsed time.Duration) {
	if s.fn == nil {
		return
	}
	s.fn(s.ctx, busy, idle, calls, elapsed)
}

// Bound reports whether the sink has a function attached.
func (s UsageSink) Bound() bool {
	return s.fn != nil
}

func discardRate(any, uint64, time.Duration) {}

func discardUsage(any, time.Duration, time.Duration, uint64, time.Duration) {}

// DiscardRate returns a bound sink that ignores every report.
func DiscardRate() RateSink {
	return RateSink{fn: discardRate}
}

// DiscardUsage returns a bound sink that ignores every report.
func DiscardUsage() UsageSink {
	return UsageSink{fn: discardUsage}
}
