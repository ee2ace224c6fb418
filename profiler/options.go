package profiler

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultInterval is the report interval used when none is configured.
const DefaultInterval = 1500 * time.Millisecond

// Option configures a profiler.
type Option func(*options)

type options struct {
	name     string
	interval time.Duration
	clock    clockwork.Clock
}

func defaultOptions() options {
	return options{
		interval: DefaultInterval,
		clock:    clockwork.NewRealClock(),
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = clockwork.NewRealClock()
	}
	return o
}

// WithInterval sets the minimum time between two reports. The interval must
// be positive; constructors reject anything else.
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		o.interval = d
	}
}

// WithClock sets the time source. Tests pass a clockwork fake clock.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithName labels the profiler.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}
