package profiler

import (
	"github.com/jonboulle/clockwork"

	"github.com/wesleyorama2/hotprof/rate"
)

// EventProfiler counts discrete occurrences and reports the count per
// window through a RateSink.
type EventProfiler struct {
	name  string
	sink  RateSink
	gate  *rate.Gate
	clock clockwork.Clock

	events uint64 // Events since the last report
}

// NewEventProfiler creates an event profiler reporting to sink.
//
// Returns ErrUnboundSink for an unbound sink, or an error wrapping
// rate.ErrInvalidInterval if the configured interval is not positive.
func NewEventProfiler(sink RateSink, opts ...Option) (*EventProfiler, error) {
	if !sink.Bound() {
		return nil, ErrUnboundSink
	}

	o := buildOptions(opts)

	gate, err := rate.NewGate(o.interval, o.clock)
	if err != nil {
		return nil, err
	}

	return &EventProfiler{
		name:  o.name,
		sink:  sink,
		gate:  gate,
		clock: o.clock,
	}, nil
}

// LogEvent records one occurrence. When the report interval has passed,
// the sink receives the number of events since the previous report
// (including this one) and the counter restarts from zero.
func (p *EventProfiler) LogEvent() {
	p.events++

	elapsed, ok := p.gate.Allow(p.clock.Now())
	if !ok {
		return
	}

	p.sink.Invoke(p.events, elapsed)
	p.events = 0
}

// Name returns the label set with WithName.
func (p *EventProfiler) Name() string {
	return p.name
}
