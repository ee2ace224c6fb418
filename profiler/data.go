package profiler

import (
	"github.com/jonboulle/clockwork"

	"github.com/wesleyorama2/hotprof/rate"
)

// DataProfiler accumulates a volume (bytes, records, ...) and reports the
// total per window through a RateSink.
type DataProfiler struct {
	name  string
	sink  RateSink
	gate  *rate.Gate
	clock clockwork.Clock

	volume uint64 // Volume since the last report
}

// NewDataProfiler creates a data profiler reporting to sink.
func NewDataProfiler(sink RateSink, opts ...Option) (*DataProfiler, error) {
	if !sink.Bound() {
		return nil, ErrUnboundSink
	}

	o := buildOptions(opts)

	gate, err := rate.NewGate(o.interval, o.clock)
	if err != nil {
		return nil, err
	}

	return &DataProfiler{
		name:  o.name,
		sink:  sink,
		gate:  gate,
		clock: o.clock,
	}, nil
}

// LogData adds amount to the current window and reports if the gate
// permits.
func (p *DataProfiler) LogData(amount uint64) {
	p.volume += amount

	elapsed, ok := p.gate.Allow(p.clock.Now())
	if !ok {
		return
	}

	p.sink.Invoke(p.volume, elapsed)
	p.volume = 0
}

// Name returns the label set with WithName.
func (p *DataProfiler) Name() string {
	return p.name
}
