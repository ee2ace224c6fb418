package profiler

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/wesleyorama2/hotprof/rate"
)

// State is the MethodProfiler state.
type State int

const (
	// Idle means no call is in progress.
	Idle State = iota
	// Busy means LogEnter was called and LogLeave has not been yet.
	Busy
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Busy:
		return "busy"
	default:
		return "unknown"
	}
}

// MethodProfiler splits wall-clock time into busy spans (between LogEnter
// and LogLeave) and idle spans (everything else).
//
// Reports are only considered on LogLeave, so a single long call delays the
// next report until it returns.
//
// # Invariant
//
// At any instant, busy + idle equals the time since the last report (or
// since construction), with every span attributed to exactly one of them.
type MethodProfiler struct {
	name  string
	sink  UsageSink
	gate  *rate.Gate
	clock clockwork.Clock

	state          State
	lastTransition time.Time

	busy  time.Duration
	idle  time.Duration
	calls uint64
}

// NewMethodProfiler creates an idle method profiler reporting to sink.
func NewMethodProfiler(sink UsageSink, opts ...Option) (*MethodProfiler, error) {
	if !sink.Bound() {
		return nil, ErrUnboundSink
	}

	o := buildOptions(opts)

	gate, err := rate.NewGate(o.interval, o.clock)
	if err != nil {
		return nil, err
	}

	return &MethodProfiler{
		name:           o.name,
		sink:           sink,
		gate:           gate,
		clock:          o.clock,
		state:          Idle,
		lastTransition: gate.Last(),
	}, nil
}

// LogEnter marks the start of a busy span.
//
// Returns ErrEnteredTwice, leaving the profiler untouched, if the profiler
// is already busy.
func (p *MethodProfiler) LogEnter() error {
	if p.state == Busy {
		return ErrEnteredTwice
	}

	now := p.clock.Now()
	p.idle += now.Sub(p.lastTransition)
	p.calls++
	p.lastTransition = now
	p.state = Busy

	return nil
}

// LogLeave marks the end of a busy span and reports if the gate permits.
//
// Returns ErrLeftWithoutEnter, leaving the profiler untouched, if the
// profiler is idle.
func (p *MethodProfiler) LogLeave() error {
	if p.state == Idle {
		return ErrLeftWithoutEnter
	}

	now := p.clock.Now()
	p.busy += now.Sub(p.lastTransition)
	p.lastTransition = now
	p.state = Idle

	elapsed, ok := p.gate.Allow(now)
	if !ok {
		return nil
	}

	p.sink.Invoke(p.busy, p.idle, p.calls, elapsed)
	p.busy = 0
	p.idle = 0
	p.calls = 0

	return nil
}

// Track enters the busy state and returns a function that leaves it,
// suited to defer:
//
//	leave, err := p.Track()
//	if err != nil {
//	    return err
//	}
//	defer leave()
func (p *MethodProfiler) Track() (leave func() error, err error) {
	if err := p.LogEnter(); err != nil {
		return nil, err
	}
	return p.LogLeave, nil
}

// State returns the current state.
func (p *MethodProfiler) State() State {
	return p.state
}

// Name returns the label set with WithName.
func (p *MethodProfiler) Name() string {
	return p.name
}
