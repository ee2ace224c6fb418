// Package stopwatch provides a scope-guard timer for ad-hoc measurements.
//
//	func load() error {
//	    defer stopwatch.Start("load").Stop()
//	    ...
//	}
//
// Start records the start time and the caller's source position; Stop
// reports the elapsed time together with both positions. Because Stop is
// deferred it fires on every return path.
package stopwatch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/jonboulle/clockwork"
)

// Mark is a source position.
type Mark struct {
	File string
	Line int
}

// String renders the mark as base-name:line.
func (m Mark) String() string {
	return fmt.Sprintf("%s:%d", filepath.Base(m.File), m.Line)
}

// Lap is one measurement produced by a stopwatch.
type Lap struct {
	Label   string
	From    Mark
	To      Mark
	Elapsed time.Duration
}

// String renders the lap as "[from]->[to]:\t<ms> ms", prefixed with the
// label when one is set.
func (l Lap) String() string {
	s := fmt.Sprintf("[%s]->[%s]:\t%d ms", l.From, l.To, l.Elapsed.Milliseconds())
	if l.Label != "" {
		s = l.Label + " " + s
	}
	return s
}

// Reporter receives laps.
type Reporter func(Lap)

// WriterReporter returns a Reporter printing one line per lap to w.
func WriterReporter(w io.Writer) Reporter {
	return func(l Lap) {
		fmt.Fprintln(w, l.String())
	}
}

// Option configures a Stopwatch.
type Option func(*Stopwatch)

// WithReporter sets where laps go. Defaults to stderr.
func WithReporter(r Reporter) Option {
	return func(s *Stopwatch) {
		s.report = r
	}
}

// WithClock sets the time source.
func WithClock(c clockwork.Clock) Option {
	return func(s *Stopwatch) {
		s.clock = c
	}
}

// Stopwatch measures time from Start to each Lap and to Stop.
type Stopwatch struct {
	label   string
	start   time.Time
	from    Mark
	clock   clockwork.Clock
	report  Reporter
	stopped bool
	total   time.Duration
}

// Start begins timing at the caller's position.
func Start(label string, opts ...Option) *Stopwatch {
	s := &Stopwatch{
		label:  label,
		clock:  clockwork.NewRealClock(),
		report: WriterReporter(os.Stderr),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.from = caller(2)
	s.start = s.clock.Now()
	return s
}

// Lap reports the time since Start without stopping.
func (s *Stopwatch) Lap() time.Duration {
	return s.emit(caller(2))
}

// Stop reports the time since Start. Only the first call reports;
// later calls return the elapsed time of the first.
func (s *Stopwatch) Stop() time.Duration {
	if s.stopped {
		return s.total
	}
	s.stopped = true
	s.total = s.emit(caller(2))
	return s.total
}

func (s *Stopwatch) emit(to Mark) time.Duration {
	elapsed := s.clock.Since(s.start)
	if s.report != nil {
		s.report(Lap{Label: s.label, From: s.from, To: to, Elapsed: elapsed})
	}
	return elapsed
}

func caller(skip int) Mark {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Mark{File: "???"}
	}
	return Mark{File: file, Line: line}
}
