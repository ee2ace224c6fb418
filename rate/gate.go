package rate

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// ErrInvalidInterval is returned when a gate is configured with a
// non-positive interval.
var ErrInvalidInterval = errors.New("report interval must be positive")

// Gate decides whether enough time has passed to permit a new report.
//
// The zero value is not usable; create gates with NewGate.
type Gate struct {
	interval time.Duration
	last     time.Time // Last granted request, construction time initially
	next     time.Time // last + interval
}

// NewGate creates a gate whose first window starts at clock.Now().
//
// Returns ErrInvalidInterval (wrapped) if interval <= 0. A nil clock
// selects the real clock.
func NewGate(interval time.Duration, clock clockwork.Clock) (*Gate, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidInterval, interval)
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	now := clock.Now()
	return &Gate{
		interval: interval,
		last:     now,
		next:     now.Add(interval),
	}, nil
}

// Allow requests permission to report at time now.
//
// When now is at or before the current deadline the request is denied and
// the gate is not modified. Otherwise the request is granted: elapsed is
// the time since the previous grant (or construction), and the next
// deadline moves to now + interval.
func (g *Gate) Allow(now time.Time) (elapsed time.Duration, ok bool) {
	if !now.After(g.next) {
		return 0, false
	}

	elapsed = now.Sub(g.last)
	g.last = now
	g.next = now.Add(g.interval)

	return elapsed, true
}

// Interval returns the configured report interval.
func (g *Gate) Interval() time.Duration {
	return g.interval
}

// Last returns the time of the last granted request.
func (g *Gate) Last() time.Time {
	return g.last
}

// Next returns the deadline a request must be after to be granted.
func (g *Gate) Next() time.Time {
	return g.next
}
