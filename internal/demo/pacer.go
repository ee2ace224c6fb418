package demo

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Pacer spaces loop iterations at a fixed rate using a leaky bucket: it
// tracks when the next iteration is due rather than how many tokens are
// available, so a slow iteration is never followed by a burst.
type Pacer struct {
	period   time.Duration
	clock    clockwork.Clock
	nextDrip time.Time
}

// NewPacer creates a pacer for rate iterations per second. A non-positive
// rate returns nil; a nil *Pacer never waits.
func NewPacer(rate float64, clock clockwork.Clock) *Pacer {
	if rate <= 0 {
		return nil
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pacer{
		period: time.Duration(float64(time.Second) / rate),
		clock:  clock,
	}
}

// Next reserves the next slot and returns when it starts. The returned
// time is in the past if the caller is behind schedule.
func (p *Pacer) Next() time.Time {
	now := p.clock.Now()

	// Behind schedule: run now and restart the schedule from here instead
	// of catching up with a burst.
	if p.nextDrip.Before(now) {
		p.nextDrip = now
	}

	slot := p.nextDrip
	p.nextDrip = slot.Add(p.period)
	return slot
}

// Wait blocks until the next slot or until ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return ctx.Err()
	}

	wait := p.Next().Sub(p.clock.Now())
	if wait <= 0 {
		return ctx.Err()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.clock.After(wait):
		return nil
	}
}

// Period returns the time between two slots.
func (p *Pacer) Period() time.Duration {
	if p == nil {
		return 0
	}
	return p.period
}
