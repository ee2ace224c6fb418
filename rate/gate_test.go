package rate

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func us(n int64) time.Duration {
	return time.Duration(n) * time.Microsecond
}

func TestNewGate(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		wantErr  bool
	}{
		{"positive interval", time.Second, false},
		{"one nanosecond", time.Nanosecond, false},
		{"zero interval", 0, true},
		{"negative interval", -time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGate(tt.interval, clockwork.NewFakeClockAt(epoch))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInterval))
				assert.Nil(t, g)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.interval, g.Interval())
			assert.Equal(t, epoch, g.Last())
			assert.Equal(t, epoch.Add(tt.interval), g.Next())
		})
	}
}

func TestNewGate_NilClockUsesRealTime(t *testing.T) {
	before := time.Now()
	g, err := NewGate(time.Minute, nil)
	require.NoError(t, err)

	assert.False(t, g.Last().Before(before))
}

func TestGate_DeniedAtOrBeforeDeadline(t *testing.T) {
	g, err := NewGate(us(1_000_000), clockwork.NewFakeClockAt(epoch))
	require.NoError(t, err)
	before := *g

	for _, at := range []int64{0, 1, 500_000, 999_999, 1_000_000} {
		_, ok := g.Allow(epoch.Add(us(at)))
		assert.False(t, ok, "request at %dus should be denied", at)
	}

	assert.Equal(t, before, *g, "denials must leave the gate untouched")

	assert.Equal(t, epoch, g.Last(), "denials must not advance the last report time")
	assert.Equal(t, epoch.Add(us(1_000_000)), g.Next())
}

func TestGate_ElapsedMeasuredFromLastGrant(t *testing.T) {
	g, err := NewGate(us(1_000_000), clockwork.NewFakeClockAt(epoch))
	require.NoError(t, err)

	elapsed, ok := g.Allow(epoch.Add(us(1_300_000)))
	require.True(t, ok)
	assert.Equal(t, us(1_300_000), elapsed, "elapsed includes the overrun past the interval")
	assert.Equal(t, epoch.Add(us(2_300_000)), g.Next())

	_, ok = g.Allow(epoch.Add(us(2_300_000)))
	assert.False(t, ok)

	elapsed, ok = g.Allow(epoch.Add(us(5_000_000)))
	require.True(t, ok)
	assert.Equal(t, us(3_700_000), elapsed)
}

func TestGate_Monotonicity(t *testing.T) {
	interval := 250 * time.Millisecond
	g, err := NewGate(interval, clockwork.NewFakeClockAt(epoch))
	require.NoError(t, err)

	lastGrant := epoch
	var total time.Duration

	now := epoch
	for i := 0; i < 500; i++ {
		now = now.Add(time.Duration(i%7+1) * 10 * time.Millisecond)

		elapsed, ok := g.Allow(now)
		if !ok {
			assert.False(t, now.After(lastGrant.Add(interval)))
			continue
		}

		assert.True(t, now.After(lastGrant.Add(interval)))
		assert.Equal(t, now.Sub(lastGrant), elapsed)
		assert.Equal(t, now.Add(interval), g.Next())

		total += elapsed
		lastGrant = now
	}

	// Granted windows tile the timeline with no gaps or overlaps.
	assert.Equal(t, lastGrant.Sub(epoch), total)
}

func TestGate_Deterministic(t *testing.T) {
	times := []int64{10, 400, 1_000, 1_001, 1_500, 2_002, 2_003, 9_000}

	run := func() []time.Duration {
		g, err := NewGate(us(1_000), clockwork.NewFakeClockAt(epoch))
		require.NoError(t, err)

		var out []time.Duration
		for _, at := range times {
			if elapsed, ok := g.Allow(epoch.Add(us(at))); ok {
				out = append(out, elapsed)
			} else {
				out = append(out, -1)
			}
		}
		return out
	}

	first := run()
	assert.Equal(t, first, run())
	assert.Equal(t, []time.Duration{-1, -1, -1, us(1_001), -1, us(1_001), -1, us(6_998)}, first)
}
