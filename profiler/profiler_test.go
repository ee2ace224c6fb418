package profiler

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/hotprof/rate"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func us(n int64) time.Duration {
	return time.Duration(n) * time.Microsecond
}

// fakeClock is the subset of the clockwork fake clock the tests drive.
type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
}

// at moves clock to epoch+offset.
func at(t *testing.T, clock fakeClock, offset time.Duration) {
	t.Helper()
	target := epoch.Add(offset)
	delta := target.Sub(clock.Now())
	require.GreaterOrEqual(t, delta, time.Duration(0), "clock cannot move backwards")
	clock.Advance(delta)
}

type rateReport struct {
	amount  uint64
	elapsed time.Duration
}

type usageReport struct {
	busy, idle time.Duration
	calls      uint64
	elapsed    time.Duration
}

type usageRecorder struct {
	reports []usageReport
}

func (r *usageRecorder) record(busy, idle time.Duration, calls uint64, elapsed time.Duration) {
	r.reports = append(r.reports, usageReport{busy, idle, calls, elapsed})
}

func TestConstructors_RejectNonPositiveInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Millisecond} {
		_, err := NewEventProfiler(DiscardRate(), WithInterval(interval))
		assert.True(t, errors.Is(err, rate.ErrInvalidInterval))

		_, err = NewDataProfiler(DiscardRate(), WithInterval(interval))
		assert.True(t, errors.Is(err, rate.ErrInvalidInterval))

		_, err = NewMethodProfiler(DiscardUsage(), WithInterval(interval))
		assert.True(t, errors.Is(err, rate.ErrInvalidInterval))
	}
}

func TestConstructors_Defaults(t *testing.T) {
	p, err := NewEventProfiler(DiscardRate(), WithName("loop"))
	require.NoError(t, err)

	assert.Equal(t, "loop", p.Name())
	assert.Equal(t, DefaultInterval, p.gate.Interval())
}

func TestConstructors_RejectUnboundSink(t *testing.T) {
	_, err := NewEventProfiler(RateSink{})
	assert.ErrorIs(t, err, ErrUnboundSink)

	_, err = NewDataProfiler(NewRateSink(nil))
	assert.ErrorIs(t, err, ErrUnboundSink)

	_, err = NewMethodProfiler(UsageSink{})
	assert.ErrorIs(t, err, ErrUnboundSink)

	var nilCounter func(*usageRecorder, time.Duration, time.Duration, uint64, time.Duration)
	_, err = NewMethodProfiler(BindUsageSink(&usageRecorder{}, nilCounter))
	assert.ErrorIs(t, err, ErrUnboundSink)
}

func TestDiscardSinks(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)

	events, err := NewEventProfiler(DiscardRate(), WithClock(clock), WithInterval(time.Millisecond))
	require.NoError(t, err)
	clock.Advance(time.Second)
	assert.NotPanics(t, events.LogEvent)
	assert.Zero(t, events.events, "a discarded report still resets the window")

	method, err := NewMethodProfiler(DiscardUsage(), WithClock(clock), WithInterval(time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, method.LogEnter())
	clock.Advance(time.Second)
	require.NoError(t, method.LogLeave())
	assert.Zero(t, method.calls)
}

func TestEventProfiler_Scenario(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)

	var reports []rateReport
	sink := NewRateSink(func(n uint64, elapsed time.Duration) {
		reports = append(reports, rateReport{n, elapsed})
	})

	p, err := NewEventProfiler(sink, WithInterval(us(1_000_000)), WithClock(clock))
	require.NoError(t, err)

	at(t, clock, us(200_000))
	p.LogEvent()
	at(t, clock, us(500_000))
	p.LogEvent()
	at(t, clock, us(900_000))
	p.LogEvent()
	assert.Empty(t, reports)

	at(t, clock, us(1_300_000))
	p.LogEvent()
	require.Len(t, reports, 1)
	assert.Equal(t, rateReport{4, us(1_300_000)}, reports[0])

	// The counter restarted at zero.
	at(t, clock, us(2_400_000))
	p.LogEvent()
	require.Len(t, reports, 2)
	assert.Equal(t, rateReport{1, us(1_100_000)}, reports[1])
}

func TestEventProfiler_CounterConservation(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)

	var total uint64
	var reports int
	sink := NewRateSink(func(n uint64, _ time.Duration) {
		total += n
		reports++
	})

	p, err := NewEventProfiler(sink, WithInterval(10*time.Millisecond), WithClock(clock))
	require.NoError(t, err)

	const calls = 10_000
	for i := 0; i < calls; i++ {
		clock.Advance(time.Duration(i%5) * 100 * time.Microsecond)
		p.LogEvent()
	}

	// Events logged after the last grant are still pending.
	pending := p.events
	assert.Equal(t, uint64(calls), total+pending)
	assert.Greater(t, reports, 1)
}

func TestDataProfiler_AccumulatesVolume(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)

	var reports []rateReport
	sink := NewRateSink(func(n uint64, elapsed time.Duration) {
		reports = append(reports, rateReport{n, elapsed})
	})

	p, err := NewDataProfiler(sink, WithInterval(us(1_000_000)), WithClock(clock))
	require.NoError(t, err)

	at(t, clock, us(100_000))
	p.LogData(512)
	at(t, clock, us(600_000))
	p.LogData(1024)
	at(t, clock, us(1_000_000))
	p.LogData(0)
	assert.Empty(t, reports, "a request exactly at the deadline is denied")

	at(t, clock, us(1_000_001))
	p.LogData(64)
	require.Len(t, reports, 1)
	assert.Equal(t, rateReport{1600, us(1_000_001)}, reports[0])

	at(t, clock, us(3_000_000))
	p.LogData(10)
	require.Len(t, reports, 2)
	assert.Equal(t, rateReport{10, us(1_999_999)}, reports[1])
}

func TestMethodProfiler_Scenario(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	rec := &usageRecorder{}

	p, err := NewMethodProfiler(BindUsageSink(rec, (*usageRecorder).record),
		WithInterval(us(1_000_000)), WithClock(clock))
	require.NoError(t, err)
	assert.Equal(t, Idle, p.State())

	at(t, clock, us(100_000))
	require.NoError(t, p.LogEnter())
	assert.Equal(t, Busy, p.State())
	assert.Equal(t, us(100_000), p.idle)
	assert.Equal(t, uint64(1), p.calls)

	at(t, clock, us(300_000))
	require.NoError(t, p.LogLeave())
	assert.Equal(t, us(200_000), p.busy)
	assert.Empty(t, rec.reports)

	at(t, clock, us(1_100_000))
	require.NoError(t, p.LogEnter())
	assert.Equal(t, us(900_000), p.idle)
	assert.Equal(t, uint64(2), p.calls)

	at(t, clock, us(1_400_000))
	require.NoError(t, p.LogLeave())
	require.Len(t, rec.reports, 1)
	assert.Equal(t, usageReport{us(500_000), us(900_000), 2, us(1_400_000)}, rec.reports[0])

	assert.Zero(t, p.busy)
	assert.Zero(t, p.idle)
	assert.Zero(t, p.calls)
	assert.Equal(t, Idle, p.State())
}

func TestMethodProfiler_ProtocolViolations(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	p, err := NewMethodProfiler(DiscardUsage(), WithClock(clock))
	require.NoError(t, err)

	clock.Advance(time.Millisecond)
	err = p.LogLeave()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLeftWithoutEnter))
	assert.True(t, errors.Is(err, ErrProtocolViolation))
	assert.False(t, errors.Is(err, ErrEnteredTwice))
	assert.Zero(t, p.busy)
	assert.Equal(t, epoch, p.lastTransition)

	require.NoError(t, p.LogEnter())
	idle, calls, last := p.idle, p.calls, p.lastTransition

	clock.Advance(time.Millisecond)
	err = p.LogEnter()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEnteredTwice))
	assert.True(t, errors.Is(err, ErrProtocolViolation))
	assert.Equal(t, idle, p.idle)
	assert.Equal(t, calls, p.calls)
	assert.Equal(t, last, p.lastTransition)
	assert.Equal(t, Busy, p.State())

	var perr *ProtocolError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "LogEnter", perr.Op)
	assert.Equal(t, "LogEnter: entered twice without leaving", err.Error())
}

func TestMethodProfiler_BusyIdlePartition(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	rec := &usageRecorder{}

	p, err := NewMethodProfiler(BindUsageSink(rec, (*usageRecorder).record),
		WithInterval(20*time.Millisecond), WithClock(clock))
	require.NoError(t, err)

	for i := 0; i < 1_000; i++ {
		clock.Advance(time.Duration(i%3) * 700 * time.Microsecond)
		require.NoError(t, p.LogEnter())
		clock.Advance(time.Duration(i%5+1) * 300 * time.Microsecond)
		require.NoError(t, p.LogLeave())

		// Pending spans cover exactly the time since the last report.
		assert.Equal(t, clock.Now().Sub(p.gate.Last()), p.busy+p.idle)
	}

	require.NotEmpty(t, rec.reports)

	var covered time.Duration
	for _, r := range rec.reports {
		assert.Equal(t, r.elapsed, r.busy+r.idle)
		covered += r.elapsed
	}
	assert.Equal(t, p.gate.Last().Sub(epoch), covered)
}

func TestMethodProfiler_ReportCoversWholeWindow(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	rec := &usageRecorder{}

	p, err := NewMethodProfiler(BindUsageSink(rec, (*usageRecorder).record),
		WithInterval(time.Second), WithClock(clock))
	require.NoError(t, err)

	at(t, clock, 300*time.Millisecond)
	require.NoError(t, p.LogEnter())
	at(t, clock, 800*time.Millisecond)
	require.NoError(t, p.LogLeave())

	at(t, clock, 2300*time.Millisecond)
	require.NoError(t, p.LogEnter())
	at(t, clock, 2500*time.Millisecond)
	require.NoError(t, p.LogLeave())

	require.Len(t, rec.reports, 1)
	got := rec.reports[0]
	assert.Equal(t, usageReport{700 * time.Millisecond, 1800 * time.Millisecond, 2, 2500 * time.Millisecond}, got)
	assert.Equal(t, got.elapsed, got.busy+got.idle)
}

func TestMethodProfiler_Track(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	rec := &usageRecorder{}

	p, err := NewMethodProfiler(BindUsageSink(rec, (*usageRecorder).record),
		WithInterval(time.Second), WithClock(clock))
	require.NoError(t, err)

	work := func(fail bool) (err error) {
		leave, err := p.Track()
		if err != nil {
			return err
		}
		defer func() {
			if lerr := leave(); err == nil {
				err = lerr
			}
		}()

		clock.Advance(400 * time.Millisecond)
		if fail {
			return errors.New("early return")
		}
		clock.Advance(400 * time.Millisecond)
		return nil
	}

	assert.Error(t, work(true))
	assert.Equal(t, Idle, p.State(), "early return still leaves")
	assert.NoError(t, work(false))

	require.Len(t, rec.reports, 1)
	assert.Equal(t, usageReport{1200 * time.Millisecond, 0, 2, 1200 * time.Millisecond}, rec.reports[0])

	require.NoError(t, p.LogEnter())
	_, err = p.Track()
	assert.True(t, errors.Is(err, ErrEnteredTwice))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "busy", Busy.String())
	assert.Equal(t, "unknown", State(7).String())
}
