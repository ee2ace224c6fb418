package stopwatch

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopwatch_LapAndStop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var laps []Lap

	sw := Start("load", WithClock(clock), WithReporter(func(l Lap) { laps = append(laps, l) }))

	clock.Advance(5 * time.Millisecond)
	assert.Equal(t, 5*time.Millisecond, sw.Lap())

	clock.Advance(10 * time.Millisecond)
	assert.Equal(t, 15*time.Millisecond, sw.Stop())

	clock.Advance(time.Second)
	assert.Equal(t, 15*time.Millisecond, sw.Stop(), "second Stop does not report again")

	require.Len(t, laps, 2)
	assert.Equal(t, "load", laps[0].Label)
	assert.True(t, strings.HasPrefix(laps[0].From.String(), "stopwatch_test.go:"))
	assert.NotEqual(t, laps[0].To.Line, laps[1].To.Line)
	assert.Equal(t, laps[0].From, laps[1].From)
}

func TestStopwatch_DeferFiresOnEarlyReturn(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var buf bytes.Buffer

	work := func(early bool) int {
		defer Start("", WithClock(clock), WithReporter(WriterReporter(&buf))).Stop()

		clock.Advance(3 * time.Millisecond)
		if early {
			return 1
		}
		clock.Advance(4 * time.Millisecond)
		return 2
	}

	work(true)
	work(false)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "\t3 ms"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "\t7 ms"), lines[1])
	assert.True(t, strings.HasPrefix(lines[0], "[stopwatch_test.go:"), lines[0])
}

func TestLap_String(t *testing.T) {
	l := Lap{
		Label:   "parse",
		From:    Mark{File: "/src/app/main.go", Line: 10},
		To:      Mark{File: "/src/app/main.go", Line: 42},
		Elapsed: 1500 * time.Microsecond,
	}
	assert.Equal(t, "parse [main.go:10]->[main.go:42]:\t1 ms", l.String())

	l.Label = ""
	assert.Equal(t, "[main.go:10]->[main.go:42]:\t1 ms", l.String())
}
