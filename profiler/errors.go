package profiler

import (
	"errors"
	"fmt"
)

// ErrUnboundSink is returned by the profiler constructors when the sink has
// no function attached.
var ErrUnboundSink = errors.New("profiler sink is unbound")

// ErrProtocolViolation matches every out-of-sequence MethodProfiler call.
var ErrProtocolViolation = errors.New("profiler protocol violation")

// ProtocolError describes a MethodProfiler call made in the wrong state.
type ProtocolError struct {
	Op     string // "LogEnter" or "LogLeave"
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// Is reports whether target is ErrProtocolViolation or an equal ProtocolError.
func (e *ProtocolError) Is(target error) bool {
	if target == ErrProtocolViolation {
		return true
	}
	t, ok := target.(*ProtocolError)
	return ok && t.Op == e.Op && t.Reason == e.Reason
}

var (
	// ErrEnteredTwice is returned by LogEnter when the profiler is already busy.
	ErrEnteredTwice = &ProtocolError{Op: "LogEnter", Reason: "entered twice without leaving"}

	// ErrLeftWithoutEnter is returned by LogLeave when the profiler is idle.
	ErrLeftWithoutEnter = &ProtocolError{Op: "LogLeave", Reason: "left without entering"}
)
