// Package rate provides the report gate used by the profilers.
//
// A Gate answers one question on every log call: has enough wall-clock time
// passed since the last report to justify producing another one? It never
// blocks and never sleeps, which keeps it cheap enough to consult from hot
// code paths.
//
// # Algorithm
//
// The gate remembers the time of the last granted request and the earliest
// time the next request may be granted (last + interval). A request at time
// now is granted only when now is strictly after that deadline. The elapsed
// time returned on a grant is measured from the previous grant, not from the
// deadline, so it covers the full span the caller's summary describes,
// including any overrun past the nominal interval.
//
// Denied requests leave the gate untouched, so denials never shift or
// shorten a reporting window.
//
// # Basic Usage
//
//	gate, err := rate.NewGate(time.Second, clockwork.NewRealClock())
//	if err != nil {
//	    return err
//	}
//
//	count++
//	if elapsed, ok := gate.Allow(time.Now()); ok {
//	    fmt.Printf("%d events in %v\n", count, elapsed)
//	    count = 0
//	}
//
// # Thread Safety
//
// Gate is not safe for concurrent use. Each gate belongs to a single caller,
// typically the profiler that owns it.
package rate
