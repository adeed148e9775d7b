package cpu

import "time"

// https://www.nesdev.org/wiki/CPU#Frequencies
// https://www.nesdev.org/wiki/Cycle_reference_chart#Clock_rates

const (
	NTSCClockHz = 1789773
	PALClockHz  = 1662607
)

// A CycleHook is invoked once per executed instruction with the number of
// clock cycles that instruction consumes (penalties included), and a thunk
// that executes it. Hosts plug in pacing here; the zero value (nil) runs
// thunk immediately with no wait, matching NoWait.
type CycleHook func(cycles int, thunk func())

// NoWait runs thunk immediately. This is the default when Cpu.OnCycle is nil,
// and is the right choice for a test harness or a debugger single-stepping
// on key press.
func NoWait(cycles int, thunk func()) { thunk() }

// RealTime returns a CycleHook that runs thunk, then sleeps for cycles worth
// of time at hz. Real hardware does useful work every cycle; this emulator
// does all of an instruction's work at once and then waits out the
// difference, which is not cycle-accurate but keeps wall-clock pacing
// correct for a host that cares (e.g. driving audio or video at the real
// rate).
func RealTime(hz int) CycleHook {
	tick := time.Second / time.Duration(hz)
	return func(cycles int, thunk func()) {
		thunk()
		time.Sleep(tick * time.Duration(cycles))
	}
}
