package calendar

import "math"

// guardEpsilon nudges a truncated microsecond-precision value just past a
// whole-unit boundary before flooring. It is sized to lie beyond the ~16
// significant decimal digits a float64 can reliably represent at
// epoch-scale magnitudes (10 digits of whole seconds + ~6 reliable
// fractional digits), so it cannot perturb a meaningfully precise input.
const guardEpsilon = 1e-7

// GuardedFloorSeconds converts a seconds-since-epoch float64 to an integer
// second count, compensating for binary floating point representation
// error in the fractional part.
//
// float64 seconds-since-epoch values are frequently delivered with
// low-order bits that are pure representation noise (e.g. -0.002 stored as
// -0.002000000000002444). A naive floor of such a value crosses a second
// boundary it shouldn't. The fix: truncate to microsecond precision first
// (discarding the noise), then nudge by guardEpsilon before flooring.
func GuardedFloorSeconds(x float64) int64 {
	x *= 1e6
	x = math.Trunc(x)
	x *= 1e-6

	x += guardEpsilon
	x = math.Floor(x)

	return int64(x)
}

// GuardedFloorMilliseconds converts a seconds-since-epoch float64 directly
// to an integer millisecond count using the same microsecond-truncation
// guard as GuardedFloorSeconds, but applies the guard while still at
// second-level precision (so it lands on the correct decimal place) before
// scaling up to milliseconds.
func GuardedFloorMilliseconds(x float64) int64 {
	x *= 1e6
	x = math.Trunc(x)
	x *= 1e-6

	x += guardEpsilon
	x *= 1e3
	x = math.Floor(x)

	return int64(x)
}
