package laika

import (
	"fmt"
	"runtime"
)

// Because sometimes it's really convenient to have C's ternary ?:
func IfThenElse[T any](x bool, a T, b T) T { //nolint:ireturn
	if x {
		return a
	} else {
		return b
	}
}

// limit clamps a value into [lower, upper].
func limit[T int | float64](x T, lower T, upper T) T {
	if x > upper {
		return upper
	}
	if x < lower {
		return lower
	}
	return x
}

// exp2 is the fast integer power of two.
func exp2(x uint) int {
	return 1 << x
}

// log2 is the fast integer base-2 logarithm (rounds down).
func log2(x int) uint {
	var y uint
	for ; x > 1; x >>= 1 {
		y++
	}
	return y
}

// fit_peak fits a parabola through three equidistant points and returns
// the position of the extremum relative to the centre point, plus the
// fitted peak value.  Reports false when the points do not bend downward.
func fit_peak(left float64, center float64, right float64) (float64, float64, bool) {
	var a = (right+left)/2 - center
	if a >= 0 {
		return 0, 0, false
	}
	var b = (right - left) / 2
	var pos = -b / (2 * a)
	var peak = a*pos*pos + b*pos + center
	return pos, peak, true
}

// Can't be "assert" because of conflicts with stretchr/testify/assert, but otherwise, it's compatible enough
func Assert(t bool) {
	if !t {
		_, file, line, _ := runtime.Caller(1)
		panic(fmt.Sprintf("Assertion failed at %s:%d", file, line))
	}
}
