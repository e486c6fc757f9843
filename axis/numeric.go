package axis

import "golang.org/x/exp/constraints"

// Clamp restricts v to [lo, hi]. Used throughout planner/executor for
// the numeric guards spec.md section 9 requires around every division
// by velocity, length or jerk.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Min returns the smaller of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}
