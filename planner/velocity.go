package planner

import (
	"math"

	"github.com/buildbotics-go/motioncore/axis"
)

// TargetLength returns the distance needed to change velocity from v0
// to v1 under jerk bound recipJerk (1/jerk): L = |v1-v0| * sqrt(|v1-v0| * recipJerk).
// spec.md section 4.4.
func TargetLength(v0, v1, recipJerk float64) float64 {
	dv := v1 - v0
	if dv < 0 {
		dv = -dv
	}
	if dv == 0 {
		return 0
	}
	return dv * math.Sqrt(dv*recipJerk)
}

// TargetVelocity returns the velocity reachable over length L starting
// at v0 under jerk j: V ~= L^(2/3) * cbrt(j) + v0, refined by a small
// number of Newton-Raphson iterations using Z(x) = ((x-v0)(v0+x)^2/L^2) - j.
// spec.md section 4.4.
func TargetVelocity(v0, length, cbrtJerk, jerk float64) float64 {
	if length <= 0 {
		return v0
	}
	x := math.Cbrt(length*length)*cbrtJerk + v0
	if jerk <= 0 {
		return x
	}
	l2 := length * length
	for i := 0; i < 3; i++ {
		if l2 == 0 {
			break
		}
		z := (x-v0)*(v0+x)*(v0+x)/l2 - jerk
		dz := ((v0+x)*(v0+x) + 2*(x-v0)*(v0+x)) / l2
		if dz == 0 {
			break
		}
		next := x - z/dz
		if math.IsNaN(next) || math.IsInf(next, 0) || next < 0 {
			break
		}
		if math.Abs(next-x) < 1e-9 {
			x = next
			break
		}
		x = next
	}
	if x < v0 {
		return v0
	}
	return x
}

// JerkAxisSelect picks the jerk-limiting axis for a move, given the
// unit-vector length contribution of each axis, the total length, and
// each axis's cached reciprocal jerk. It returns the selected jerk,
// reciprocal jerk and cube root of jerk for the block, per spec.md
// section 4.4: C[i] = (length[i]^2/total^2) * recipJerk[i], largest C
// wins, and the block's jerk is that axis's max jerk scaled by the
// reciprocal of its unit-vector component.
func JerkAxisSelect(axisLength [6]float64, totalLength float64, axes [6]*axis.Axis) (jerk, recipJerk, cbrtJerk float64) {
	if totalLength == 0 {
		return 0, 0, 0
	}
	bestC := -1.0
	bestIdx := -1
	for i := 0; i < 6; i++ {
		if axisLength[i] == 0 || axes[i] == nil {
			continue
		}
		c := (axisLength[i] * axisLength[i] / (totalLength * totalLength)) * axes[i].RecipJerk()
		if c > bestC {
			bestC = c
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return 0, 0, 0
	}
	unitComponent := axisLength[bestIdx] / totalLength
	if unitComponent == 0 {
		return 0, 0, 0
	}
	jerk = axes[bestIdx].MaxJerk * axis.JerkScale / unitComponent
	recipJerk = 1.0 / jerk
	cbrtJerk = math.Cbrt(jerk)
	return jerk, recipJerk, cbrtJerk
}

// MoveTime computes the naive (pre-rate-limiting) move time for a
// non-rapid move, per spec.md section 4.4: units-per-minute mode uses
// T = sqrt(sum(XYZ^2))/F, falling back to the ABC contribution for a
// pure-rotary move; inverse-time mode uses T = 1/F directly.
func MoveTime(target [6]float64, feedRate float64, inverseTime bool) float64 {
	if inverseTime {
		if feedRate <= 0 {
			return 0
		}
		return 1.0 / feedRate
	}
	xyz := math.Sqrt(target[0]*target[0] + target[1]*target[1] + target[2]*target[2])
	if xyz > 0 {
		if feedRate <= 0 {
			return math.Inf(1)
		}
		return xyz / feedRate
	}
	abc := math.Sqrt(target[3]*target[3] + target[4]*target[4] + target[5]*target[5])
	if feedRate <= 0 {
		return math.Inf(1)
	}
	return abc / feedRate
}

// RateLimit applies the rate-limiting pass: T = max(T, |length_axis|/vmax_axis)
// over every axis with non-zero travel, per spec.md section 4.4.
func RateLimit(t float64, axisLength [6]float64, axes [6]*axis.Axis) float64 {
	for i := 0; i < 6; i++ {
		if axisLength[i] == 0 || axes[i] == nil || axes[i].MaxVelocity <= 0 {
			continue
		}
		d := axisLength[i]
		if d < 0 {
			d = -d
		}
		limit := d / axes[i].MaxVelocity
		if limit > t {
			t = limit
		}
	}
	return t
}

// JunctionParams are the tunables for junction-velocity calculation.
type JunctionParams struct {
	JunctionAcceleration float64
	ExactStop            bool
}

// JunctionVelocity implements Sonny Jeon's centripetal-acceleration
// junction formulation (spec.md section 4.4). The result is already
// min()'d against cruiseVmax and the exact-stop bound (0 when the
// active path control mode is exact-stop, unconstrained otherwise):
// entry_vmax = min(cruise_vmax, v_junction, exact_stop_bound).
func JunctionVelocity(unitA, unitB [6]float64, deviation [6]float64, cruiseVmax float64, jp JunctionParams) float64 {
	if jp.ExactStop {
		return 0
	}

	cosTheta := 0.0
	for i := 0; i < 6; i++ {
		cosTheta -= unitA[i] * unitB[i]
	}

	var v float64
	switch {
	case cosTheta < -0.99:
		v = 10_000_000
	case cosTheta > 0.99:
		v = 0
	default:
		sumA, sumB := 0.0, 0.0
		for i := 0; i < 6; i++ {
			sumA += (unitA[i] * deviation[i]) * (unitA[i] * deviation[i])
			sumB += (unitB[i] * deviation[i]) * (unitB[i] * deviation[i])
		}
		delta := (math.Sqrt(sumA) + math.Sqrt(sumB)) / 2.0

		s := math.Sqrt((1 - cosTheta) / 2)
		if s >= 1 {
			v = 0
		} else {
			r := delta * s / (1 - s)
			v = math.Sqrt(r * jp.JunctionAcceleration)
		}
	}
	return min2(cruiseVmax, v)
}

func min2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
