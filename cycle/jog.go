package cycle

import (
	"math"

	"github.com/buildbotics-go/motioncore/axis"
)

// JogParams tunes the jog cycle's velocity ramp.
type JogParams struct {
	Acceleration float64 // mm/min^2, applied uniformly across axes
	SegmentTime  float64 // minutes, size of one velocity-ramp step
}

// DefaultJogParams matches the firmware's fixed jog acceleration, with a
// fixed 10 ms velocity-ramp step.
func DefaultJogParams() JogParams {
	return JogParams{Acceleration: 200 * 60 * 60, SegmentTime: 0.01 / 60}
}

// Jog tracks the velocity-ramped jog cycle of spec.md section 4.7: each
// axis's velocity slews toward an externally-set target at a fixed
// acceleration, independent of the other axes, until all velocities
// reach zero.
type Jog struct {
	axes    [axis.Count]*axis.Axis
	params  JogParams
	target  [axis.Count]float64 // unit velocity factor in [-1, 1]
	current [axis.Count]float64 // mm/min or deg/min
}

// NewJog constructs a Jog cycle over the given axis configuration.
func NewJog(axes [axis.Count]*axis.Axis, params JogParams) *Jog {
	return &Jog{axes: axes, params: params}
}

// SetTarget updates the requested unit velocity factor for one axis.
// Factors outside [-1, 1] are clamped.
func (j *Jog) SetTarget(idx axis.Index, factor float64) {
	if factor > 1 {
		factor = 1
	}
	if factor < -1 {
		factor = -1
	}
	j.target[idx] = factor
}

// Step advances the velocity ramp by one segment and returns the travel
// distance for each axis over that segment, plus whether every axis has
// settled to zero velocity (the cycle is complete).
func (j *Jog) Step() (travel [axis.Count]float64, done bool) {
	maxDeltaV := j.params.Acceleration * j.params.SegmentTime
	done = true

	for i, ax := range j.axes {
		if ax == nil {
			continue
		}
		targetV := j.target[i] * ax.MaxVelocity
		deltaV := targetV - j.current[i]
		switch {
		case math.Abs(deltaV) <= maxDeltaV:
			j.current[i] = targetV
		case deltaV < 0:
			j.current[i] -= maxDeltaV
		default:
			j.current[i] += maxDeltaV
		}

		travel[i] = j.params.SegmentTime * j.current[i]
		if travel[i] != 0 {
			done = false
		}
	}

	return travel, done
}

// Finish resyncs the machine model's position from each motor's encoder
// count, the handoff back to normal machining once the jog settles.
// encoderSteps is indexed the same way as motors.
func Finish(ms MotionService, motors []*axis.Motor, encoderSteps []int32) {
	for i, m := range motors {
		if m == nil || m.AxisIndex == axis.Unmapped || i >= len(encoderSteps) {
			continue
		}
		ms.SetAxisPosition(axis.Index(m.AxisIndex), float64(encoderSteps[i])/m.StepsPerUnit())
	}
}
