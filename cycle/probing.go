package cycle

import (
	"context"
	"fmt"
	"math"

	"github.com/buildbotics-go/motioncore/axis"
)

// ErrProbeAlreadyAsserted is returned when the probe switch is already
// closed before the probing move starts (spec.md section 4.7: "If the
// probe was already asserted on entry, reports failure without
// moving").
var ErrProbeAlreadyAsserted = fmt.Errorf("cycle: probe switch already asserted")

// MinProbeTravel is the minimum XYZ distance a probe target must be
// from the current position (spec.md section 4.7).
const MinProbeTravel = 0.1

// ProbeResult is the position recorded when the probe switch closes.
type ProbeResult struct {
	Position [6]float64
	Triggered bool
}

// Probe runs the straight-feed probe cycle of spec.md section 4.7:
// rejects targets too close to the current position or that would move
// any of A/B/C, rejects an already-asserted probe switch, then feeds
// toward target and records the position where the probe switch
// closed.
func Probe(ctx context.Context, ms MotionService, target [6]float64, feedrate float64) (ProbeResult, error) {
	start := ms.Position()

	var xyzDelta float64
	for i := 0; i < 3; i++ {
		d := target[i] - start[i]
		xyzDelta += d * d
	}
	if math.Sqrt(xyzDelta) < MinProbeTravel {
		return ProbeResult{}, fmt.Errorf("cycle: probe travel below minimum %.3g", MinProbeTravel)
	}
	for i := 3; i < 6; i++ {
		if target[i] != start[i] {
			return ProbeResult{}, fmt.Errorf("cycle: probe target must not move rotary axes")
		}
	}

	if ms.SwitchClosed(axis.Z, SwitchProbe) {
		return ProbeResult{Triggered: false}, ErrProbeAlreadyAsserted
	}

	triggered := false
	for i := 0; i < 3; i++ {
		if target[i] == start[i] {
			continue
		}
		err := ms.MoveUntilSwitch(ctx, axis.Index(i), target[i], feedrate, SwitchProbe, true)
		if err == ErrAbortedBySwitch {
			triggered = true
			break
		}
		if err != nil {
			return ProbeResult{}, err
		}
	}

	return ProbeResult{Position: ms.Position(), Triggered: triggered}, nil
}

// SwitchProbe is the dedicated probe input, modeled as a third switch
// sense alongside SwitchMin/SwitchMax (it shares no axis-relative
// polarity, unlike a limit/homing switch).
const SwitchProbe SwitchSense = 2
