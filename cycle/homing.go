package cycle

import (
	"context"
	"fmt"

	"github.com/buildbotics-go/motioncore/axis"
)

// ErrAmbiguousHomingSwitch is returned when an axis's homing mode
// leaves both, or neither, of its min/max switches eligible for
// homing (spec.md section 4.7 step 1).
var ErrAmbiguousHomingSwitch = fmt.Errorf("cycle: axis has zero or two eligible homing switches")

// HomeAxis runs the seven-step homing sequence of spec.md section 4.7
// for one axis: back off an already-active switch, fast search, slow
// latch, zero backoff, then optionally zero the position and mark the
// axis homed.
func HomeAxis(ctx context.Context, ms MotionService, ax *axis.Axis, idx axis.Index, setCoordinates bool) error {
	sense, wantMax, err := homingSense(ax.Homing.Mode)
	if err != nil {
		return err
	}

	savedJerk := ax.MaxJerk
	ax.SetMaxJerk(ax.Homing.Jerk)
	defer ax.SetMaxJerk(savedJerk)

	opposingSense := SwitchMax
	if sense == SwitchMax {
		opposingSense = SwitchMin
	}

	pos := ms.Position()[idx]

	// Step 3: back off if already sitting on the homing switch or the
	// opposing limit switch.
	if ms.SwitchClosed(idx, sense) || ms.SwitchClosed(idx, opposingSense) {
		backoffDir := 1.0
		if wantMax {
			backoffDir = -1.0
		}
		target := pos + backoffDir*ax.Homing.LatchBackoff
		if err := ms.MoveTo(ctx, idx, target, ax.Homing.SearchVelocity); err != nil {
			return err
		}
		pos = ms.Position()[idx]
	}

	// Step 4: fast search toward the switch.
	searchDir := 1.0
	if !wantMax {
		searchDir = -1.0
	}
	searchDistance := (ax.TravelMax - ax.TravelMin + ax.Homing.LatchBackoff)
	searchTarget := pos + searchDir*searchDistance
	err = ms.MoveUntilSwitch(ctx, idx, searchTarget, ax.Homing.SearchVelocity, sense, true)
	if err != nil && err != ErrAbortedBySwitch {
		return err
	}
	pos = ms.Position()[idx]

	// Step 5: slow latch away from the switch, until it opens.
	latchTarget := pos - searchDir*ax.Homing.LatchBackoff
	err = ms.MoveUntilSwitch(ctx, idx, latchTarget, ax.Homing.LatchVelocity, sense, false)
	if err != nil && err != ErrAbortedBySwitch {
		return err
	}
	pos = ms.Position()[idx]

	// Step 6: zero backoff, clear of the switch entirely.
	zeroTarget := pos - searchDir*ax.Homing.ZeroBackoff
	if err := ms.MoveTo(ctx, idx, zeroTarget, ax.Homing.SearchVelocity); err != nil {
		return err
	}

	// Step 7: set coordinates and mark homed.
	if setCoordinates {
		ms.SetAxisPosition(idx, 0)
	}
	ax.SetHomed(true)
	return nil
}

// HomeAll runs HomeAxis over every requested axis in the fixed
// Z,X,Y,A,B,C order (spec.md section 4.7).
func HomeAll(ctx context.Context, ms MotionService, axes [axis.Count]*axis.Axis, requested [axis.Count]bool, setCoordinates bool) error {
	for _, idx := range axisOrder {
		if !requested[idx] {
			continue
		}
		ax := axes[idx]
		if ax == nil {
			continue
		}
		if err := HomeAxis(ctx, ms, ax, idx, setCoordinates); err != nil {
			return err
		}
	}
	return nil
}

func homingSense(mode axis.HomingMode) (sense SwitchSense, wantMax bool, err error) {
	switch mode {
	case axis.HomingSwitchMin, axis.HomingStallMin:
		return SwitchMin, false, nil
	case axis.HomingSwitchMax, axis.HomingStallMax:
		return SwitchMax, true, nil
	default:
		return 0, false, ErrAmbiguousHomingSwitch
	}
}
