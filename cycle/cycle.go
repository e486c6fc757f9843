// Package cycle implements the non-G-code motion cycles of spec.md
// section 4.7: homing, probing, jogging and stepper-stall calibration.
// Each cycle grabs the planner for its duration and runs as its own
// control flow (original_source/src/{cycle_homing,probing,plan/jog,
// plan/calibrate}.c model this as a resumable callback state machine
// driven from the main loop; this port runs each cycle as a blocking
// function over a MotionService so the step sequence reads linearly,
// the same tradeoff machinemodel's synchronous gcode.Machine calls
// already make against the original's interrupt-driven style).
package cycle

import (
	"context"
	"fmt"

	"github.com/buildbotics-go/motioncore/axis"
)

// ErrAbortedBySwitch is returned by MotionService.MoveUntilSwitch when
// the awaited switch transition stopped the move before it reached its
// target, the expected outcome during a search/latch phase.
var ErrAbortedBySwitch = fmt.Errorf("cycle: move aborted by switch")

// MotionService is the narrow surface a cycle needs from the rest of
// the motion core: absolute position, a target-seeking move that can
// be cut short by a switch transition, and direct position assignment
// for homing's zero-point and jog's encoder resync.
type MotionService interface {
	Position() [6]float64
	// MoveUntilSwitch moves the given axis toward target at feedrate,
	// returning ErrAbortedBySwitch if the named switch reaches wantClosed
	// before the target is reached, or nil once the full move completes.
	MoveUntilSwitch(ctx context.Context, ax axis.Index, target, feedrate float64, sw SwitchSense, wantClosed bool) error
	// MoveTo performs an ordinary single-axis move with no switch watch.
	MoveTo(ctx context.Context, ax axis.Index, target, feedrate float64) error
	// SetAxisPosition assigns the machine model's position for one axis
	// directly, bypassing planning (used to zero an axis after homing
	// and to resync position from encoder counts after a jog).
	SetAxisPosition(ax axis.Index, value float64)
	// SwitchClosed reports the current debounced state of a switch.
	SwitchClosed(ax axis.Index, sw SwitchSense) bool
}

// SwitchSense distinguishes an axis's min and max limit/homing
// switches.
type SwitchSense int

const (
	SwitchMin SwitchSense = iota
	SwitchMax
)

// axisOrder is the fixed per-spec homing sequence: Z first so the tool
// clears the work before X/Y move, then the rest.
var axisOrder = []axis.Index{axis.Z, axis.X, axis.Y, axis.A, axis.B, axis.C}
