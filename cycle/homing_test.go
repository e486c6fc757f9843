package cycle

import (
	"context"
	"testing"

	"github.com/buildbotics-go/motioncore/axis"
)

type fakeMotion struct {
	pos      [6]float64
	switches map[[2]int]bool // [axis][sense] -> closed
	moves    []string
}

func newFakeMotion() *fakeMotion {
	return &fakeMotion{switches: make(map[[2]int]bool)}
}

func (f *fakeMotion) Position() [6]float64 { return f.pos }

func (f *fakeMotion) close(ax axis.Index, sw SwitchSense) {
	f.switches[[2]int{int(ax), int(sw)}] = true
}

func (f *fakeMotion) SwitchClosed(ax axis.Index, sw SwitchSense) bool {
	return f.switches[[2]int{int(ax), int(sw)}]
}

func (f *fakeMotion) MoveTo(ctx context.Context, ax axis.Index, target, feedrate float64) error {
	f.pos[ax] = target
	f.moves = append(f.moves, "moveto")
	return nil
}

// MoveUntilSwitch simulates the switch transitioning to wantClosed the
// instant the move starts (if it isn't there already), as if the
// target lay right at the switch.
func (f *fakeMotion) MoveUntilSwitch(ctx context.Context, ax axis.Index, target, feedrate float64, sw SwitchSense, wantClosed bool) error {
	f.moves = append(f.moves, "moveuntil")
	already := f.SwitchClosed(ax, sw) == wantClosed
	f.pos[ax] = target
	if already {
		return nil
	}
	if wantClosed {
		f.close(ax, sw)
	} else {
		delete(f.switches, [2]int{int(ax), int(sw)})
	}
	return ErrAbortedBySwitch
}

func (f *fakeMotion) SetAxisPosition(ax axis.Index, value float64) { f.pos[ax] = value }

func testHomingAxis() *axis.Axis {
	a := axis.New(1000, 500, 50, 0.05)
	a.TravelMin, a.TravelMax = -100, 100
	a.Homing = axis.Homing{
		SearchVelocity: 500,
		LatchVelocity:  50,
		LatchBackoff:   5,
		ZeroBackoff:    1,
		Jerk:           10,
		Mode:           axis.HomingSwitchMin,
	}
	return a
}

func TestHomeAxisFastSearchLatchesSwitch(t *testing.T) {
	ms := newFakeMotion()
	ax := testHomingAxis()
	ms.pos[axis.X] = 50

	if err := HomeAxis(context.Background(), ms, ax, axis.X, true); err != nil {
		t.Fatalf("HomeAxis: %v", err)
	}
	if ms.pos[axis.X] != 0 {
		t.Fatalf("position after homing = %v, want 0", ms.pos[axis.X])
	}
	if !ax.Homed() {
		t.Fatalf("expected axis marked homed")
	}
}

func TestHomeAxisBacksOffAlreadyActiveSwitch(t *testing.T) {
	ms := newFakeMotion()
	ax := testHomingAxis()
	ms.close(axis.X, SwitchMin)

	if err := HomeAxis(context.Background(), ms, ax, axis.X, true); err != nil {
		t.Fatalf("HomeAxis: %v", err)
	}
	if len(ms.moves) == 0 || ms.moves[0] != "moveto" {
		t.Fatalf("expected an initial back-off move, got %v", ms.moves)
	}
}

func TestHomeAxisRejectsAmbiguousMode(t *testing.T) {
	ms := newFakeMotion()
	ax := testHomingAxis()
	ax.Homing.Mode = axis.HomingDisabled

	if err := HomeAxis(context.Background(), ms, ax, axis.X, true); err != ErrAmbiguousHomingSwitch {
		t.Fatalf("HomeAxis error = %v, want ErrAmbiguousHomingSwitch", err)
	}
}

// orderRecorder notes the axis of every switch-bounded move so a test
// can check the order in which axes were homed.
type orderRecorder struct {
	*fakeMotion
	order []axis.Index
}

func (o *orderRecorder) MoveUntilSwitch(ctx context.Context, ax axis.Index, target, feedrate float64, sw SwitchSense, wantClosed bool) error {
	o.order = append(o.order, ax)
	return o.fakeMotion.MoveUntilSwitch(ctx, ax, target, feedrate, sw, wantClosed)
}

func TestHomeAllRunsRequestedAxesInFixedOrder(t *testing.T) {
	ms := &orderRecorder{fakeMotion: newFakeMotion()}
	var axes [axis.Count]*axis.Axis
	axes[axis.X] = testHomingAxis()
	axes[axis.Z] = testHomingAxis()

	var requested [axis.Count]bool
	requested[axis.X] = true
	requested[axis.Z] = true

	if err := HomeAll(context.Background(), ms, axes, requested, true); err != nil {
		t.Fatalf("HomeAll: %v", err)
	}
	if !axes[axis.X].Homed() || !axes[axis.Z].Homed() {
		t.Fatalf("expected both requested axes homed")
	}
	if len(ms.order) == 0 || ms.order[0] != axis.Z || ms.order[len(ms.order)-1] != axis.X {
		t.Fatalf("switch moves by axis = %v, want Z homed before X", ms.order)
	}
}
