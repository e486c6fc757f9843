package machinemodel

import (
	"math"
	"testing"

	"github.com/buildbotics-go/motioncore/axis"
	"github.com/buildbotics-go/motioncore/gcode"
	"github.com/buildbotics-go/motioncore/planner"
)

func testModel() (*Model, *planner.Planner) {
	var axes [axis.Count]*axis.Axis
	for i := range axes {
		a := axis.New(1000, 500, 50, 0.05)
		a.TravelMin, a.TravelMax = -100, 100
		a.SetHomed(true)
		axes[i] = a
	}
	p := planner.New(128, axes, planner.DefaultParams(), planner.JunctionParams{JunctionAcceleration: 100})
	m := New(axes, p, func() bool { return false })
	return m, p
}

func TestFeedMovesAbsolutePosition(t *testing.T) {
	m, _ := testModel()
	m.SetFeedRate(300)
	v := gcode.Values{X: 10}
	f := gcode.Flags{X: true}

	if err := m.Feed(v, f, false); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if m.position[0] != 10 {
		t.Fatalf("position[0] = %v, want 10", m.position[0])
	}
}

func TestFeedRejectsBeyondSoftLimit(t *testing.T) {
	m, _ := testModel()
	m.SetFeedRate(300)
	v := gcode.Values{X: 500}
	f := gcode.Flags{X: true}

	if err := m.Feed(v, f, false); err == nil {
		t.Fatalf("expected soft-limit error")
	}
}

func TestIncrementalDistanceModeAccumulates(t *testing.T) {
	m, _ := testModel()
	m.SetFeedRate(300)
	m.SetDistanceMode(true)

	f := gcode.Flags{X: true}
	if err := m.Feed(gcode.Values{X: 5}, f, false); err != nil {
		t.Fatalf("Feed 1: %v", err)
	}
	if err := m.Feed(gcode.Values{X: 5}, f, false); err != nil {
		t.Fatalf("Feed 2: %v", err)
	}
	if m.position[0] != 10 {
		t.Fatalf("position[0] = %v, want 10", m.position[0])
	}
}

func TestCoordSystemOffsetAppliesToAbsoluteTarget(t *testing.T) {
	m, _ := testModel()
	m.SetFeedRate(300)
	if err := m.SetCoordDataSet(1, 2, gcode.Values{X: 5}, gcode.Flags{X: true}); err != nil {
		t.Fatalf("SetCoordDataSet: %v", err)
	}
	if err := m.Feed(gcode.Values{X: 0}, gcode.Flags{X: true}, false); err != nil {
		t.Fatalf("Feed: %v", err)
	}
	if m.position[0] != 5 {
		t.Fatalf("position[0] = %v, want 5 (work offset applied)", m.position[0])
	}
}

func TestArcFeedEndsAtSemicircleEndpoint(t *testing.T) {
	m, _ := testModel()
	m.SetFeedRate(300)
	v := gcode.Values{X: 10, I: 5}
	f := gcode.Flags{X: true, I: true}

	if err := m.ArcFeed(v, f, true); err != nil {
		t.Fatalf("ArcFeed: %v", err)
	}
	if math.Abs(m.position[0]-10) > 1e-9 || math.Abs(m.position[1]) > 1e-9 {
		t.Fatalf("final position = %v, want (10,0)", m.position)
	}
}

func TestFeedRejectsWithoutPriorOrCurrentFeedrate(t *testing.T) {
	m, _ := testModel()
	v := gcode.Values{X: 10}
	f := gcode.Flags{X: true}

	err := m.Feed(v, f, false)
	if err != ErrFeedrateNotSpecified {
		t.Fatalf("Feed: got %v, want ErrFeedrateNotSpecified", err)
	}
}

func TestFeedReusesModalFeedrateAcrossBlocks(t *testing.T) {
	m, _ := testModel()
	m.SetFeedRate(300)

	if err := m.Feed(gcode.Values{X: 10}, gcode.Flags{X: true}, false); err != nil {
		t.Fatalf("Feed 1: %v", err)
	}
	// Second block carries no F word; the modal feed rate from the
	// first block must still apply.
	if err := m.Feed(gcode.Values{X: 20}, gcode.Flags{X: true}, false); err != nil {
		t.Fatalf("Feed 2 (modal F): %v", err)
	}
	if m.position[0] != 20 {
		t.Fatalf("position[0] = %v, want 20", m.position[0])
	}
}

func TestArcFeedRejectsWithoutFeedrate(t *testing.T) {
	m, _ := testModel()
	v := gcode.Values{X: 10, I: 5}
	f := gcode.Flags{X: true, I: true}

	if err := m.ArcFeed(v, f, true); err != ErrFeedrateNotSpecified {
		t.Fatalf("ArcFeed: got %v, want ErrFeedrateNotSpecified", err)
	}
}

func TestProgramEndResetsState(t *testing.T) {
	m, _ := testModel()
	m.SetDistanceMode(true)
	m.SetFeedMode(true)
	m.coordSystem = 3

	m.ProgramEnd()

	if m.distanceInc {
		t.Fatalf("expected distance mode reset to absolute")
	}
	if m.inverseTime {
		t.Fatalf("expected feed mode reset to units-per-minute")
	}
	if m.coordSystem != 1 {
		t.Fatalf("expected coord system reset to 1, got %d", m.coordSystem)
	}
}
