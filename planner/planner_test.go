package planner

import (
	"math"
	"testing"

	"github.com/buildbotics-go/motioncore/axis"
	qt "github.com/frankban/quicktest"
)

func testAxes() [6]*axis.Axis {
	var axes [6]*axis.Axis
	for i := range axes {
		a := axis.New(1000, 500, 50, 0.05)
		axes[i] = a
	}
	return axes
}

func TestAlineLengthConservation(t *testing.T) {
	c := qt.New(t)
	p := New(8, testAxes(), DefaultParams(), JunctionParams{JunctionAcceleration: 100})

	var target [6]float64
	target[0] = 10
	err := p.Aline(target, 300, false, 1, false)
	c.Assert(err, qt.IsNil)

	b := p.Ring().Tail()
	sum := b.HeadLength + b.BodyLength + b.TailLength
	c.Assert(math.Abs(sum-b.Length) < 1e-4, qt.IsTrue, qt.Commentf("head+body+tail=%v length=%v", sum, b.Length))
}

func TestAlineRapidThenFeed(t *testing.T) {
	c := qt.New(t)
	p := New(8, testAxes(), DefaultParams(), JunctionParams{JunctionAcceleration: 100})

	var t1 [6]float64
	t1[0] = 10
	c.Assert(p.Aline(t1, 500, false, 1, false), qt.IsNil)

	var t2 [6]float64
	t2[0] = 20
	c.Assert(p.Aline(t2, 600, false, 2, false), qt.IsNil)

	c.Assert(p.Position(), qt.Equals, [6]float64{20, 0, 0, 0, 0, 0})
}

func TestQueueFullReturnsError(t *testing.T) {
	c := qt.New(t)
	p := New(1, testAxes(), DefaultParams(), JunctionParams{JunctionAcceleration: 100})

	var t1 [6]float64
	t1[0] = 10
	c.Assert(p.Aline(t1, 500, false, 1, false), qt.IsNil)

	var t2 [6]float64
	t2[0] = 20
	err := p.Aline(t2, 500, false, 2, false)
	c.Assert(err, qt.Equals, ErrQueueFull)
}

func TestJunctionVelocityStraightLine(t *testing.T) {
	c := qt.New(t)
	unit := [6]float64{1, 0, 0, 0, 0, 0}
	var dev [6]float64
	v := JunctionVelocity(unit, unit, dev, 500, JunctionParams{JunctionAcceleration: 100})
	c.Assert(v, qt.Equals, 500.0) // straight through: bounded by cruiseVmax
}

func TestJunctionVelocityReversal(t *testing.T) {
	c := qt.New(t)
	unitA := [6]float64{1, 0, 0, 0, 0, 0}
	unitB := [6]float64{-1, 0, 0, 0, 0, 0}
	var dev [6]float64
	v := JunctionVelocity(unitA, unitB, dev, 500, JunctionParams{JunctionAcceleration: 100})
	c.Assert(v, qt.Equals, 0.0)
}

func TestTargetLengthTargetVelocityInverse(t *testing.T) {
	c := qt.New(t)
	jerk := 50.0 * axis.JerkScale
	recipJerk := 1 / jerk
	cbrtJerk := math.Cbrt(jerk)

	length := TargetLength(0, 100, recipJerk)
	v := TargetVelocity(0, length, cbrtJerk, jerk)
	c.Assert(math.Abs(v-100) < 1.0, qt.IsTrue, qt.Commentf("got %v", v))
}

func TestFlushPlannerEmptiesRing(t *testing.T) {
	c := qt.New(t)
	p := New(8, testAxes(), DefaultParams(), JunctionParams{JunctionAcceleration: 100})
	var t1 [6]float64
	t1[0] = 10
	c.Assert(p.Aline(t1, 500, false, 1, false), qt.IsNil)
	p.FlushPlanner()
	c.Assert(p.Ring().Empty(), qt.IsTrue)
}

func TestInsertRestartOpensSlotBehindHeadPreservingQueueOrder(t *testing.T) {
	c := qt.New(t)
	r := NewRing(4)

	first := r.Push(CallbackAline, 1)
	first.LineNumber = 1
	second := r.Push(CallbackAline, 2)
	second.LineNumber = 2

	restart := r.InsertRestart()
	c.Assert(restart, qt.Not(qt.IsNil))
	c.Assert(restart.State(), qt.Equals, StateRestart)
	c.Assert(r.Len(), qt.Equals, 3)

	var order []int
	r.Each(func(b *Buffer) bool {
		order = append(order, b.LineNumber)
		return true
	})
	// The restart buffer (uninitialised, LineNumber 0) lands immediately
	// behind the head; the second line is pushed back a slot but keeps
	// its place after it.
	c.Assert(order, qt.DeepEquals, []int{1, 0, 2})
}

func TestInsertRestartReturnsNilWhenRingFull(t *testing.T) {
	c := qt.New(t)
	r := NewRing(2)
	r.Push(CallbackAline, 1)
	r.Push(CallbackAline, 2)
	c.Assert(r.InsertRestart(), qt.IsNil)
}

func TestReplanBlocksPromotesRestartBuffersToInit(t *testing.T) {
	c := qt.New(t)
	p := New(8, testAxes(), DefaultParams(), JunctionParams{JunctionAcceleration: 100})

	var target [6]float64
	target[0] = 10
	c.Assert(p.Aline(target, 300, false, 1, true), qt.IsNil)

	restart := p.Ring().InsertRestart()
	c.Assert(restart, qt.Not(qt.IsNil))
	restart.Callback = CallbackAline
	c.Assert(restart.State(), qt.Equals, StateRestart)

	p.ReplanBlocks()
	c.Assert(restart.State(), qt.Equals, StateInit)
}
