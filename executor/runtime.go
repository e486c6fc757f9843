// Package executor turns one planned block into a sequence of short
// time-sliced segments using fifth-order Bezier forward differencing
// (spec.md section 4.5). It is invoked once per segment completion by
// the stepper scheduler, from software-interrupt (LO) priority.
package executor

import "github.com/buildbotics-go/motioncore/planner"

// Section identifies which part of a block's trapezoid is currently
// executing.
type Section int

const (
	SectionNone Section = iota
	SectionHead
	SectionBody
	SectionTail
)

// Status is returned by every exec call and tells the scheduler what
// to do next.
type Status int

const (
	StatusNoOp Status = iota // not ready yet (startup delay); arm nothing new
	StatusSegment             // a segment was produced; program it
	StatusMinimumTimeMove     // section skipped, no position advance
	StatusBlockComplete       // the buffer is fully consumed, head advanced
	StatusQueueEmpty          // nothing queued
	StatusDwellReady          // a dwell was staged; caller must PrepDwell it
	StatusCommandReady        // a command was staged; caller must PrepCommand it
	StatusError
)

// Runtime is the section-local, per-segment execution state of spec.md
// section 3. It is replaced in place at each segment and must not leak
// forward-difference state across sections (reinitialised at every
// SectionNew transition, kept here rather than on the buffer because a
// buffer may be replanned while another block executes).
type Runtime struct {
	Velocity     float64
	Position     [6]float64
	WorkOffset   [6]float64
	Busy         bool
	LineNumber   int

	fd         [5]float64
	Section    Section
	SectionNew bool
	HoldPlanned bool
	staged      bool

	// DwellSecs/Command carry the payload of a staged dwell or
	// synchronous command buffer (StatusDwellReady/StatusCommandReady)
	// for the caller to hand to the stepper scheduler.
	DwellSecs float64
	Command   planner.Command

	FinalTarget   [6]float64
	headWaypoint  [6]float64
	bodyWaypoint  [6]float64
	tailWaypoint  [6]float64

	segmentsTotal int
	segmentIndex  int
	segmentTime   float64
	unit          [6]float64
	entering      bool
}

// PeekNextVelocity returns the velocity the next segment will run at
// (the current velocity plus the pending F5 term) without advancing the
// cascade; used by feedhold replan (spec.md section 4.5).
func (r *Runtime) PeekNextVelocity() float64 {
	return r.Velocity + r.fd[4]
}
