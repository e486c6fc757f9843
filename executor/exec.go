package executor

import (
	"math"
	"time"

	"github.com/buildbotics-go/motioncore/planner"
)

// StartupDelay is the minimum age a brand-new buffer must reach before
// it will be initialised when the runtime is idle and the queue is
// thin, preventing first-block starvation (spec.md section 4.5).
const StartupDelay = 100 * time.Millisecond

// QueueFillThreshold is the queue occupancy (in buffers) at or above
// which the startup delay no longer applies.
const QueueFillThreshold = 3

// HoldRequester lets the executor learn whether a feedhold has been
// requested without importing the plan-state package (which itself
// depends on the executor), avoiding an import cycle.
type HoldRequester interface {
	Stopping() bool
}

// Loader lets the executor learn whether the stepper scheduler is
// still running a previously staged dwell or synchronous command,
// without importing the stepper package (which imports the planner
// the executor itself sits in front of, which would cycle back here).
// A nil Loader is treated as never busy, completing a staged dwell or
// command on the very next ExecMove call.
type Loader interface {
	Busy() bool
}

// Executor is the segment generator of spec.md section 4.5.
type Executor struct {
	ring   *planner.Ring
	params planner.Params
	rt     Runtime
	hold   HoldRequester
	loader Loader
	now    func() time.Time
}

// New constructs an Executor over the planner's ring. loader may be
// nil, in which case staged dwells/commands complete on the next
// ExecMove call.
func New(ring *planner.Ring, params planner.Params, hold HoldRequester, loader Loader) *Executor {
	return &Executor{ring: ring, params: params, hold: hold, loader: loader, now: time.Now}
}

// Runtime exposes the current runtime snapshot (read-only use by the
// stepper scheduler/status reporter).
func (e *Executor) Runtime() *Runtime { return &e.rt }

// ExecMove dequeues the head buffer, advances its state machine, and
// produces exactly one segment (or a no-op / completion status).
func (e *Executor) ExecMove() Status {
	b := e.ring.Head()
	if b == nil {
		e.rt.Busy = false
		return StatusQueueEmpty
	}

	if b.State() == planner.StateInit {
		if !e.readyToStart(b) {
			return StatusNoOp
		}
		e.initBlock(b)
	}

	switch b.Callback {
	case planner.CallbackAline:
		return e.execAline(b)
	case planner.CallbackDwell:
		return e.execDwell(b)
	case planner.CallbackCommand:
		return e.execCommand(b)
	default:
		e.ring.Advance()
		return StatusBlockComplete
	}
}

func (e *Executor) readyToStart(b *planner.Buffer) bool {
	if e.rt.Busy {
		return true
	}
	if e.ring.Len() >= QueueFillThreshold {
		return true
	}
	return e.now().Sub(b.NewAt()) >= StartupDelay
}

func (e *Executor) initBlock(b *planner.Buffer) {
	b.Activate()
	e.rt.Busy = true
	e.rt.LineNumber = b.LineNumber
	e.rt.FinalTarget = b.Target
	e.rt.unit = b.Unit
	e.rt.Section = SectionNone
	e.rt.SectionNew = true
	e.rt.HoldPlanned = false
	e.rt.staged = false

	// Waypoints: absolute positions at head-end, body-end (=tail-start)
	// and tail-end (final target), computed once so every section's
	// final segment can snap to an exact value and cancel accumulated
	// forward-difference drift.
	start := subVec(b.Target, scaleVec(b.Unit, b.Length))
	e.rt.headWaypoint = addVec(start, scaleVec(b.Unit, b.HeadLength))
	e.rt.bodyWaypoint = addVec(e.rt.headWaypoint, scaleVec(b.Unit, b.BodyLength))
	e.rt.tailWaypoint = b.Target
}

func (e *Executor) execAline(b *planner.Buffer) Status {
	if e.rt.segmentsTotal == 0 || e.rt.segmentIndex >= e.rt.segmentsTotal {
		if !e.advanceSection(b) {
			e.ring.Advance()
			e.rt.Busy = false
			return StatusBlockComplete
		}
	}

	holding := e.hold != nil && e.hold.Stopping()
	if holding && !e.rt.HoldPlanned {
		e.planHold(b)
	}

	if e.rt.segmentsTotal == 0 {
		return StatusMinimumTimeMove
	}

	if e.rt.SectionNew {
		e.rt.SectionNew = false
	}

	dv := forwardDiffNext(&e.rt.fd)
	e.rt.Velocity += dv
	e.rt.segmentIndex++

	isFinalSegmentOfBlock := e.rt.Section == SectionTail && e.rt.segmentIndex == e.rt.segmentsTotal
	isFinalSegmentOfSection := e.rt.segmentIndex == e.rt.segmentsTotal

	if isFinalSegmentOfSection && !(isFinalSegmentOfBlock && holding) {
		e.rt.Position = e.waypointFor(e.rt.Section)
	} else {
		e.rt.Position = addVec(e.rt.Position, scaleVec(e.rt.unit, e.rt.Velocity*e.rt.segmentTime))
	}

	return StatusSegment
}

func (e *Executor) waypointFor(s Section) [6]float64 {
	switch s {
	case SectionHead:
		return e.rt.headWaypoint
	case SectionBody:
		return e.rt.bodyWaypoint
	default:
		return e.rt.tailWaypoint
	}
}

// holdTolerance is the length-comparison tolerance plan_hold uses to
// call a feedhold stop a perfect fit rather than split a restart
// buffer (spec.md section 4.5).
const holdTolerance = 1e-6

// planHold implements spec.md section 4.5's plan_hold: triggered once
// per block when the plan-state becomes stopping, it replans the
// in-flight buffer's tail to a jerk-limited stop at the next reachable
// braking point. It runs once per block (guarded by rt.HoldPlanned)
// since the buffer it rewrites would otherwise be replanned again on
// every remaining segment.
func (e *Executor) planHold(b *planner.Buffer) {
	e.rt.HoldPlanned = true

	availableLength := vecLen(subVec(b.Target, e.rt.Position))
	brakingVelocity := e.rt.PeekNextVelocity()
	if brakingVelocity < 0 {
		brakingVelocity = 0
	}
	brakingLength := planner.TargetLength(brakingVelocity, 0, b.RecipJerk)

	var tailLength, exitVelocity float64
	switch {
	case math.Abs(availableLength-brakingLength) < holdTolerance:
		// Case 1: perfect fit; force exit to zero at the block's own end.
		tailLength = availableLength
		exitVelocity = 0

	case brakingLength < availableLength:
		// Case 2: room to spare; stop early and split the untraveled
		// remainder into a restart buffer that resumes the line later.
		tailLength = brakingLength
		exitVelocity = 0
		stop := addVec(e.rt.Position, scaleVec(e.rt.unit, tailLength))
		e.splitRestart(b, availableLength-brakingLength)
		b.Target = stop

	default:
		// Case 3: braking needs more room than this block has left.
		// Brake as hard as possible over what remains; later buffers
		// continue the deceleration once the backplanner re-propagates
		// zero through the queue on resume.
		tailLength = availableLength
		exitVelocity = brakingVelocity - planner.TargetVelocity(0, availableLength, b.CbrtJerk, b.Jerk)
		if exitVelocity < 0 {
			exitVelocity = 0
		}
	}

	b.TailLength = tailLength
	b.ExitVelocity = exitVelocity

	e.rt.Section = SectionTail
	e.rt.tailWaypoint = addVec(e.rt.Position, scaleVec(e.rt.unit, tailLength))

	moveTime := tailLength / math.Max((brakingVelocity+exitVelocity)/2, 1e-9)
	segments := int(math.Ceil(moveTime / e.params.NominalSegmentTime))
	if segments < 1 {
		segments = 1
	}
	segmentTime := moveTime / float64(segments)
	if segmentTime < e.params.MinSegmentTime {
		e.rt.segmentsTotal = 0
		e.rt.segmentIndex = 0
		e.rt.SectionNew = true
		return
	}

	v0, fd := forwardDiffInit(brakingVelocity, exitVelocity, segments)
	e.rt.Velocity = v0
	e.rt.fd = fd
	e.rt.segmentsTotal = segments
	e.rt.segmentIndex = 0
	e.rt.segmentTime = segmentTime
	e.rt.SectionNew = true
}

// splitRestart carves the untraveled remainder of a held block into a
// new buffer inserted immediately behind the current one, marked
// planner.StateRestart, so it resumes the rest of the line once the
// hold releases (spec.md section 4.5).
func (e *Executor) splitRestart(b *planner.Buffer, remainder float64) {
	restart := e.ring.InsertRestart()
	if restart == nil {
		return // ring full: remainder is dropped rather than stalling the hold
	}
	restart.Callback = planner.CallbackAline
	restart.Target = b.Target
	restart.Unit = b.Unit
	restart.Length = remainder
	restart.WorkOffset = b.WorkOffset
	restart.Jerk, restart.RecipJerk, restart.CbrtJerk = b.Jerk, b.RecipJerk, b.CbrtJerk
	restart.EntryVelocity, restart.EntryVmax = 0, 0
	restart.CruiseVmax = b.CruiseVmax
	restart.ExitVmax = b.ExitVmax
	restart.ExitVelocity = b.ExitVelocity
	restart.DeltaVmax = planner.TargetVelocity(0, remainder, b.CbrtJerk, b.Jerk)
	restart.Replannable = true
	restart.LineNumber = b.LineNumber
}

func vecLen(v [6]float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// advanceSection moves to the next non-empty section of the block,
// computing its segment count and forward-difference seed. Returns
// false when there is no further section (block complete).
func (e *Executor) advanceSection(b *planner.Buffer) bool {
	order := []struct {
		sec    Section
		length float64
		vStart float64
		vEnd   float64
	}{
		{SectionHead, b.HeadLength, b.EntryVelocity, b.CruiseVelocity},
		{SectionBody, b.BodyLength, b.CruiseVelocity, b.CruiseVelocity},
		{SectionTail, b.TailLength, b.CruiseVelocity, b.ExitVelocity},
	}
	for e.rt.Section < SectionTail {
		next := e.rt.Section + 1
		spec := order[next-1]
		e.rt.Section = next
		if spec.length <= 0 {
			continue
		}
		moveTime := spec.length / math.Max((spec.vStart+spec.vEnd)/2, 1e-9)
		segments := int(math.Ceil(moveTime / e.params.NominalSegmentTime))
		if segments < 1 {
			segments = 1
		}
		segmentTime := moveTime / float64(segments)
		if segmentTime < e.params.MinSegmentTime {
			e.rt.segmentsTotal = 0
			e.rt.segmentIndex = 0
			e.rt.SectionNew = true
			return true
		}
		v0, fd := forwardDiffInit(spec.vStart, spec.vEnd, segments)
		e.rt.Velocity = v0
		e.rt.fd = fd
		e.rt.segmentsTotal = segments
		e.rt.segmentIndex = 0
		e.rt.segmentTime = segmentTime
		e.rt.SectionNew = true
		return true
	}
	e.rt.Section = SectionNone
	return false
}

// execDwell stages the buffer's dwell duration for the scheduler on
// first entry (StatusDwellReady), then waits for the loader to report
// the dwell has run its course before advancing the ring, satisfying
// spec.md section 4.6's prep_dwell hand-off.
func (e *Executor) execDwell(b *planner.Buffer) Status {
	if !e.rt.staged {
		e.rt.staged = true
		e.rt.DwellSecs = b.DwellSecs
		return StatusDwellReady
	}
	if e.loader != nil && e.loader.Busy() {
		return StatusNoOp
	}
	e.ring.Advance()
	e.rt.Busy = false
	return StatusBlockComplete
}

// execCommand stages the buffer's synchronous command for the
// scheduler on first entry (StatusCommandReady), per spec.md section
// 4.6's prep_command and the section 5 guarantee that it fires at the
// moment its buffer reaches the head.
func (e *Executor) execCommand(b *planner.Buffer) Status {
	if !e.rt.staged {
		e.rt.staged = true
		e.rt.Command = b.Command
		return StatusCommandReady
	}
	if e.loader != nil && e.loader.Busy() {
		return StatusNoOp
	}
	e.ring.Advance()
	e.rt.Busy = false
	return StatusBlockComplete
}

func addVec(a, b [6]float64) [6]float64 {
	var r [6]float64
	for i := range r {
		r[i] = a[i] + b[i]
	}
	return r
}
func subVec(a, b [6]float64) [6]float64 {
	var r [6]float64
	for i := range r {
		r[i] = a[i] - b[i]
	}
	return r
}
func scaleVec(a [6]float64, s float64) [6]float64 {
	var r [6]float64
	for i := range r {
		r[i] = a[i] * s
	}
	return r
}
