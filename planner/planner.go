package planner

import (
	"math"

	"github.com/buildbotics-go/motioncore/axis"
)

// Planner is the public entry point of spec.md section 4.4: the move
// queue plus the hot-path aline computation and the backplanner.
type Planner struct {
	ring    *Ring
	axes    [6]*axis.Axis
	params  Params
	junction JunctionParams

	position [6]float64 // current planned (not yet executed) position
}

// New constructs a Planner over a ring of the given capacity.
func New(capacity int, axes [6]*axis.Axis, params Params, junction JunctionParams) *Planner {
	return &Planner{
		ring:     NewRing(capacity),
		axes:     axes,
		params:   params,
		junction: junction,
	}
}

// Ring exposes the underlying buffer ring (read-only use by the
// executor/loader).
func (p *Planner) Ring() *Ring { return p.ring }

// QueueGetTail returns the writable tail buffer, or nil if full.
func (p *Planner) QueueGetTail() *Buffer { return p.ring.GetTail() }

// QueuePush commits the tail buffer as a new buffer with the given
// callback and line number.
func (p *Planner) QueuePush(cb Callback, lineNumber int) *Buffer {
	return p.ring.Push(cb, lineNumber)
}

// FlushPlanner discards all queued buffers.
func (p *Planner) FlushPlanner() {
	p.ring.Flush()
	p.position = lastKnownPositionOrZero(p.position)
}

func lastKnownPositionOrZero(pos [6]float64) [6]float64 { return pos }

// SyncPosition resets the planner's notion of current position, used
// when the machine model's position is authoritative (flush, jog exit).
func (p *Planner) SyncPosition(pos [6]float64) { p.position = pos }

// Position returns the planner's current (tail-end) position.
func (p *Planner) Position() [6]float64 { return p.position }

// Aline is the hot path of spec.md section 4.4: computes unit vector,
// length, per-axis times, selects the jerk-limiting axis, derives the
// block's jerk, computes the junction velocity against the previous
// buffer, populates entry/cruise/exit maxima, runs the backplanner and
// pushes the buffer. feedRate is in the units calc_model_target already
// resolved to (mm/min, or 1/min if inverseTime).
func (p *Planner) Aline(target [6]float64, feedRate float64, inverseTime bool, lineNumber int, exactStop bool) error {
	b := p.ring.GetTail()
	if b == nil {
		return ErrQueueFull
	}

	var delta [6]float64
	total := 0.0
	for i := 0; i < 6; i++ {
		delta[i] = target[i] - p.position[i]
		total += delta[i] * delta[i]
	}
	length := math.Sqrt(total)
	b.Target = target
	b.Length = length

	if length > 0 {
		for i := 0; i < 6; i++ {
			b.Unit[i] = delta[i] / length
		}
	}

	jerk, recipJerk, cbrtJerk := JerkAxisSelect(delta, length, p.axes)
	b.Jerk, b.RecipJerk, b.CbrtJerk = jerk, recipJerk, cbrtJerk

	t := MoveTime(delta, feedRate, inverseTime)
	t = RateLimit(t, delta, p.axes)
	if t < p.params.MinSegmentTime {
		t = p.params.MinSegmentTime
	}

	cruiseVmax := length / math.Max(t, 1e-12)
	for i := 0; i < 6; i++ {
		if delta[i] == 0 || p.axes[i] == nil || p.axes[i].MaxVelocity <= 0 {
			continue
		}
		axisTime := math.Abs(delta[i]) / p.axes[i].MaxVelocity
		if axisTime > t {
			cruiseVmax = math.Min(cruiseVmax, math.Abs(delta[i])/axisTime)
		}
	}
	b.CruiseVmax = cruiseVmax
	b.ExitVmax = cruiseVmax
	b.DeltaVmax = TargetVelocity(0, length, cbrtJerk, jerk)

	var deviation [6]float64
	for i := 0; i < 6; i++ {
		if p.axes[i] != nil {
			deviation[i] = p.axes[i].JunctionDeviation
		}
	}

	if prev := p.ring.Tail(); prev != nil && prev.Callback == CallbackAline && length > 0 {
		jp := p.junction
		jp.ExactStop = exactStop
		b.EntryVmax = JunctionVelocity(prev.Unit, b.Unit, deviation, cruiseVmax, jp)
	} else if exactStop {
		b.EntryVmax = 0
	} else {
		b.EntryVmax = cruiseVmax
	}

	b.EntryVelocity = b.EntryVmax
	b.CruiseVelocity = b.CruiseVmax
	b.ExitVelocity = b.ExitVmax
	b.Replannable = true

	pushed := p.ring.Push(CallbackAline, lineNumber)
	pushed.LineNumber = lineNumber
	p.position = target

	p.PlanBlockList()
	return nil
}

// QueueDwell enqueues a dwell buffer (spec.md section 4.4).
func (p *Planner) QueueDwell(seconds float64, lineNumber int) error {
	b := p.ring.GetTail()
	if b == nil {
		return ErrQueueFull
	}
	b.DwellSecs = seconds
	p.ring.Push(CallbackDwell, lineNumber)
	return nil
}

// QueueCommand enqueues a synchronous, zero-motion command buffer.
func (p *Planner) QueueCommand(cmd Command, lineNumber int) error {
	b := p.ring.GetTail()
	if b == nil {
		return ErrQueueFull
	}
	b.Command = cmd
	p.ring.Push(CallbackCommand, lineNumber)
	return nil
}

// ErrQueueFull is returned when the ring has no free slot; per spec.md
// section 7 this indicates a scheduling bug (the main loop is supposed
// to guarantee headroom before calling the parser).
var ErrQueueFull = queueFullError{}

type queueFullError struct{}

func (queueFullError) Error() string { return "planner: buffer ring full" }
