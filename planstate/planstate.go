// Package planstate implements the plan-state machine of spec.md
// section 4.8: ready/running/stopping/holding/estopped, driven by
// asynchronously-set request flags and serviced once per main loop
// tick.
package planstate

import "github.com/buildbotics-go/motioncore/planner"

// State is one of the plan-state machine's states.
type State int

const (
	StateReady State = iota
	StateRunning
	StateStopping
	StateHolding
	StateEstopped
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateHolding:
		return "holding"
	case StateEstopped:
		return "estopped"
	default:
		return "unknown"
	}
}

// RuntimeStatus is the subset of executor state the plan-state machine
// needs to decide quiescence, kept narrow to avoid an import cycle with
// the executor package.
type RuntimeStatus interface {
	Busy() bool
}

// Requests are the asynchronously-set flags spec.md section 4.8
// describes; callers (the command dispatcher, a panic-stop GPIO ISR)
// set these and the machine resolves them on the next Tick.
type Requests struct {
	Hold    bool
	Flush   bool
	Start   bool
	Resume  bool
	Estop   bool
	EstopID EstopCause
}

// FlushFunc is called by Tick right after it has discarded the queued
// planner buffers (spec.md section 4.8, "flush request while
// quiescent"); it returns the runtime's encoder-derived position, which
// Tick uses to resync the planner. position is in axis units, absolute.
type FlushFunc func() (position [6]float64)

// Machine is the plan-state machine.
type Machine struct {
	state   State
	ring    *planner.Ring
	runtime RuntimeStatus
	flush   FlushFunc
	estop   *EstopLatch

	req Requests
}

// New constructs a Machine bound to the planner's ring and the
// executor's busy flag.
func New(ring *planner.Ring, runtime RuntimeStatus, flush FlushFunc, estop *EstopLatch) *Machine {
	return &Machine{ring: ring, runtime: runtime, flush: flush, estop: estop}
}

// State returns the current plan-state.
func (m *Machine) State() State { return m.state }

// Stopping reports whether a feedhold has been requested and is still
// being braked into, satisfying the executor's HoldRequester interface
// (spec.md section 4.5's plan_hold trigger).
func (m *Machine) Stopping() bool { return m.state == StateStopping }

// Request merges new request flags; flags are OR'd in, never cleared by
// the caller — Tick clears them as it resolves each rule.
func (m *Machine) Request(r Requests) {
	m.req.Hold = m.req.Hold || r.Hold
	m.req.Flush = m.req.Flush || r.Flush
	m.req.Start = m.req.Start || r.Start
	m.req.Resume = m.req.Resume || r.Resume
	if r.Estop {
		m.req.Estop = true
		m.req.EstopID = r.EstopID
	}
}

func (m *Machine) quiescent() bool {
	busy := m.runtime != nil && m.runtime.Busy()
	return !busy && (m.state == StateReady || m.state == StateHolding)
}

// Tick resolves one round of request flags against the current state,
// in the fixed order spec.md section 4.8 specifies. It must be called
// once per main loop iteration.
func (m *Machine) Tick(p *planner.Planner) {
	if m.req.Estop {
		if m.estop != nil {
			m.estop.Latch(m.req.EstopID)
		}
		m.state = StateEstopped
		m.req = Requests{}
		return
	}
	if m.state == StateEstopped {
		return // unrecoverable without an external reset
	}

	if (m.req.Hold || m.req.Flush) && m.state == StateRunning {
		m.state = StateStopping
		m.req.Hold = false
		// flush retained
	}

	if m.state == StateStopping && (m.runtime == nil || !m.runtime.Busy()) {
		m.state = StateHolding
	}

	if m.req.Flush && m.quiescent() {
		m.req.Flush = false
		if m.ring != nil {
			m.ring.Flush()
		}
		var pos [6]float64
		if m.flush != nil {
			pos = m.flush()
		}
		if p != nil {
			p.SyncPosition(pos)
		}
	}

	if m.req.Resume && !m.req.Flush && m.req.Hold == false {
		// resume after flush: only meaningful once flush has cleared
		if m.state == StateHolding {
			m.req.Resume = false
			m.state = StateReady
		}
	}

	if m.req.Start {
		switch m.state {
		case StateHolding:
			if m.ring != nil && !m.ring.Empty() && p != nil {
				p.ReplanBlocks()
				m.state = StateRunning
			} else {
				m.state = StateReady
			}
			m.req.Start = false
		case StateReady:
			m.state = StateRunning
			m.req.Start = false
		case StateStopping:
			// deferred, not dropped
		}
	}
}
