// Package planner implements the move queue: a fixed-capacity ring of
// buffer descriptors, per-block trapezoid fitting and the two-pass
// backplanner that propagates junction velocities across queued blocks
// (spec.md section 4.4).
package planner

import "time"

// State is a buffer's lifecycle state (spec.md section 3).
type State int

const (
	StateEmpty State = iota
	StateNew
	StateInit
	StateActive
	StateRestart
)

// Callback selects what a buffer does when it reaches the head of the
// queue. Modeled as a tagged variant rather than a function pointer,
// per spec.md section 9 design notes.
type Callback int

const (
	CallbackNone Callback = iota
	CallbackAline
	CallbackDwell
	CallbackCommand
)

// CommandKind enumerates the synchronous, zero-motion commands a
// buffer can carry.
type CommandKind int

const (
	CommandNone CommandKind = iota
	CommandToolChange
	CommandCoolant
	CommandSpindleSpeed
	CommandWorkOffsetUpdate
	CommandProgramStop
	CommandProgramEnd
)

// Command is the payload of a CallbackCommand buffer.
type Command struct {
	Kind         CommandKind
	SpindleSpeed float64
	Mist, Flood  bool
	WorkOffset   [6]float64
	Optional     bool
}

// Buffer is one ring entry describing a queued action (spec.md section 3).
type Buffer struct {
	state    State
	newAt    time.Time
	Callback Callback

	Target     [6]float64
	Unit       [6]float64
	Length     float64
	HeadLength float64
	BodyLength float64
	TailLength float64
	WorkOffset [6]float64

	EntryVelocity  float64
	CruiseVelocity float64
	ExitVelocity   float64
	EntryVmax      float64
	CruiseVmax     float64
	ExitVmax       float64
	DeltaVmax      float64
	BrakingVel     float64

	Jerk      float64
	RecipJerk float64
	CbrtJerk  float64

	Replannable bool
	Hold        bool

	LineNumber int
	Value      float64
	DwellSecs  float64
	Command    Command
}

// State returns the buffer's lifecycle state.
func (b *Buffer) State() State { return b.state }

// NewAt returns the timestamp at which the buffer was allocated
// (state transitioned to StateNew).
func (b *Buffer) NewAt() time.Time { return b.newAt }

// Activate transitions a buffer from StateInit to StateActive once the
// executor has computed its waypoints and begun emitting segments.
func (b *Buffer) Activate() { b.state = StateActive }

func (b *Buffer) reset() {
	*b = Buffer{state: StateEmpty}
}
