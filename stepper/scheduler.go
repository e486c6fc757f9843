package stepper

import (
	"math"

	"github.com/buildbotics-go/motioncore/axis"
	"github.com/buildbotics-go/motioncore/planner"
)

// MoveType distinguishes what the loader commits next, mirroring the
// original firmware's run_move/prep_move tag (spec.md section 4.6).
type MoveType int

const (
	MoveNone MoveType = iota
	MoveAline
	MoveDwell
	MoveCommand
)

// TimerFrequencyHz is the step timer's input clock; real hardware reads
// this from the MCU's peripheral clock tree, here it is a fixed
// constant representative of the class of MCU the pack targets.
const TimerFrequencyHz = 32_000_000

// StepTimerDiv is the fixed divider applied before the per-motor
// prescaler cascade (spec.md section 4.6, "ticks-per-step fit in 16
// bits").
const StepTimerDiv = 2

// epsilonSegTime rejects degenerate segments, matching the original
// firmware's EPSILON guard in st_prep_line.
const epsilonSegTime = 1e-10

// Scheduler is the segment loader of spec.md section 4.6: it accepts
// one prepared segment at a time from the executor, and on LoadMove
// commits it to the motor drivers.
type Scheduler struct {
	motors []*MotorState
	axes   [axis.Count]*axis.Axis

	busy bool

	prepMove    MoveType
	prepDwell   int // 1ms ticks
	prepCommand planner.Command
	moveReady   bool

	runMove  MoveType
	runDwell int

	segClocks int64
	onCommand func(planner.Command)
}

// NewScheduler constructs a Scheduler over the given motors (index i
// corresponds to motor i in kinematics output order).
func NewScheduler(motors []*MotorState, axes [axis.Count]*axis.Axis, onCommand func(planner.Command)) *Scheduler {
	return &Scheduler{motors: motors, axes: axes, onCommand: onCommand}
}

// ErrMoveNotReady is returned by PrepLine/PrepDwell/PrepCommand when a
// prepared move is still waiting for the loader (the original
// firmware's STAT_INTERNAL_ERROR hard alarm — here a recoverable
// error since Go has no hard-alarm equivalent at this layer).
type ErrMoveNotReady struct{}

func (ErrMoveNotReady) Error() string { return "stepper: prep buffer not yet consumed by loader" }

// ErrMinimumTimeMove signals the segment was too short to schedule and
// should be treated as a no-op by the caller (spec.md section 4.6).
type ErrMinimumTimeMove struct{}

func (ErrMinimumTimeMove) Error() string { return "stepper: segment time below minimum" }

// PrepLine registers one motion segment. travel is the ideal
// (uncorrected) per-motor absolute step position the segment ends at;
// seg_time is in minutes, matching the planner's time unit.
func (s *Scheduler) PrepLine(travel [axis.Count]float64, segTime float64) error {
	if s.moveReady {
		return ErrMoveNotReady{}
	}
	if math.IsInf(segTime, 0) || math.IsNaN(segTime) {
		return ErrMinimumTimeMove{}
	}
	if segTime < epsilonSegTime {
		return ErrMinimumTimeMove{}
	}

	segPeriod := segTime * 60 * TimerFrequencyHz / StepTimerDiv
	s.segClocks = int64(segPeriod) * StepTimerDiv

	for i, m := range s.motors {
		if m == nil {
			continue
		}
		if i >= len(travel) {
			continue
		}
		if err := m.prep(travel[i], s.segClocks); err != nil {
			return err
		}
	}

	s.prepMove = MoveAline
	s.moveReady = true
	return nil
}

// PrepDwell registers a dwell segment of the given duration, ticking at
// 1ms per the original firmware's dwell timer mode.
func (s *Scheduler) PrepDwell(seconds float64) error {
	if s.moveReady {
		return ErrMoveNotReady{}
	}
	s.prepMove = MoveDwell
	s.prepDwell = int(seconds * 1000)
	s.moveReady = true
	return nil
}

// PrepCommand stages a synchronous, zero-motion command to fire at the
// next load boundary.
func (s *Scheduler) PrepCommand(cmd planner.Command) error {
	if s.moveReady {
		return ErrMoveNotReady{}
	}
	s.prepMove = MoveCommand
	s.prepCommand = cmd
	s.moveReady = true
	return nil
}

// Busy reports whether a move is currently running.
func (s *Scheduler) Busy() bool { return s.busy }

// LoadMove swaps a prepared segment into the run state. It must be
// called only when the previous segment has finished (Busy() == false).
// Returns false if there is nothing ready to load.
func (s *Scheduler) LoadMove() (bool, error) {
	if s.busy || !s.moveReady {
		return false, nil
	}

	s.runMove = s.prepMove

	switch s.runMove {
	case MoveDwell:
		s.runDwell = s.prepDwell
		s.busy = true

	case MoveAline:
		for _, m := range s.motors {
			if m == nil {
				continue
			}
			if err := m.load(); err != nil {
				return false, err
			}
		}
		s.busy = true

	case MoveCommand:
		if s.onCommand != nil {
			s.onCommand(s.prepCommand)
		}

	default:
	}

	s.prepMove = MoveNone
	s.moveReady = false
	return true, nil
}

// Tick advances the dwell countdown by one timer interrupt; callers
// drive this from the step timer ISR equivalent. Returns true once the
// dwell (or, for aline moves, the caller's own segment-complete signal)
// has finished and the runtime is no longer busy.
func (s *Scheduler) Tick() bool {
	if s.runMove == MoveDwell {
		s.runDwell--
		if s.runDwell > 0 {
			return false
		}
	}
	s.busy = false
	s.runMove = MoveNone
	return true
}

// Kinematics converts an absolute travel vector in axis units to a
// per-motor step delta vector, honoring inhibited/unmapped axes
// (spec.md section 4.6).
func (s *Scheduler) Kinematics(travel [axis.Count]float64) [axis.Count]float64 {
	var motorsConfig axis.Config
	motorsConfig.Axes = s.axes
	for _, m := range s.motors {
		if m != nil {
			motorsConfig.Motors = append(motorsConfig.Motors, m.Motor)
		}
	}
	steps := motorsConfig.Kinematics(travel)
	var out [axis.Count]float64
	copy(out[:], steps)
	return out
}
