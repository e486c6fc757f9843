// Package machinemodel implements the G-code machine model of spec.md
// section 4.3: the singleton state record the parser mutates, target
// resolution (unit conversion, absolute/incremental composition,
// coordinate-system and G92 offset composition, rotary radius-mode
// rewriting), soft-limit enforcement, work-offset synchronisation, and
// program-end reset. It implements gcode.Machine.
package machinemodel

import (
	"github.com/buildbotics-go/motioncore/arc"
	"github.com/buildbotics-go/motioncore/axis"
	"github.com/buildbotics-go/motioncore/planner"
)

// NumCoordSystems is the count of predefined work coordinate systems,
// G54 through G59 (spec.md Non-goals: "multiple coordinate-system
// persistence beyond the six predefined ones").
const NumCoordSystems = 6

// Model is the G-code machine singleton.
type Model struct {
	axes    [axis.Count]*axis.Axis
	planner *planner.Planner
	arcCfg  arc.Params

	lineNumber int
	tool       float64

	feedRate       float64
	inverseTime    bool
	feedOverride   float64
	feedOverrideOn bool

	spindleSpeed          float64
	spindleMode           int // 0=off,3=CW,4=CCW
	spindleOn             bool
	spindleOverride       float64
	spindleOverrideOn     bool

	mist, flood bool

	plane       arc.Plane
	inches      bool
	distanceInc bool
	arcDistInc  bool
	pathControl int // 0=exact-path,1=exact-stop,2=continuous

	coordSystem     int // 1..6, selects coordOffsets[coordSystem-1]
	coordOffsets    [NumCoordSystems][6]float64
	originOffset    [6]float64
	originSuspended bool

	g28Position [6]float64
	g30Position [6]float64

	position   [6]float64 // current machine position, mm/degrees, absolute
	workOffset [6]float64 // last resolved, pushed offset vector

	probeResult   [6]float64
	probeAsserted func() bool

	programStopped bool
}

// New constructs a Model bound to the given axes and planner.
func New(axes [axis.Count]*axis.Axis, p *planner.Planner, probeAsserted func() bool) *Model {
	return &Model{
		axes:            axes,
		planner:         p,
		arcCfg:          arc.DefaultParams(),
		feedOverride:    1.0,
		spindleOverride: 1.0,
		coordSystem:     1,
		probeAsserted:   probeAsserted,
	}
}

func (m *Model) SetLineNumber(n float64) { m.lineNumber = int(n) }

func (m *Model) SetFeedMode(inverseTime bool) { m.inverseTime = inverseTime }
func (m *Model) SetFeedRate(rate float64)     { m.feedRate = rate }
func (m *Model) SetFeedOverride(factor float64, enable bool) {
	m.feedOverride, m.feedOverrideOn = factor, enable
}
func (m *Model) SetSpindleSpeed(rpm float64) { m.spindleSpeed = rpm }
func (m *Model) SetSpindleOverride(factor float64, enable bool) {
	m.spindleOverride, m.spindleOverrideOn = factor, enable
}

func (m *Model) SelectTool(t float64) { m.tool = t }
func (m *Model) ChangeTool() {
	m.planner.QueueCommand(planner.Command{Kind: planner.CommandToolChange}, m.lineNumber)
}

func (m *Model) SetSpindleMode(mode int) {
	m.spindleMode = mode
	m.spindleOn = mode != 0
	m.planner.QueueCommand(planner.Command{
		Kind:         planner.CommandSpindleSpeed,
		SpindleSpeed: m.effectiveSpindleSpeed(),
	}, m.lineNumber)
}

func (m *Model) effectiveSpindleSpeed() float64 {
	if !m.spindleOn {
		return 0
	}
	speed := m.spindleSpeed
	if m.spindleOverrideOn {
		speed *= m.spindleOverride
	}
	return speed
}

func (m *Model) SetCoolant(mist, flood bool) {
	m.mist, m.flood = mist, flood
	m.planner.QueueCommand(planner.Command{Kind: planner.CommandCoolant, Mist: mist, Flood: flood}, m.lineNumber)
}

func (m *Model) SetOverrideEnable(feed, spindle bool) {
	m.feedOverrideOn, m.spindleOverrideOn = feed, spindle
}

func (m *Model) Dwell(seconds float64) error {
	return m.planner.QueueDwell(seconds, m.lineNumber)
}

func (m *Model) SetPlane(plane int)                  { m.plane = arc.Plane(plane) }
func (m *Model) SetUnits(inches bool)                { m.inches = inches }
func (m *Model) SetPathControl(mode int)             { m.pathControl = mode }
func (m *Model) SetDistanceMode(incremental bool)    { m.distanceInc = incremental }
func (m *Model) SetArcDistanceMode(incremental bool) { m.arcDistInc = incremental }

func (m *Model) SetCoordSystem(n int) error {
	if n < 1 || n > NumCoordSystems {
		return errOutOfRange
	}
	m.coordSystem = n
	return m.syncWorkOffset()
}

type modelError string

func (e modelError) Error() string { return string(e) }

const errOutOfRange = modelError("machinemodel: coordinate system out of range")

// ErrFeedrateNotSpecified is returned by Feed/ArcFeed when neither the
// current block nor any prior block has set a feed rate (spec.md
// section 4.1: "without prior or current F word").
const ErrFeedrateNotSpecified = modelError("machinemodel: feed move requires a prior or current F word")
