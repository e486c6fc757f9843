package machinemodel

import "github.com/buildbotics-go/motioncore/planner"

func (m *Model) ProgramStop(optional bool) {
	m.programStopped = true
	m.planner.QueueCommand(planner.Command{Kind: planner.CommandProgramStop, Optional: optional}, m.lineNumber)
}

func (m *Model) PalletChange() {
	m.planner.QueueCommand(planner.Command{Kind: planner.CommandProgramStop}, m.lineNumber)
}

// ProgramEnd implements spec.md section 4.3's program-end reset: origin
// offsets cancelled, default coord system, default plane, absolute
// distance mode, units-per-minute feed mode, spindle off, coolant off,
// motion mode cancelled.
func (m *Model) ProgramEnd() {
	m.originOffset = [6]float64{}
	m.originSuspended = false
	m.coordSystem = 1
	m.plane = 0 // PlaneXY
	m.distanceInc = false
	m.inverseTime = false
	m.syncWorkOffset()
	m.SetSpindleMode(0)
	m.SetCoolant(false, false)
	m.planner.QueueCommand(planner.Command{Kind: planner.CommandProgramEnd}, m.lineNumber)
}
