package machinemodel

import (
	"github.com/buildbotics-go/motioncore/arc"
	"github.com/buildbotics-go/motioncore/axis"
	"github.com/buildbotics-go/motioncore/gcode"
)

// exactStop reports whether the current path-control mode demands a
// full stop at this block's end (G61), feeding the planner's junction
// velocity bound.
func (m *Model) exactStop() bool { return m.pathControl == 1 }

func (m *Model) moveTarget(v gcode.Values, f gcode.Flags, machineCoords bool) ([6]float64, error) {
	var target [6]float64
	if machineCoords {
		target = m.position
		words := [6]struct {
			has bool
			val float64
		}{{f.X, v.X}, {f.Y, v.Y}, {f.Z, v.Z}, {f.A, v.A}, {f.B, v.B}, {f.C, v.C}}
		for i, w := range words {
			if w.has {
				target[i] = w.val
			}
		}
	} else {
		if err := m.syncWorkOffset(); err != nil {
			return target, err
		}
		target = m.calcTarget(v, f)
	}
	if err := m.softLimitCheck(target); err != nil {
		return target, err
	}
	return target, nil
}

func (m *Model) Rapid(v gcode.Values, f gcode.Flags, machineCoords bool) error {
	target, err := m.moveTarget(v, f, machineCoords)
	if err != nil {
		return err
	}
	err = m.planner.Aline(target, maxRapidRate(m.axes), false, m.lineNumber, m.exactStop())
	if err == nil {
		m.position = target
	}
	return err
}

func (m *Model) Feed(v gcode.Values, f gcode.Flags, machineCoords bool) error {
	if m.feedRate <= 0 {
		return ErrFeedrateNotSpecified
	}
	target, err := m.moveTarget(v, f, machineCoords)
	if err != nil {
		return err
	}
	err = m.planner.Aline(target, m.feedRate, m.inverseTime, m.lineNumber, m.exactStop())
	if err == nil {
		m.position = target
	}
	return err
}

// ArcFeed resolves the IJK/R center, subdivides the circle into chords
// via the arc package, and feeds each chord as an ordinary line move
// (spec.md section 4 overview, "arc_feed").
func (m *Model) ArcFeed(v gcode.Values, f gcode.Flags, cw bool) error {
	if m.feedRate <= 0 {
		return ErrFeedrateNotSpecified
	}
	end, err := m.moveTarget(v, f, false)
	if err != nil {
		return err
	}

	start := m.position
	ia, ib := 0, 1
	switch m.plane {
	case arc.PlaneXZ:
		ia, ib = 0, 2
	case arc.PlaneZY:
		ia, ib = 2, 1
	}

	var center [6]float64
	if f.I || f.J || f.K {
		center = start
		if f.I {
			center[0] = start[0] + v.I
		}
		if f.J {
			center[1] = start[1] + v.J
		}
		if f.K {
			center[2] = start[2] + v.K
		}
	} else if f.R {
		center = arcCenterFromRadius(start, end, v.R, ia, ib, cw)
	} else {
		return modelError("machinemodel: arc requires I/J/K or R")
	}

	dir := arc.CounterClockwise
	if cw {
		dir = arc.Clockwise
	}

	chords := arc.Generate(m.plane, dir, start, end, center, 0, m.arcCfg)
	for _, chord := range chords {
		if err := m.softLimitCheck(chord.Target); err != nil {
			return err
		}
		if err := m.planner.Aline(chord.Target, m.feedRate, m.inverseTime, m.lineNumber, false); err != nil {
			return err
		}
		m.position = chord.Target
	}
	return nil
}

func (m *Model) Probe(v gcode.Values, f gcode.Flags) error {
	if m.probeAsserted != nil && m.probeAsserted() {
		return modelError("machinemodel: probe switch already asserted")
	}
	target, err := m.moveTarget(v, f, false)
	if err != nil {
		return err
	}
	if err := m.planner.Aline(target, m.feedRate, m.inverseTime, m.lineNumber, true); err != nil {
		return err
	}
	m.position = target
	m.probeResult = m.position
	return nil
}

// maxRapidRate returns the fastest configured feedrate among the
// machine's axes, used as the nominal rate for G0 rapids; the
// planner's per-axis velocity and rate-limit logic bounds the actual
// move regardless of this value.
func maxRapidRate(axes [axis.Count]*axis.Axis) float64 {
	var max float64
	for _, a := range axes {
		if a != nil && a.MaxFeedrate > max {
			max = a.MaxFeedrate
		}
	}
	return max
}
