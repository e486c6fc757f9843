package gcode

// Target is the resolved axis target vector plus arc data handed to a
// Machine's motion operations.
type Target struct {
	X, Y, Z, A, B, C float64
	I, J, K, R       float64
	HasIJK, HasR     bool
}

// Machine is the set of operations the parser dispatches into, per
// spec.md section 4.3. Implemented by machinemodel.Model.
type Machine interface {
	SetLineNumber(n float64)
	SetFeedMode(inverseTime bool)
	SetFeedRate(rate float64)
	SetFeedOverride(factor float64, enable bool)
	SetSpindleSpeed(rpm float64)
	SetSpindleOverride(factor float64, enable bool)
	SelectTool(t float64)
	ChangeTool()
	SetSpindleMode(mode int)
	SetCoolant(mist, flood bool)
	SetOverrideEnable(feed, spindle bool)
	Dwell(seconds float64) error
	SetPlane(plane int)
	SetUnits(inches bool)
	SetCoordSystem(n int) error
	SetPathControl(mode int)
	SetDistanceMode(incremental bool)
	SetArcDistanceMode(incremental bool)

	SetG28Position()
	GotoG28Position(v Values, f Flags, machineCoords bool) error
	SetG30Position()
	GotoG30Position(v Values, f Flags, machineCoords bool) error
	SetCoordDataSet(sys int, l float64, v Values, f Flags) error
	SetAbsoluteOrigin(v Values, f Flags) error
	SetOriginOffsets(v Values, f Flags) error
	ResetOriginOffsets()
	SuspendOriginOffsets()
	ResumeOriginOffsets()

	Rapid(v Values, f Flags, machineCoords bool) error
	Feed(v Values, f Flags, machineCoords bool) error
	ArcFeed(v Values, f Flags, cw bool) error
	Probe(v Values, f Flags) error

	ProgramStop(optional bool)
	PalletChange()
	ProgramEnd()
}

// hasCode reports whether want appears in a G/M code list.
func hasCode(list []float64, want float64) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

// Execute runs one normalized, word-parsed block against m, following
// the fixed execution order of spec.md section 4.1: line number, feed
// mode, feed rate, feed override, spindle speed, spindle override, tool
// select, tool change, spindle mode, coolant, override enables, dwell,
// plane, units, coordinate system, path control, distance mode,
// homing/go-home/set-home, coord data set, origin offsets, motion,
// program stops/ends.
func Execute(v Values, f Flags, m Machine) error {
	if err := ValidateModalGroups(v); err != nil {
		return err
	}

	if f.N {
		m.SetLineNumber(v.N)
	}

	if hasCode(v.G, 93) {
		m.SetFeedMode(true)
	} else if hasCode(v.G, 94) {
		m.SetFeedMode(false)
	}
	if f.F {
		m.SetFeedRate(v.F)
	}

	if hasCode(v.M, 50) {
		m.SetFeedOverride(1.0, true)
	}
	if f.S {
		m.SetSpindleSpeed(v.S)
	}
	if hasCode(v.M, 51) {
		m.SetSpindleOverride(1.0, true)
	}

	if f.T {
		m.SelectTool(v.T)
	}
	if hasCode(v.M, 6) {
		m.ChangeTool()
	}
	if hasCode(v.M, 3) {
		m.SetSpindleMode(3)
	} else if hasCode(v.M, 4) {
		m.SetSpindleMode(4)
	} else if hasCode(v.M, 5) {
		m.SetSpindleMode(0)
	}

	mist := hasCode(v.M, 7)
	flood := hasCode(v.M, 8)
	if mist || flood || hasCode(v.M, 9) {
		m.SetCoolant(mist, flood)
	}
	if hasCode(v.M, 48) {
		m.SetOverrideEnable(true, true)
	}
	if hasCode(v.M, 49) {
		m.SetOverrideEnable(false, false)
	}

	if hasCode(v.G, 4) {
		if !f.P {
			return &ParseError{Code: ErrBadNumberFormat, Msg: "G4 requires P"}
		}
		if err := m.Dwell(v.P); err != nil {
			return err
		}
	}

	if hasCode(v.G, 17) {
		m.SetPlane(0)
	} else if hasCode(v.G, 18) {
		m.SetPlane(1)
	} else if hasCode(v.G, 19) {
		m.SetPlane(2)
	}

	if hasCode(v.G, 20) {
		m.SetUnits(true)
	} else if hasCode(v.G, 21) {
		m.SetUnits(false)
	}

	for cs := 54; cs <= 59; cs++ {
		if hasCode(v.G, float64(cs)) {
			if err := m.SetCoordSystem(cs - 53); err != nil {
				return err
			}
		}
	}

	if hasCode(v.G, 61) {
		m.SetPathControl(0)
	} else if hasCode(v.G, 61.1) {
		m.SetPathControl(1)
	} else if hasCode(v.G, 64) {
		m.SetPathControl(2)
	}

	if hasCode(v.G, 90) {
		m.SetDistanceMode(false)
	} else if hasCode(v.G, 91) {
		m.SetDistanceMode(true)
	}
	if hasCode(v.G, 90.1) {
		m.SetArcDistanceMode(false)
	} else if hasCode(v.G, 91.1) {
		m.SetArcDistanceMode(true)
	}

	machineCoords := hasCode(v.G, 53)

	if hasCode(v.G, 28) {
		if err := m.GotoG28Position(v, f, machineCoords); err != nil {
			return err
		}
	}
	if hasCode(v.G, 28.1) {
		m.SetG28Position()
	}
	if hasCode(v.G, 30) {
		if err := m.GotoG30Position(v, f, machineCoords); err != nil {
			return err
		}
	}
	if hasCode(v.G, 30.1) {
		m.SetG30Position()
	}
	if hasCode(v.G, 28.3) {
		if err := m.SetAbsoluteOrigin(v, f); err != nil {
			return err
		}
	}

	if hasCode(v.G, 10) {
		if !f.L || v.L != 2 {
			return &ParseError{Code: ErrMalformedCommand, Msg: "G10 requires L2"}
		}
		sys := 1
		if f.P {
			sys = int(v.P)
		}
		if err := m.SetCoordDataSet(sys, v.L, v, f); err != nil {
			return err
		}
	}

	if hasCode(v.G, 92) {
		if err := m.SetOriginOffsets(v, f); err != nil {
			return err
		}
	} else if hasCode(v.G, 92.1) {
		m.ResetOriginOffsets()
	} else if hasCode(v.G, 92.2) {
		m.SuspendOriginOffsets()
	} else if hasCode(v.G, 92.3) {
		m.ResumeOriginOffsets()
	}

	code, isNonModal, present := ResolveMotionWord(v)
	if present && !isNonModal {
		switch code {
		case 0:
			if err := m.Rapid(v, f, machineCoords); err != nil {
				return err
			}
		case 1:
			if err := m.Feed(v, f, machineCoords); err != nil {
				return err
			}
		case 2:
			if err := m.ArcFeed(v, f, true); err != nil {
				return err
			}
		case 3:
			if err := m.ArcFeed(v, f, false); err != nil {
				return err
			}
		case 38.2:
			if !f.X && !f.Y && !f.Z {
				return &ParseError{Code: ErrAxisMissingForProbe, Msg: "G38.2 requires at least one of X Y Z"}
			}
			if err := m.Probe(v, f); err != nil {
				return err
			}
		case 80:
			// motion mode cancel: no immediate motion
		}
	}

	if hasCode(v.M, 0) {
		m.ProgramStop(false)
	}
	if hasCode(v.M, 1) {
		m.ProgramStop(true)
	}
	if hasCode(v.M, 60) {
		m.PalletChange()
	}
	if hasCode(v.M, 2) || hasCode(v.M, 30) {
		m.ProgramEnd()
	}

	return nil
}
