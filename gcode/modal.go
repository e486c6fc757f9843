package gcode

// ModalGroup names one of the mutually-exclusive modal groups spec.md
// section 4.1 requires: at most one member of a group may appear in a
// single block.
type ModalGroup int

const (
	GroupMotion ModalGroup = iota // G0 G1 G2 G3 G38.2 G80
	GroupNonModalAxis               // G10 G28 G28.1 G92
	GroupPlane                      // G17 G18 G19
	GroupUnits                      // G20 G21
	GroupDistance                   // G90 G91
	GroupArcDistance                // G90.1 G91.1
	GroupFeedMode                    // G93 G94
	GroupPathControl                 // G61 G61.1 G64
	GroupCoordSystem                 // G54..G59

	GroupProgramFlow // M0 M1 M2 M30 M60
	GroupSpindle     // M3 M4 M5
	GroupCoolant     // M7 M8 M9 (non-exclusive in NIST, treated as a group here for validation simplicity)
	GroupToolChange  // M6
	GroupOverride    // M48 M49 M50 M51
)

// gGroup maps a G code (encoded as e.g. 28.1 for G28.1) to its modal
// group. Codes not present here (dwell G4, for example) belong to no
// group and are not checked.
var gGroup = map[float64]ModalGroup{
	0: GroupMotion, 1: GroupMotion, 2: GroupMotion, 3: GroupMotion,
	38.2: GroupMotion, 80: GroupMotion,

	10: GroupNonModalAxis, 28: GroupNonModalAxis, 28.1: GroupNonModalAxis,
	92: GroupNonModalAxis,

	17: GroupPlane, 18: GroupPlane, 19: GroupPlane,
	20: GroupUnits, 21: GroupUnits,
	90: GroupDistance, 91: GroupDistance,
	90.1: GroupArcDistance, 91.1: GroupArcDistance,
	93: GroupFeedMode, 94: GroupFeedMode,
	61: GroupPathControl, 61.1: GroupPathControl, 64: GroupPathControl,
	54: GroupCoordSystem, 55: GroupCoordSystem, 56: GroupCoordSystem,
	57: GroupCoordSystem, 58: GroupCoordSystem, 59: GroupCoordSystem,
}

var mGroup = map[float64]ModalGroup{
	0: GroupProgramFlow, 1: GroupProgramFlow, 2: GroupProgramFlow,
	30: GroupProgramFlow, 60: GroupProgramFlow,
	3: GroupSpindle, 4: GroupSpindle, 5: GroupSpindle,
	7: GroupCoolant, 8: GroupCoolant, 9: GroupCoolant,
	6: GroupToolChange,
	48: GroupOverride, 49: GroupOverride, 50: GroupOverride, 51: GroupOverride,
}

// ValidateModalGroups checks that no modal group has two members in the
// same block. A GroupMotion word and a GroupNonModalAxis word in one
// block belong to different groups and so are not a conflict;
// ResolveMotionWord decides which of them uses the block's axis words.
func ValidateModalGroups(v Values) error {
	seen := map[ModalGroup]float64{}
	check := func(code float64, group ModalGroup, table map[float64]ModalGroup) error {
		if prev, ok := seen[group]; ok {
			return &ParseError{Code: ErrModalGroupConflict,
				Msg: "duplicate modal group member in block: " + fcode(prev) + " and " + fcode(code)}
		}
		seen[group] = code
		return nil
	}
	for _, g := range v.G {
		grp, ok := gGroup[g]
		if !ok {
			continue
		}
		if err := check(g, grp, gGroup); err != nil {
			return err
		}
	}
	for _, m := range v.M {
		grp, ok := mGroup[m]
		if !ok {
			continue
		}
		if err := check(m, grp, mGroup); err != nil {
			return err
		}
	}
	return nil
}

// ResolveMotionWord implements the tie-break spec.md section 4.1
// describes: when a GroupMotion G-word and a GroupNonModalAxis G-word
// both appear in one block, the non-modal axis word wins for this
// block (e.g. "G1 G28 X0" executes the G28, not a G1 move).
func ResolveMotionWord(v Values) (code float64, isNonModalAxis bool, present bool) {
	var motion float64
	haveMotion := false
	var nonModal float64
	haveNonModal := false
	for _, g := range v.G {
		if grp, ok := gGroup[g]; ok {
			switch grp {
			case GroupMotion:
				motion, haveMotion = g, true
			case GroupNonModalAxis:
				nonModal, haveNonModal = g, true
			}
		}
	}
	if haveNonModal {
		return nonModal, true, true
	}
	if haveMotion {
		return motion, false, true
	}
	return 0, false, false
}

func fcode(v float64) string {
	if v == float64(int(v)) {
		return "code " + itoa(int(v))
	}
	return "code"
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
