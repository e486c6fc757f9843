package axis

// Polarity flips the physical sense of a motor's direction output.
type Polarity uint8

const (
	PolarityNormal Polarity = iota
	PolarityReversed
)

// PowerMode selects when a motor driver stays energized.
type PowerMode uint8

const (
	PowerDisabled PowerMode = iota
	PowerAlways
	PowerInCycle
	PowerOnlyWhenMoving
)

// Unmapped is the sentinel Motor.AxisIndex value for a motor with no
// axis assignment.
const Unmapped = -1

// Motor is the physical-stepper configuration record of spec.md section 3.
type Motor struct {
	StepAngle      float64 // degrees per full step
	TravelPerRev   float64 // length or angle per motor revolution
	Microsteps     uint16  // power of two, 1..256
	Polarity       Polarity
	Power          PowerMode
	AxisIndex      int // Unmapped (-1) if not mapped to an axis

	stepsPerUnit float64
}

// NewMotor constructs a Motor and derives StepsPerUnit.
func NewMotor(stepAngle, travelPerRev float64, microsteps uint16) *Motor {
	m := &Motor{
		StepAngle:    stepAngle,
		TravelPerRev: travelPerRev,
		Microsteps:   microsteps,
		AxisIndex:    Unmapped,
	}
	m.deriveStepsPerUnit()
	return m
}

func (m *Motor) deriveStepsPerUnit() {
	if m.StepAngle <= 0 || m.TravelPerRev <= 0 || m.Microsteps == 0 {
		m.stepsPerUnit = 0
		return
	}
	m.stepsPerUnit = 360.0 * float64(m.Microsteps) / (m.TravelPerRev * m.StepAngle)
}

// SetMicrosteps updates Microsteps and re-derives StepsPerUnit. steps
// must be a power of two in [1, 256]; callers that violate this leave
// StepsPerUnit at its prior value so a bad setting never silently
// zeroes motion.
func (m *Motor) SetMicrosteps(steps uint16) {
	if steps == 0 || steps&(steps-1) != 0 || steps > 256 {
		return
	}
	m.Microsteps = steps
	m.deriveStepsPerUnit()
}

// StepsPerUnit returns the derived steps-per-unit conversion factor.
func (m *Motor) StepsPerUnit() float64 { return m.stepsPerUnit }

// IsMapped reports whether the motor is assigned to an axis.
func (m *Motor) IsMapped() bool { return m.AxisIndex != Unmapped }
