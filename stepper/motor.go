package stepper

import "github.com/buildbotics-go/motioncore/axis"

// MotorState is one motor's runtime timer programming and step-error
// ledger (spec.md section 4.6, "Step-error ledger").
type MotorState struct {
	Motor  *axis.Motor
	Driver Driver

	position  int32 // target step count, this segment's end
	commanded int32 // previous segment's target, time-aligned with Encoder
	encoder   int32
	errorStep int32

	timerPeriod uint16
	clockDiv    ClockDiv
	direction   Direction
	hasTravel   bool
}

// NewMotorState pairs a configured Motor with its driver.
func NewMotorState(m *axis.Motor, d Driver) *MotorState {
	return &MotorState{Motor: m, Driver: d}
}

// SetEncoder resets the ledger to a known absolute position, e.g. after
// homing confirms the machine's true location.
func (m *MotorState) SetEncoder(steps int32) {
	m.encoder = steps
	m.position = steps
	m.commanded = steps
}

// Error returns the last computed commanded/encoder discrepancy, in
// steps, applied as correction to the next prep's travel request.
func (m *MotorState) Error() int32 { return m.errorStep }

// Position returns the motor's commanded (not encoder-observed) step
// position.
func (m *MotorState) Position() int32 { return m.position }

// prep computes this segment's travel, timer period and direction for
// the motor, folding in the outstanding step error and the motor's
// power mode. travelSteps is the ideal (uncorrected) absolute step
// position this segment ends at; the step delta is its rounded value
// minus the motor's current position. segClocks is the segment's total
// timer clock count.
func (m *MotorState) prep(travelSteps float64, segClocks int64) error {
	travel := int32(roundFloat(travelSteps)) - m.position + m.errorStep
	m.errorStep = 0
	m.position += travel

	switch m.Motor.Power {
	case axis.PowerDisabled:
		m.hasTravel = false
		return nil
	case axis.PowerOnlyWhenMoving:
		if travel == 0 {
			m.hasTravel = false
			return nil
		}
	}

	if travel == 0 {
		m.clockDiv = ClockOff
		m.timerPeriod = 0
		m.hasTravel = false
		return nil
	}

	ticksPerStep := segClocks / int64(abs32(travel))
	div, period := pickPrescaler(ticksPerStep)
	m.clockDiv = div
	m.timerPeriod = period
	m.direction = directionFor(travel, m.Motor.Polarity)
	m.hasTravel = div != ClockOff

	if err := m.Driver.SetDirection(m.direction); err != nil {
		return err
	}
	if m.Motor.Power != axis.PowerDisabled {
		return m.Driver.Energize()
	}
	return nil
}

// load commits the prepared timer program to the hardware and folds in
// the DMA-counted pulses from the segment that just finished, updating
// the step-error ledger (spec.md section 4.6).
func (m *MotorState) load() error {
	pulses, err := m.Driver.PulseCount()
	if err != nil {
		return err
	}
	m.encoder += pulses
	m.errorStep = m.commanded - m.encoder
	m.commanded = m.position

	if !m.hasTravel {
		return nil
	}
	return m.Driver.ArmPulses(m.timerPeriod, m.clockDiv)
}

func roundFloat(v float64) float64 {
	if v < 0 {
		return -roundFloat(-v)
	}
	return float64(int64(v + 0.5))
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
