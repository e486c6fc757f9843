// Package stepper implements the low-level move scheduler of spec.md
// section 4.6: per-motor timer period/prescaler selection, the
// step-error ledger that keeps commanded and encoder-observed position
// locked together, and the capability interface hardware drivers (the
// adapted tmc2209/tmc5160 packages) implement.
package stepper

import "github.com/buildbotics-go/motioncore/axis"

// Direction is the electrical direction signal sent to a driver,
// already corrected for the motor's configured polarity.
type Direction int

const (
	DirectionCW Direction = iota
	DirectionCCW
)

// FaultKind classifies a hardware fault or stall notification raised
// by a Driver (spec.md section 4.6, "DMA-counted steps").
type FaultKind int

const (
	FaultNone FaultKind = iota
	FaultOverTemperature
	FaultOverCurrent
	FaultStall
	FaultOpenLoad
)

// Driver is the opaque driver capability spec.md section 4.6 assumes:
// an SPI/UART stepper driver IC that accepts a timer-programmed pulse
// train and direction signal, and reports faults and DMA-counted
// actual pulses back. tmc2209.Device and tmc5160.Device implement it.
type Driver interface {
	// SetDirection programs the driver's direction output.
	SetDirection(Direction) error
	// Energize powers the motor coil; Energizing reports whether the
	// drive is still ramping up to holding current (motor_energizing
	// in the original firmware — loader must wait for this to clear).
	Energize() error
	Deenergize() error
	Energizing() bool
	// ArmPulses programs the step timer for period ticks at the given
	// clock division and enables the pulse output for the segment.
	ArmPulses(period uint16, div ClockDiv) error
	// PulseCount returns the DMA-accumulated count of pulses actually
	// emitted since the last call (the "encoder proxy" of spec.md
	// section 4.6), and resets the accumulator.
	PulseCount() (int32, error)
	// Fault reports a latched hardware fault or stall condition.
	Fault() FaultKind
	ClearFault()
}

// ClockDiv is one of the fixed timer prescalers available to fit a
// segment's ticks-per-step into a 16-bit period register.
type ClockDiv int

const (
	ClockDiv1 ClockDiv = iota
	ClockDiv2
	ClockDiv4
	ClockDiv8
	ClockOff // travel is zero for this motor this segment
)

func (d ClockDiv) factor() int64 {
	switch d {
	case ClockDiv1:
		return 1
	case ClockDiv2:
		return 2
	case ClockDiv4:
		return 4
	case ClockDiv8:
		return 8
	default:
		return 0
	}
}

// pickPrescaler halves ticksPerStep until it fits a 16-bit timer
// period register, exactly as motor_prep_move's cascade of shifts
// does, returning ClockOff if even div-8 can't bring it into range.
func pickPrescaler(ticksPerStep int64) (ClockDiv, uint16) {
	if ticksPerStep <= 0 {
		return ClockOff, 0
	}
	for _, d := range []ClockDiv{ClockDiv1, ClockDiv2, ClockDiv4, ClockDiv8} {
		if ticksPerStep>>16 == 0 {
			return d, uint16(ticksPerStep)
		}
		ticksPerStep /= 2
	}
	return ClockOff, 0
}

func directionFor(travel int32, polarity axis.Polarity) Direction {
	positive := travel >= 0
	if polarity == axis.PolarityReversed {
		positive = !positive
	}
	if positive {
		return DirectionCW
	}
	return DirectionCCW
}
