//go:build tinygo

package tmc2209

import "github.com/buildbotics-go/motioncore/stepper"

// PulseTimer is the MCU step-pulse timer/counter peripheral a driver
// adapter arms and polls. The TMC2209 itself has no pulse generation
// hardware — step pulses are driven into its STEP pin externally — so
// pulse timing is delegated to whatever hardware timer owns that pin.
type PulseTimer interface {
	Arm(period uint16, prescaler uint8) error
	Count() (int32, error)
}

// clockDivShift maps a stepper.ClockDiv factor to the prescaler
// register value PulseTimer.Arm expects (log2 of the division factor).
func clockDivShift(div stepper.ClockDiv) uint8 {
	switch div {
	case stepper.ClockDiv1:
		return 0
	case stepper.ClockDiv2:
		return 1
	case stepper.ClockDiv4:
		return 2
	case stepper.ClockDiv8:
		return 3
	default:
		return 0
	}
}

// MotorDriver adapts a TMC2209 register interface plus its MCU pulse
// timer to the stepper package's Driver interface.
type MotorDriver struct {
	ic        *TMC2209
	timer     PulseTimer
	energized bool
}

// NewMotorDriver builds a MotorDriver over an initialized TMC2209 and
// the timer peripheral wired to its STEP input.
func NewMotorDriver(ic *TMC2209, timer PulseTimer) *MotorDriver {
	return &MotorDriver{ic: ic, timer: timer}
}

func (d *MotorDriver) SetDirection(dir stepper.Direction) error {
	gconf := NewGconf()
	if dir == stepper.DirectionCCW {
		gconf.Shaft = 1
	}
	return d.ic.WriteRegister(gconf.GetAddress(), gconf.Pack())
}

func (d *MotorDriver) Energize() error {
	chop := NewChopconf()
	chop.Toff = 5
	if err := d.ic.WriteRegister(chop.GetAddress(), chop.Pack()); err != nil {
		return err
	}
	d.energized = true
	return nil
}

func (d *MotorDriver) Deenergize() error {
	chop := NewChopconf()
	chop.Toff = 0
	if err := d.ic.WriteRegister(chop.GetAddress(), chop.Pack()); err != nil {
		return err
	}
	d.energized = false
	return nil
}

func (d *MotorDriver) Energizing() bool { return d.energized }

func (d *MotorDriver) ArmPulses(period uint16, div stepper.ClockDiv) error {
	return d.timer.Arm(period, clockDivShift(div))
}

func (d *MotorDriver) PulseCount() (int32, error) { return d.timer.Count() }

func (d *MotorDriver) Fault() stepper.FaultKind {
	status := NewDrvStatus()
	raw, err := status.Read(d.ic.comm, d.ic.address)
	if err != nil {
		return stepper.FaultNone
	}
	status.Bytes = raw
	status.Unpack(raw)

	switch {
	case status.Ot == 1:
		return stepper.FaultOverTemperature
	case status.S2ga == 1 || status.S2gb == 1 || status.S2vsa == 1 || status.S2vsb == 1:
		return stepper.FaultOverCurrent
	case status.Ola == 1 || status.Olb == 1:
		return stepper.FaultOpenLoad
	default:
		return stepper.FaultNone
	}
}

func (d *MotorDriver) ClearFault() {
	gstat := NewGstat()
	gstat.Reset = 1
	_ = d.ic.WriteRegister(gstat.GetAddress(), gstat.Pack())
}
