//go:build tinygo

package tmc5160

import "github.com/buildbotics-go/motioncore/stepper"

// PulseTimer is the MCU step-pulse timer/counter peripheral a motor
// adapter arms and polls, mirroring tmc2209.PulseTimer. In this port
// the TMC5160 is run as an external step/dir driver rather than using
// its internal ramp generator (see DESIGN.md), so pulse generation and
// counting stay an MCU concern.
type PulseTimer interface {
	Arm(period uint16, prescaler uint8) error
	Count() (int32, error)
}

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

// MotorDriver adapts a TMC5160 Driver plus its MCU pulse timer to the
// stepper package's Driver interface.
type MotorDriver struct {
	ic        *Driver
	timer     PulseTimer
	energized bool
}

// NewMotorDriver builds a MotorDriver over an initialized TMC5160
// Driver and the timer peripheral wired to its STEP input.
func NewMotorDriver(ic *Driver, timer PulseTimer) *MotorDriver {
	return &MotorDriver{ic: ic, timer: timer}
}

func (d *MotorDriver) SetDirection(dir stepper.Direction) error {
	gconf := NewGCONF()
	gconf.Shaft = dir == stepper.DirectionCCW
	return d.ic.WriteRegister(gconf.GetAddress(), gconf.Pack())
}

func (d *MotorDriver) Energize() error {
	chop := NewCHOPCONF()
	chop.Toff = 5
	if err := d.ic.WriteRegister(chop.GetAddress(), chop.Pack()); err != nil {
		return err
	}
	d.energized = true
	return nil
}

func (d *MotorDriver) Deenergize() error {
	chop := NewCHOPCONF()
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
	status := NewDRV_STATUS()
	raw, err := d.ic.ReadRegister(status.GetAddress())
	if err != nil {
		return stepper.FaultNone
	}
	status.Unpack(raw)

	switch {
	case status.Ot:
		return stepper.FaultOverTemperature
	case status.S2ga || status.S2gb || status.S2vsa || status.S2vsb:
		return stepper.FaultOverCurrent
	case status.Ola || status.Olb:
		return stepper.FaultOpenLoad
	default:
		return stepper.FaultNone
	}
}

func (d *MotorDriver) ClearFault() {
	gstat := NewGSTAT()
	gstat.Reset = true
	_ = d.ic.WriteRegister(gstat.GetAddress(), gstat.Pack())
}
