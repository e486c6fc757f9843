//go:build tinygo

package tmc2209

import (
	"testing"

	"github.com/buildbotics-go/motioncore/stepper"
)

type fakeComm struct {
	regs map[uint8]uint32
}

func newFakeComm() *fakeComm { return &fakeComm{regs: make(map[uint8]uint32)} }

func (c *fakeComm) ReadRegister(register, driverIndex uint8) (uint32, error) {
	return c.regs[register], nil
}

func (c *fakeComm) WriteRegister(register uint8, value uint32, driverIndex uint8) error {
	c.regs[register] = value
	return nil
}

type fakeTimer struct {
	period     uint16
	prescaler  uint8
	pulseCount int32
}

func (t *fakeTimer) Arm(period uint16, prescaler uint8) error {
	t.period, t.prescaler = period, prescaler
	return nil
}

func (t *fakeTimer) Count() (int32, error) { return t.pulseCount, nil }

func TestMotorDriverSetDirectionWritesShaftBit(t *testing.T) {
	comm := newFakeComm()
	ic := NewTMC2209(comm, 0)
	d := NewMotorDriver(ic, &fakeTimer{})

	if err := d.SetDirection(stepper.DirectionCCW); err != nil {
		t.Fatalf("SetDirection: %v", err)
	}
	gconf := NewGconf()
	gconf.Bytes = comm.regs[GCONF]
	gconf.Unpack(gconf.Bytes)
	if gconf.Shaft != 1 {
		t.Fatalf("Shaft = %d, want 1", gconf.Shaft)
	}
}

func TestMotorDriverEnergizeSetsToff(t *testing.T) {
	comm := newFakeComm()
	ic := NewTMC2209(comm, 0)
	d := NewMotorDriver(ic, &fakeTimer{})

	if err := d.Energize(); err != nil {
		t.Fatalf("Energize: %v", err)
	}
	if !d.Energizing() {
		t.Fatalf("expected Energizing true")
	}
	chop := NewChopconf()
	chop.Bytes = comm.regs[CHOPCONF]
	chop.Unpack(chop.Bytes)
	if chop.Toff == 0 {
		t.Fatalf("expected nonzero Toff after Energize")
	}

	if err := d.Deenergize(); err != nil {
		t.Fatalf("Deenergize: %v", err)
	}
	if d.Energizing() {
		t.Fatalf("expected Energizing false after Deenergize")
	}
}

func TestMotorDriverArmPulsesDelegatesToTimer(t *testing.T) {
	comm := newFakeComm()
	ic := NewTMC2209(comm, 0)
	timer := &fakeTimer{pulseCount: 42}
	d := NewMotorDriver(ic, timer)

	if err := d.ArmPulses(1000, stepper.ClockDiv4); err != nil {
		t.Fatalf("ArmPulses: %v", err)
	}
	if timer.period != 1000 || timer.prescaler != 2 {
		t.Fatalf("timer armed with period=%d prescaler=%d, want 1000/2", timer.period, timer.prescaler)
	}
	count, err := d.PulseCount()
	if err != nil {
		t.Fatalf("PulseCount: %v", err)
	}
	if count != 42 {
		t.Fatalf("PulseCount = %d, want 42", count)
	}
}

func TestMotorDriverFaultReportsOverTemperature(t *testing.T) {
	comm := newFakeComm()
	status := NewDrvStatus()
	status.Ot = 1
	comm.regs[DRV_STATUS] = status.Pack()

	ic := NewTMC2209(comm, 0)
	d := NewMotorDriver(ic, &fakeTimer{})

	if got := d.Fault(); got != stepper.FaultOverTemperature {
		t.Fatalf("Fault() = %v, want FaultOverTemperature", got)
	}
}

func TestMotorDriverClearFaultWritesGstatReset(t *testing.T) {
	comm := newFakeComm()
	ic := NewTMC2209(comm, 0)
	d := NewMotorDriver(ic, &fakeTimer{})

	d.ClearFault()

	gstat := NewGstat()
	gstat.Bytes = comm.regs[GSTAT]
	gstat.Unpack(gstat.Bytes)
	if gstat.Reset != 1 {
		t.Fatalf("expected Reset bit set after ClearFault")
	}
}
