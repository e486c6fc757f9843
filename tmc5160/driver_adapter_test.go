//go:build tinygo

package tmc5160

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

func testDriver(comm RegisterComm) *Driver {
	return NewDriver(comm, 0, 0, Stepper{})
}

func TestMotorDriverSetDirectionWritesShaftBit(t *testing.T) {
	comm := newFakeComm()
	d := NewMotorDriver(testDriver(comm), &fakeTimer{})

	if err := d.SetDirection(stepper.DirectionCCW); err != nil {
		t.Fatalf("SetDirection: %v", err)
	}
	gconf := NewGCONF()
	gconf.Unpack(comm.regs[GCONF])
	if !gconf.Shaft {
		t.Fatalf("expected Shaft bit set for CCW")
	}
}

func TestMotorDriverEnergizeTogglesToff(t *testing.T) {
	comm := newFakeComm()
	d := NewMotorDriver(testDriver(comm), &fakeTimer{})

	if err := d.Energize(); err != nil {
		t.Fatalf("Energize: %v", err)
	}
	if !d.Energizing() {
		t.Fatalf("expected Energizing true")
	}
	chop := NewCHOPCONF()
	chop.Unpack(comm.regs[CHOPCONF])
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
	timer := &fakeTimer{pulseCount: 7}
	d := NewMotorDriver(testDriver(comm), timer)

	if err := d.ArmPulses(500, stepper.ClockDiv8); err != nil {
		t.Fatalf("ArmPulses: %v", err)
	}
	if timer.period != 500 || timer.prescaler != 3 {
		t.Fatalf("timer armed with period=%d prescaler=%d, want 500/3", timer.period, timer.prescaler)
	}
	count, err := d.PulseCount()
	if err != nil {
		t.Fatalf("PulseCount: %v", err)
	}
	if count != 7 {
		t.Fatalf("PulseCount = %d, want 7", count)
	}
}

func TestMotorDriverFaultReportsShortToGround(t *testing.T) {
	comm := newFakeComm()
	status := NewDRV_STATUS()
	status.S2ga = true
	comm.regs[DRV_STATUS] = status.Pack()

	d := NewMotorDriver(testDriver(comm), &fakeTimer{})

	if got := d.Fault(); got != stepper.FaultOverCurrent {
		t.Fatalf("Fault() = %v, want FaultOverCurrent", got)
	}
}

func TestMotorDriverClearFaultWritesGstatReset(t *testing.T) {
	comm := newFakeComm()
	d := NewMotorDriver(testDriver(comm), &fakeTimer{})

	d.ClearFault()

	gstat := NewGSTAT()
	gstat.Unpack(comm.regs[GSTAT])
	if !gstat.Reset {
		t.Fatalf("expected Reset bit set after ClearFault")
	}
}
