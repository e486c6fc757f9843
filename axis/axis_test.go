package axis

import (
	"testing"
	"time"
)

func TestRecipJerkCached(t *testing.T) {
	a := New(1000, 500, 50, 0.05)
	want := 1.0 / (50 * JerkScale)
	if got := a.RecipJerk(); got != want {
		t.Errorf("RecipJerk() = %v, want %v", got, want)
	}
	a.SetMaxJerk(100)
	want = 1.0 / (100 * JerkScale)
	if got := a.RecipJerk(); got != want {
		t.Errorf("after SetMaxJerk: RecipJerk() = %v, want %v", got, want)
	}
}

func TestSoftLimitEnforcement(t *testing.T) {
	a := New(1000, 500, 50, 0.05)
	a.TravelMin = 0
	a.TravelMax = 100

	if a.WithinSoftLimits(150) != true {
		t.Error("unhomed axis must not enforce soft limits")
	}
	a.SetHomed(true)
	if a.WithinSoftLimits(150) {
		t.Error("expected 150 to violate [0,100] soft limit once homed")
	}
	if !a.WithinSoftLimits(50) {
		t.Error("expected 50 to be within [0,100]")
	}
}

func TestSoftLimitSentinelDisables(t *testing.T) {
	a := New(1000, 500, 50, 0.05)
	a.SetHomed(true)
	if !a.WithinSoftLimits(1e9) {
		t.Error("sentinel travel bounds must disable soft-limit enforcement")
	}
}

func TestMotorStepsPerUnit(t *testing.T) {
	m := NewMotor(1.8, 8.0, 16)
	want := 360.0 * 16 / (8.0 * 1.8)
	if got := m.StepsPerUnit(); got != want {
		t.Errorf("StepsPerUnit() = %v, want %v", got, want)
	}
}

func TestMotorSetMicrostepsRejectsNonPowerOfTwo(t *testing.T) {
	m := NewMotor(1.8, 8.0, 16)
	before := m.StepsPerUnit()
	m.SetMicrosteps(17)
	if m.StepsPerUnit() != before {
		t.Error("non-power-of-two microsteps must be rejected")
	}
	m.SetMicrosteps(32)
	if m.Microsteps != 32 {
		t.Error("power-of-two microsteps must be accepted")
	}
}

func TestKinematicsInhibitedAxisZero(t *testing.T) {
	cfg := &Config{}
	cfg.Axes[X] = New(1000, 500, 50, 0.05)
	cfg.Axes[X].Mode = ModeInhibited
	m := NewMotor(1.8, 8.0, 16)
	m.AxisIndex = int(X)
	cfg.Motors = []*Motor{m}

	var travel [Count]float64
	travel[X] = 10
	steps := cfg.Kinematics(travel)
	if steps[0] != 0 {
		t.Errorf("inhibited axis must produce 0 steps, got %v", steps[0])
	}
}

func TestKinematicsMapped(t *testing.T) {
	cfg := &Config{}
	cfg.Axes[X] = New(1000, 500, 50, 0.05)
	m := NewMotor(1.8, 8.0, 16)
	m.AxisIndex = int(X)
	cfg.Motors = []*Motor{m}

	var travel [Count]float64
	travel[X] = 10
	steps := cfg.Kinematics(travel)
	want := 10 * m.StepsPerUnit()
	if steps[0] != want {
		t.Errorf("steps = %v, want %v", steps[0], want)
	}
}

func TestRoundTripMMInch(t *testing.T) {
	v := 12.3456
	back := FromMM(ToMM(v, true), true)
	if diff := back - v; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("round trip mismatch: %v vs %v", back, v)
	}
}

func TestSwitchDebounce(t *testing.T) {
	d := NewSwitchDebounce(10 * time.Millisecond)
	now := time.Now()
	if d.Sample(SwitchClosed, now) != SwitchOpen {
		t.Error("state must not flip before the debounce window elapses")
	}
	if d.Sample(SwitchClosed, now.Add(5*time.Millisecond)) != SwitchOpen {
		t.Error("state must not flip mid-window")
	}
	if d.Sample(SwitchClosed, now.Add(11*time.Millisecond)) != SwitchClosed {
		t.Error("state must flip once the window elapses")
	}
}
