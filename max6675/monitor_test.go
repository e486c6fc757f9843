package max6675

import "testing"

type fakeReader struct {
	temp float32
	err  error
}

func (f *fakeReader) Read() (float32, error) { return f.temp, f.err }

func TestMonitorReportsNoFaultBelowThresholds(t *testing.T) {
	m := NewMonitor(&fakeReader{temp: 40}, 60, 80)
	fault, temp, err := m.Check()
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if fault != 0 {
		t.Fatalf("fault = %v, want FaultNone", fault)
	}
	if m.Warning(temp) {
		t.Fatalf("expected no warning at 40C")
	}
}

func TestMonitorWarnsBetweenThresholds(t *testing.T) {
	m := NewMonitor(&fakeReader{temp: 65}, 60, 80)
	_, temp, err := m.Check()
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !m.Warning(temp) {
		t.Fatalf("expected warning at 65C between 60/80 thresholds")
	}
}

func TestMonitorFaultsAtShutdownThreshold(t *testing.T) {
	m := NewMonitor(&fakeReader{temp: 85}, 60, 80)
	fault, _, err := m.Check()
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if fault == 0 {
		t.Fatalf("expected an over-temperature fault at 85C")
	}
}

func TestMonitorFaultsOnReadError(t *testing.T) {
	m := NewMonitor(&fakeReader{err: ErrThermocoupleOpen}, 60, 80)
	fault, _, err := m.Check()
	if err == nil {
		t.Fatalf("expected Check to surface the read error")
	}
	if fault == 0 {
		t.Fatalf("expected a fault reported alongside the read error")
	}
}
