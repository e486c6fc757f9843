package max6675

import "github.com/buildbotics-go/motioncore/stepper"

// Reader is the thermocouple read operation Device implements; narrowed
// here so Monitor can be driven by a fake in tests.
type Reader interface {
	Read() (float32, error)
}

// Monitor turns a raw thermocouple reading into the driver-board
// over-temperature fault spec.md section 7 expects the stepper
// scheduler to report: a warning threshold the firmware can act on
// before the hard shutdown threshold trips.
type Monitor struct {
	reader    Reader
	warnC     float32
	shutdownC float32
}

// NewMonitor builds a Monitor over a thermocouple reader with the given
// warning and shutdown thresholds in Celsius.
func NewMonitor(reader Reader, warnC, shutdownC float32) *Monitor {
	return &Monitor{reader: reader, warnC: warnC, shutdownC: shutdownC}
}

// Check reads the thermocouple and classifies it against the
// configured thresholds. A thermocouple read error (open circuit) is
// itself reported as a fault, since a dead sensor on a live driver
// board is as unsafe as an over-temperature one.
func (m *Monitor) Check() (stepper.FaultKind, float32, error) {
	temp, err := m.reader.Read()
	if err != nil {
		return stepper.FaultOverTemperature, 0, err
	}
	if temp >= m.shutdownC {
		return stepper.FaultOverTemperature, temp, nil
	}
	return stepper.FaultNone, temp, nil
}

// Warning reports whether the last checked temperature crossed the
// warning threshold without yet reaching the shutdown threshold.
func (m *Monitor) Warning(temp float32) bool {
	return temp >= m.warnC && temp < m.shutdownC
}
