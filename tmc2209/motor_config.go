package tmc2209

// SetMicrostepsPerStep returns floor(log2(microsteps)), the MRES exponent for
// that microstep count; the SetMicrostepsPerStepPowerOfTwo call writes no register.
func SetMicrostepsPerStep(microsteps uint16) uint8 {
	exponent := uint8(0)
	microstepsShifted := microsteps >> 1

	for microstepsShifted > 0 {
		microstepsShifted = microstepsShifted >> 1
		exponent++
	}

	SetMicrostepsPerStepPowerOfTwo(exponent)
	return exponent
}

// SetMicrostepsPerStepPowerOfTwo writes no register and has no effect; each
// case only names the MRES setting that matches its exponent.
func SetMicrostepsPerStepPowerOfTwo(exponent uint8) {
	switch exponent {
	case 0:
		// MRES_001
	case 1:
		// MRES_002
	case 2:
		// MRES_004
	case 3:
		// MRES_008
	case 4:
		// MRES_016
	case 5:
		// MRES_032
	case 6:
		// MRES_064
	case 7:
		// MRES_128
	default:
		// MRES_256
	}
}
