package tmc2209

// EnableStealthChop writes no register and has no effect.
func EnableStealthChop() {
}

// DisableStealthChop writes no register and has no effect.
func DisableStealthChop() {
}

// EnableCoolStep ignores its thresholds, writes no register and has no effect.
func EnableCoolStep(lowerThreshold, upperThreshold uint8) {
}

// DisableCoolStep writes no register and has no effect.
func DisableCoolStep() {
}

// EnableAutomaticCurrentScaling writes no register and has no effect.
func EnableAutomaticCurrentScaling() {
}

// DisableAutomaticCurrentScaling writes no register and has no effect.
func DisableAutomaticCurrentScaling() {
}
