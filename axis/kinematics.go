package axis

// Config is the full kinematic configuration: axes indexed by Index and
// motors, each mapped to at most one axis. Only Cartesian axis<->motor
// mapping is supported (spec.md Non-goals: arbitrary kinematics).
type Config struct {
	Axes   [Count]*Axis
	Motors []*Motor
}

// Kinematics converts a per-axis travel vector into per-motor step
// counts: steps[m] = travel[axis(m)] * motor.StepsPerUnit(), or 0 when
// the motor's axis is inhibited or unmapped (spec.md section 4.6).
func (c *Config) Kinematics(travel [Count]float64) []float64 {
	steps := make([]float64, len(c.Motors))
	for i, m := range c.Motors {
		if m == nil || !m.IsMapped() {
			steps[i] = 0
			continue
		}
		ax := c.Axes[m.AxisIndex]
		if ax == nil || ax.Mode == ModeInhibited {
			steps[i] = 0
			continue
		}
		steps[i] = travel[m.AxisIndex] * m.StepsPerUnit()
	}
	return steps
}

// ToMM converts a value in the given units (true = inches) to mm.
func ToMM(value float64, inches bool) float64 {
	if inches {
		return value * 25.4
	}
	return value
}

// FromMM converts a millimeter value back to the given units.
func FromMM(value float64, inches bool) float64 {
	if inches {
		return value / 25.4
	}
	return value
}

// RadiusToLinear converts a rotary-axis value expressed in linear units
// (RADIUS mode) into degrees: target = value * 360 / (2*pi*radius),
// per spec.md section 4.3.
func RadiusToLinear(valueMM, radius float64) float64 {
	if radius == 0 {
		return 0
	}
	const twoPi = 6.283185307179586
	return valueMM * 360.0 / (twoPi * radius)
}
