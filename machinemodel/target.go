package machinemodel

import (
	"github.com/buildbotics-go/motioncore/axis"
	"github.com/buildbotics-go/motioncore/gcode"
	"github.com/buildbotics-go/motioncore/planner"
)

// resolvedOffset returns the currently composed per-axis work offset:
// the active coordinate system's stored offset plus the G92 origin
// offset, unless origin offsets are suspended (G92.2).
func (m *Model) resolvedOffset() [6]float64 {
	var out [6]float64
	cs := m.coordOffsets[m.coordSystem-1]
	for i := range out {
		out[i] = cs[i]
		if !m.originSuspended {
			out[i] += m.originOffset[i]
		}
	}
	return out
}

// syncWorkOffset enqueues a zero-motion "update work offsets" command
// if the resolved offset vector differs from the one last pushed,
// per spec.md section 4.3's work-offset synchronisation rule.
func (m *Model) syncWorkOffset() error {
	resolved := m.resolvedOffset()
	if resolved == m.workOffset {
		return nil
	}
	m.workOffset = resolved
	return m.planner.QueueCommand(planner.Command{
		Kind:       planner.CommandWorkOffsetUpdate,
		WorkOffset: resolved,
	}, m.lineNumber)
}

// calcTarget resolves one block's parsed axis words into an absolute,
// millimeter target vector: unit conversion, absolute/incremental
// composition against the current position, work-offset/G92
// composition, and rotary radius-mode rewriting (spec.md section 4.3,
// calc_model_target).
func (m *Model) calcTarget(v gcode.Values, f gcode.Flags) [6]float64 {
	offset := m.resolvedOffset()
	target := m.position

	words := [6]struct {
		has bool
		val float64
	}{
		{f.X, v.X}, {f.Y, v.Y}, {f.Z, v.Z},
		{f.A, v.A}, {f.B, v.B}, {f.C, v.C},
	}

	for i, w := range words {
		if !w.has {
			continue
		}
		ax := m.axes[i]
		valueMM := axis.ToMM(w.val, m.inches)

		if ax != nil && ax.Mode == axis.ModeRadius {
			valueMM = axis.RadiusToLinear(valueMM, ax.RotaryRadius)
		}

		if m.distanceInc {
			target[i] = m.position[i] + valueMM
		} else {
			target[i] = valueMM + offset[i]
		}
	}

	return target
}

// softLimitCheck rejects a target outside any homed axis's travel
// window, per spec.md section 4.3's soft-limit test.
func (m *Model) softLimitCheck(target [6]float64) error {
	for i, ax := range m.axes {
		if ax == nil {
			continue
		}
		if !ax.WithinSoftLimits(target[i]) {
			return modelError("machinemodel: target exceeds soft limit")
		}
	}
	return nil
}
