// Package panel renders the status/position report and the status log
// onto a Sharp memory-LCD front panel: a one-line header giving line
// number, plan-state and cycle-state, a block of per-axis positions
// below it, and a scrolling console of recent status envelopes.
package panel

import (
	"fmt"
	"strings"

	"github.com/buildbotics-go/motioncore/axis"
	"github.com/buildbotics-go/motioncore/status"
)

var axisLabel = [axis.Count]string{"X", "Y", "Z", "A", "B", "C"}

// headerLine renders the line-number / plan-state / cycle-state
// summary shown at the top of the panel.
func headerLine(r status.PositionReport) string {
	cycle := r.CycleState
	if cycle == "" {
		cycle = "-"
	}
	return fmt.Sprintf("N%-6d %-9s %s", r.LineNumber, r.PlanState, cycle)
}

// positionLines renders one "<axis> <position>" line per axis present
// in the report, skipping axes parked at exactly zero so an unused
// rotary axis doesn't clutter a small display.
func positionLines(r status.PositionReport) []string {
	lines := make([]string, 0, axis.Count)
	for i, v := range r.PositionMM {
		if v == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s%9.3f", axisLabel[i], v))
	}
	if len(lines) == 0 {
		lines = append(lines, "(at origin)")
	}
	return lines
}

// velocityLine renders the current velocity in mm/min, the unit the
// planner and executor already carry it in throughout.
func velocityLine(r status.PositionReport) string {
	return fmt.Sprintf("F %8.1f mm/min", r.Velocity)
}

// screenText joins the header, position block and velocity line into
// the full text frame rendered to the panel.
func screenText(r status.PositionReport) string {
	var b strings.Builder
	b.WriteString(headerLine(r))
	b.WriteByte('\n')
	for _, l := range positionLines(r) {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	b.WriteString(velocityLine(r))
	return b.String()
}
