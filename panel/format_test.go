package panel

import (
	"strings"
	"testing"

	"github.com/buildbotics-go/motioncore/axis"
	"github.com/buildbotics-go/motioncore/status"
)

func TestHeaderLineIncludesLineNumberAndStates(t *testing.T) {
	r := status.PositionReport{LineNumber: 42, PlanState: "running", CycleState: "homing"}
	got := headerLine(r)
	if !strings.Contains(got, "N42") || !strings.Contains(got, "running") || !strings.Contains(got, "homing") {
		t.Fatalf("headerLine() = %q, missing expected fields", got)
	}
}

func TestHeaderLineShowsDashWithNoCycle(t *testing.T) {
	r := status.PositionReport{PlanState: "ready"}
	got := headerLine(r)
	if !strings.Contains(got, " - ") && !strings.HasSuffix(got, "-") {
		t.Fatalf("headerLine() = %q, expected a dash placeholder for an empty cycle state", got)
	}
}

func TestPositionLinesSkipsZeroAxes(t *testing.T) {
	var r status.PositionReport
	r.PositionMM[axis.X] = 12.5
	r.PositionMM[axis.Z] = -3.25

	lines := positionLines(r)
	if len(lines) != 2 {
		t.Fatalf("positionLines() = %v, want 2 non-zero axes", lines)
	}
	if !strings.HasPrefix(lines[0], "X") || !strings.HasPrefix(lines[1], "Z") {
		t.Fatalf("positionLines() = %v, want X then Z", lines)
	}
}

func TestPositionLinesReportsOriginWhenAllZero(t *testing.T) {
	lines := positionLines(status.PositionReport{})
	if len(lines) != 1 || lines[0] != "(at origin)" {
		t.Fatalf("positionLines() = %v, want a single origin placeholder", lines)
	}
}

func TestScreenTextOrdersHeaderThenPositionsThenVelocity(t *testing.T) {
	var r status.PositionReport
	r.PositionMM[axis.X] = 1
	r.Velocity = 500
	r.LineNumber = 3
	r.PlanState = "running"

	text := screenText(r)
	headerIdx := strings.Index(text, headerLine(r))
	velIdx := strings.Index(text, "F ")
	posIdx := strings.Index(text, "X")
	if !(headerIdx < posIdx && posIdx < velIdx) {
		t.Fatalf("screenText() ordering wrong:\n%s", text)
	}
}
