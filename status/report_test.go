package status

import (
	"testing"

	"github.com/buildbotics-go/motioncore/axis"
)

type fakeSource struct {
	pos   [axis.Count]float64
	vel   float64
	line  int
	plan  string
	cycle string
}

func (f *fakeSource) PositionMM() [axis.Count]float64 { return f.pos }
func (f *fakeSource) Velocity() float64               { return f.vel }
func (f *fakeSource) LineNumber() int                 { return f.line }
func (f *fakeSource) PlanState() string               { return f.plan }
func (f *fakeSource) CycleState() string              { return f.cycle }

func TestReporterEmitsOnFirstPoll(t *testing.T) {
	src := &fakeSource{plan: "ready"}
	var got []PositionReport
	r := NewReporter(src, func(p PositionReport) { got = append(got, p) })

	if !r.Poll() {
		t.Fatalf("expected first Poll to emit")
	}
	if len(got) != 1 {
		t.Fatalf("got %d reports, want 1", len(got))
	}
}

func TestReporterSuppressesUnchangedReports(t *testing.T) {
	src := &fakeSource{plan: "ready"}
	count := 0
	r := NewReporter(src, func(PositionReport) { count++ })

	r.Poll()
	r.Poll()
	r.Poll()
	if count != 1 {
		t.Fatalf("expected 1 emitted report across repeated unchanged polls, got %d", count)
	}
}

func TestReporterEmitsOnPositionChange(t *testing.T) {
	src := &fakeSource{plan: "running"}
	count := 0
	r := NewReporter(src, func(PositionReport) { count++ })
	r.Poll()

	src.pos[axis.X] = 12.5
	if !r.Poll() {
		t.Fatalf("expected Poll to emit after a position change")
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
}

func TestReporterRequestForcesEmitEvenWithoutChange(t *testing.T) {
	src := &fakeSource{plan: "holding"}
	count := 0
	r := NewReporter(src, func(PositionReport) { count++ })
	r.Poll()

	if r.Poll() {
		t.Fatalf("expected unchanged Poll to be suppressed")
	}
	r.Request()
	if !r.Poll() {
		t.Fatalf("expected Request to force the next Poll to emit")
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
}
