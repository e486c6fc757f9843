package panel

import (
	"image/color"
	"testing"

	"github.com/buildbotics-go/motioncore/status"
)

type fakeDisplay struct {
	w, h     int16
	pixels   map[[2]int16]color.RGBA
	displays int
}

func newFakeDisplay(w, h int16) *fakeDisplay {
	return &fakeDisplay{w: w, h: h, pixels: make(map[[2]int16]color.RGBA)}
}

func (d *fakeDisplay) Size() (int16, int16) { return d.w, d.h }
func (d *fakeDisplay) SetPixel(x, y int16, c color.RGBA) {
	d.pixels[[2]int16{x, y}] = c
}
func (d *fakeDisplay) Display() error { d.displays++; return nil }
func (d *fakeDisplay) ClearBuffer()   { d.pixels = make(map[[2]int16]color.RGBA) }

func TestShowReportPaintsInkPixelsAndFlushes(t *testing.T) {
	disp := newFakeDisplay(96, 64)
	p := New(disp, 3)

	r := status.PositionReport{LineNumber: 5, PlanState: "running", CycleState: "jogging"}
	r.PositionMM[0] = 10

	if err := p.ShowReport(r); err != nil {
		t.Fatalf("ShowReport: %v", err)
	}
	if disp.displays != 1 {
		t.Fatalf("Display() calls = %d, want 1", disp.displays)
	}

	inked := false
	for _, c := range disp.pixels {
		if c == colorInk {
			inked = true
			break
		}
	}
	if !inked {
		t.Fatalf("expected ShowReport to paint at least one ink pixel")
	}
}

func TestShowReportLeavesLogRowsUntouched(t *testing.T) {
	disp := newFakeDisplay(96, 64)
	p := New(disp, 4)

	if err := p.ShowReport(status.PositionReport{PlanState: "ready"}); err != nil {
		t.Fatalf("ShowReport: %v", err)
	}

	logTop := disp.h - 4*lineHeight
	for coord := range disp.pixels {
		if coord[1] >= logTop {
			t.Fatalf("ShowReport painted into the reserved log region at y=%d", coord[1])
		}
	}
}

func TestLogStatusFlushesDisplay(t *testing.T) {
	disp := newFakeDisplay(96, 64)
	p := New(disp, 3)

	if err := p.LogStatus(status.New(status.LevelInfo, "homed")); err != nil {
		t.Fatalf("LogStatus: %v", err)
	}
	if disp.displays != 1 {
		t.Fatalf("Display() calls = %d, want 1", disp.displays)
	}
}
