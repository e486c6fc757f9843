package panel

import (
	"image/color"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyterm"

	"github.com/buildbotics-go/motioncore/status"
)

// Display is the subset of sharpmem.Device's surface the panel needs:
// a tinyfont render target plus the Display/ClearBuffer calls that
// push and reset the framebuffer of the physical LCD.
type Display interface {
	tinyfont.Displayer
	Display() error
	ClearBuffer()
}

var (
	colorInk  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	colorPage = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

const lineHeight = 8

// Panel drives a Sharp memory-LCD front panel: a status header and
// per-axis position block rendered with tinyfont, backed by a
// tinyterm scrollback for the status log underneath.
type Panel struct {
	display  Display
	terminal *tinyterm.Terminal
	font     *tinyfont.Font
	logRows  int16
}

// New builds a Panel over an already-configured display. logRows is
// how many text rows near the bottom of the screen are given to the
// scrolling status console; the rest is the position readout.
func New(display Display, logRows int16) *Panel {
	term := tinyterm.NewTerminal(display)
	term.Configure(&tinyterm.Config{
		Font:       &tinyfont.TomThumb,
		FontHeight: lineHeight,
		FontOffset: lineHeight - 1,
	})
	return &Panel{display: display, terminal: term, font: &tinyfont.TomThumb, logRows: logRows}
}

// ShowReport redraws the header and position block from a
// PositionReport and flushes the framebuffer to the display. It
// leaves the terminal's scrollback region untouched.
func (p *Panel) ShowReport(r status.PositionReport) error {
	_, height := p.display.Size()
	readoutBottom := height - p.logRows*lineHeight
	p.blank(readoutBottom)

	y := int16(lineHeight)
	tinyfont.WriteLine(p.display, p.font, 0, y, headerLine(r), colorInk)

	for _, line := range positionLines(r) {
		y += lineHeight
		if y >= readoutBottom {
			break
		}
		tinyfont.WriteLine(p.display, p.font, 0, y, line, colorInk)
	}

	y += lineHeight
	if y < readoutBottom {
		tinyfont.WriteLine(p.display, p.font, 0, y, velocityLine(r), colorInk)
	}

	return p.display.Display()
}

// LogStatus appends a rendered status envelope to the scrolling
// console and flushes the display.
func (p *Panel) LogStatus(e status.Envelope) error {
	if _, err := p.terminal.Write([]byte(e.Format() + "\n")); err != nil {
		return err
	}
	return p.display.Display()
}

// blank clears the pixel rows [0, bottom) of the framebuffer without
// touching the terminal's scrollback rows below it.
func (p *Panel) blank(bottom int16) {
	width, _ := p.display.Size()
	for y := int16(0); y < bottom; y++ {
		for x := int16(0); x < width; x++ {
			p.display.SetPixel(x, y, colorPage)
		}
	}
}
