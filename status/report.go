package status

import "github.com/buildbotics-go/motioncore/axis"

// PositionReport is the position/state record spec.md section 6
// describes: absolute axis positions in millimetres regardless of the
// interpreter's current units mode, current velocity, current line
// number, and the plan-state / cycle-state names active when the
// report was taken.
type PositionReport struct {
	PositionMM [axis.Count]float64
	Velocity   float64
	LineNumber int
	PlanState  string
	CycleState string
}

func (r PositionReport) equal(o PositionReport) bool {
	if r.Velocity != o.Velocity || r.LineNumber != o.LineNumber ||
		r.PlanState != o.PlanState || r.CycleState != o.CycleState {
		return false
	}
	return r.PositionMM == o.PositionMM
}

// Source supplies the live values a Reporter samples. The motion core
// wires this to the machine model and plan-state machine; it's kept
// as an interface so report.go has no import of either.
type Source interface {
	PositionMM() [axis.Count]float64
	Velocity() float64
	LineNumber() int
	PlanState() string
	CycleState() string
}

func (r *Reporter) sample() PositionReport {
	return PositionReport{
		PositionMM: r.source.PositionMM(),
		Velocity:   r.source.Velocity(),
		LineNumber: r.source.LineNumber(),
		PlanState:  r.source.PlanState(),
		CycleState: r.source.CycleState(),
	}
}

// Reporter emits a PositionReport to its sink only when the sampled
// state changes, or when Request forces one out regardless — mirroring
// original_source/src/report.c's report_requested/report_request_full
// split between a change-triggered report and a forced full one.
type Reporter struct {
	source  Source
	sink    func(PositionReport)
	last    PositionReport
	primed  bool
	pending bool
	full    bool
}

// NewReporter builds a Reporter sampling source and delivering changed
// reports to sink.
func NewReporter(source Source, sink func(PositionReport)) *Reporter {
	return &Reporter{source: source, sink: sink}
}

// Request marks that the next Poll should emit a report even if
// nothing changed since the last one.
func (r *Reporter) Request() { r.pending = true }

// RequestFull marks that the next Poll should emit a report
// regardless of change, like Request. The emitted PositionReport
// carries no marker of being a full report, so the sink cannot tell it
// apart from any other.
func (r *Reporter) RequestFull() {
	r.pending = true
	r.full = true
}

// Poll samples the source and, if the result differs from the last
// emitted report or a report was explicitly requested, delivers it to
// the sink. It returns whether a report was emitted.
func (r *Reporter) Poll() bool {
	current := r.sample()
	changed := !r.primed || !current.equal(r.last)
	if !changed && !r.pending {
		return false
	}
	r.last = current
	r.primed = true
	r.pending = false
	r.full = false
	if r.sink != nil {
		r.sink(current)
	}
	return true
}
