package planner

import "math"

// Params are the planner's timing tunables, shared by trapezoid fitting
// and the executor's segmentation (spec.md sections 4.4/4.5).
type Params struct {
	MinSegmentTime          float64 // minutes, like every move time (mm / mm/min)
	MinSegmentTimePlusMargin float64
	NominalSegmentTime       float64
	MinBodyLength            float64
	MinimumLength            float64
}

// DefaultParams mirrors the firmware's ~5 ms segment cadence.
func DefaultParams() Params {
	return Params{
		MinSegmentTime:           0.0005 / 60,
		MinSegmentTimePlusMargin: 0.00075 / 60,
		NominalSegmentTime:       0.005 / 60,
		MinBodyLength:            0.0001,
		MinimumLength:            0.0001,
	}
}

func minLengthFor(cruise, endpoint float64, p Params) float64 {
	return p.MinSegmentTimePlusMargin * (cruise + endpoint)
}

// CalculateTrapezoid assigns b.HeadLength/BodyLength/TailLength (and
// may adjust CruiseVelocity / Entry/ExitVelocity) without changing
// b.Length, following the rule cascade of spec.md section 4.4. prevExit
// is the predecessor block's exit velocity (used by rule 2).
func CalculateTrapezoid(b *Buffer, prevExit float64, p Params) {
	length := b.Length
	entry := b.EntryVelocity
	cruise := b.CruiseVmax
	exit := b.ExitVelocity

	if length <= 0 || b.RecipJerk == 0 {
		b.HeadLength, b.BodyLength, b.TailLength = 0, 0, 0
		b.CruiseVelocity = entry
		return
	}

	naiveMoveTime := length / math.Max(cruise, 1e-9)

	switch {
	case naiveMoveTime < p.MinSegmentTimePlusMargin:
		// Rule 1: micro-block.
		newCruise := length / p.MinSegmentTimePlusMargin
		newExit := math.Max(0, entry-b.DeltaVmax)
		b.CruiseVelocity = newCruise
		b.ExitVelocity = math.Min(exit, newExit)
		b.HeadLength, b.BodyLength, b.TailLength = 0, length, 0
		return

	case naiveMoveTime <= p.NominalSegmentTime:
		// Rule 2: short-but-fits-in-one-segment.
		b.EntryVelocity = prevExit
		b.CruiseVelocity = prevExit
		b.ExitVelocity = prevExit
		b.HeadLength, b.BodyLength, b.TailLength = 0, length, 0
		return
	}

	const velTolerance = 1e-6
	if math.Abs(entry-cruise) < velTolerance && math.Abs(exit-cruise) < velTolerance {
		// Rule 3.
		b.CruiseVelocity = cruise
		b.HeadLength, b.BodyLength, b.TailLength = 0, length, 0
		return
	}

	if length <= p.MinimumLength+p.MinBodyLength {
		// Rule 4: head-only or tail-only (short block).
		fitTrapezoidShort(b, length, entry, exit, cruise, p)
		return
	}

	if math.Abs(entry-exit) < velTolerance && entry < cruise {
		// Rule 5: rate-limited symmetric HT.
		half := length / 2
		newCruise := TargetVelocity(entry, half, b.CbrtJerk, b.Jerk)
		if half < minLengthFor(newCruise, entry, p) {
			b.CruiseVelocity = (entry + exit) / 2
			b.HeadLength, b.BodyLength, b.TailLength = 0, length, 0
			return
		}
		b.CruiseVelocity = newCruise
		b.HeadLength, b.TailLength = half, half
		b.BodyLength = 0
		return
	}

	if entry != exit && math.Max(entry, exit) < cruise {
		// Rule 6: rate-limited asymmetric HT', iterate.
		head := length * 0.5
		tail := length - head
		newCruise := cruise
		for i := 0; i < 10; i++ {
			if head >= tail {
				newCruise = TargetVelocity(entry, head, b.CbrtJerk, b.Jerk)
			} else {
				newCruise = TargetVelocity(exit, tail, b.CbrtJerk, b.Jerk)
			}
			headLen := TargetLength(entry, newCruise, b.RecipJerk)
			tailLen := TargetLength(exit, newCruise, b.RecipJerk)
			total := headLen + tailLen
			if total <= 0 {
				break
			}
			newHead := length * headLen / total
			newTail := length - newHead
			head, tail = newHead, newTail
			if i > 0 && math.Abs(newCruise-cruise) < 0.001*math.Max(newCruise, 1) {
				break
			}
			cruise = newCruise
		}
		b.CruiseVelocity = newCruise
		b.HeadLength, b.TailLength = head, tail
		b.BodyLength = 0
		zeroShortSections(b, entry, exit, p)
		return
	}

	// Rule 7: full head-body-tail fit.
	head := TargetLength(entry, cruise, b.RecipJerk)
	tail := TargetLength(exit, cruise, b.RecipJerk)
	body := length - head - tail

	if body < 0 {
		// Head and tail overlap: merge proportionally.
		total := head + tail
		if total > 0 {
			head = length * head / total
			tail = length - head
		} else {
			head, tail = length/2, length/2
		}
		body = 0
		b.CruiseVelocity = TargetVelocity(entry, head, b.CbrtJerk, b.Jerk)
	} else if body > 0 && body < p.MinBodyLength {
		head += body / 2
		tail += body - body/2
		body = 0
		b.CruiseVelocity = cruise
	} else {
		b.CruiseVelocity = cruise
	}

	if head == 0 && tail == 0 {
		b.CruiseVelocity = entry
	}

	b.HeadLength, b.BodyLength, b.TailLength = head, body, tail
	zeroShortSections(b, entry, exit, p)
}

func fitTrapezoidShort(b *Buffer, length, entry, exit, cruise float64, p Params) {
	headLen := TargetLength(entry, cruise, b.RecipJerk)
	tailLen := TargetLength(exit, cruise, b.RecipJerk)
	if headLen >= tailLen {
		// head-only: degrade exit to what the length allows.
		newExit := TargetVelocity(entry, length, b.CbrtJerk, b.Jerk)
		b.ExitVelocity = math.Min(exit, newExit)
		b.CruiseVelocity = b.ExitVelocity
		b.HeadLength, b.BodyLength, b.TailLength = length, 0, 0
	} else {
		newEntry := TargetVelocity(exit, length, b.CbrtJerk, b.Jerk)
		b.EntryVelocity = math.Min(entry, newEntry)
		b.CruiseVelocity = b.EntryVelocity
		b.HeadLength, b.BodyLength, b.TailLength = 0, 0, length
	}
}

// zeroShortSections zeroes out a head or tail shorter than its minimum
// length, per spec.md section 4.4's closing rule.
func zeroShortSections(b *Buffer, entry, exit float64, p Params) {
	if b.HeadLength > 0 && b.HeadLength < minLengthFor(b.CruiseVelocity, entry, p) {
		b.BodyLength += b.HeadLength
		b.HeadLength = 0
	}
	if b.TailLength > 0 && b.TailLength < minLengthFor(b.CruiseVelocity, exit, p) {
		b.BodyLength += b.TailLength
		b.TailLength = 0
	}
}
