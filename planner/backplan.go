package planner

import "math"

// PlanBlockList runs the two-pass backplanner over the whole queue,
// per spec.md section 4.4:
// a backward pass propagates braking_velocity from the tail, then a
// forward pass assigns entry/cruise/exit and fits each block's
// trapezoid, marking blocks non-replannable once their exit is
// optimally constrained.
func (p *Planner) PlanBlockList() {
	r := p.ring

	// Backward pass: tail toward head, skipping non-replannable buffers.
	var next *Buffer
	r.EachReverse(func(b *Buffer) bool {
		if b.Callback != CallbackAline {
			next = nil
			return true
		}
		if !b.Replannable {
			next = b
			return true
		}
		if next != nil {
			b.BrakingVel = math.Min(next.EntryVmax, next.BrakingVel) + b.DeltaVmax
		} else {
			b.BrakingVel = b.ExitVmax
		}
		next = b
		return true
	})

	// Forward pass: first replannable buffer onward.
	var prev *Buffer
	first := true
	r.Each(func(b *Buffer) bool {
		if b.Callback != CallbackAline {
			prev = nil
			return true
		}
		if !b.Replannable {
			prev = b
			first = false
			return true
		}
		if prev != nil {
			b.EntryVelocity = prev.ExitVelocity
		} else if first {
			b.EntryVelocity = b.EntryVmax
		}
		first = false

		b.CruiseVelocity = b.CruiseVmax

		exit := b.ExitVmax
		// Peek at the next buffer to bound this block's exit.
		nextEntryVmax := math.MaxFloat64
		nextBraking := math.MaxFloat64
		if nb := r.nextOf(b); nb != nil && nb.Callback == CallbackAline {
			nextEntryVmax = nb.EntryVmax
			nextBraking = nb.BrakingVel
		}
		exit = math.Min(exit, nextEntryVmax)
		exit = math.Min(exit, nextBraking)
		exit = math.Min(exit, b.EntryVelocity+b.DeltaVmax)
		b.ExitVelocity = exit

		CalculateTrapezoid(b, prevExitOr(prev, b.EntryVelocity), p.params)

		// Non-replannable once optimally constrained: exit equals one
		// of the maxima, or equals entry+delta while predecessor is
		// also non-replannable.
		optimal := nearlyEqual(b.ExitVelocity, b.ExitVmax) ||
			nearlyEqual(b.ExitVelocity, nextEntryVmax) ||
			nearlyEqual(b.ExitVelocity, nextBraking) ||
			(nearlyEqual(b.ExitVelocity, b.EntryVelocity+b.DeltaVmax) && (prev == nil || !prev.Replannable))
		if optimal {
			b.Replannable = false
		}

		prev = b
		return true
	})
}

func prevExitOr(prev *Buffer, fallback float64) float64 {
	if prev == nil {
		return fallback
	}
	return prev.ExitVelocity
}

func nearlyEqual(a, b float64) bool {
	const eps = 1e-9
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < eps
}

// nextOf returns the buffer immediately after b in ring order, or nil
// if b is the tail.
func (r *Ring) nextOf(b *Buffer) *Buffer {
	var found *Buffer
	prevWasB := false
	r.Each(func(cur *Buffer) bool {
		if prevWasB {
			found = cur
			return false
		}
		if cur == b {
			prevWasB = true
		}
		return true
	})
	return found
}

// ReplanBlocks marks every queued buffer replannable, promotes any
// restart buffer left behind by a feedhold split back to init so the
// executor will pick it up, and re-runs the backplanner. Invoked on
// resume (spec.md sections 4.4 and 4.5).
func (p *Planner) ReplanBlocks() {
	p.ring.Each(func(b *Buffer) bool {
		if b.Callback == CallbackAline {
			b.Replannable = true
			if b.state == StateRestart {
				b.state = StateInit
			}
		}
		return true
	})
	p.PlanBlockList()
}
