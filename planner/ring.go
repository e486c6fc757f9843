package planner

import "time"

// DefaultCapacity is the ring size used when none is specified; real
// firmware tunes this to available RAM, typically 24-48 entries.
const DefaultCapacity = 32

// Ring is the fixed-capacity array-backed buffer ring spec.md section 9
// recommends in place of the original's doubly-linked pointer graph:
// next/previous are derived by modular arithmetic over head/tail
// indices, eliminating pointer-graph hazards entirely.
type Ring struct {
	buf        []Buffer
	head, tail int
	count      int
	now        func() time.Time
}

// NewRing allocates a ring of the given capacity, once, for the life of
// the process (spec.md section 3 lifecycle).
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{buf: make([]Buffer, capacity), now: time.Now}
}

// Capacity returns the ring's fixed size.
func (r *Ring) Capacity() int { return len(r.buf) }

// Len returns the number of occupied entries.
func (r *Ring) Len() int { return r.count }

// Full reports whether the ring has no free slots.
func (r *Ring) Full() bool { return r.count == len(r.buf) }

// Empty reports whether the ring has no occupied slots.
func (r *Ring) Empty() bool { return r.count == 0 }

func (r *Ring) idx(i int) int { return i % len(r.buf) }

// GetTail returns the writable buffer at the tail for the caller to
// populate, or nil if the ring is full. Per spec.md section 4.4 the
// caller (the main loop, through the parser) must guarantee headroom
// before calling the parser; a nil return indicates a scheduling bug,
// not a recoverable condition.
func (r *Ring) GetTail() *Buffer {
	if r.Full() {
		return nil
	}
	slot := r.idx(r.tail)
	b := &r.buf[slot]
	b.reset()
	b.state = StateNew
	b.newAt = r.now()
	return b
}

// Push commits the tail buffer populated via GetTail: sets its
// callback and advances the tail index. The buffer ownership transfer
// from writer (main loop) to reader (LO interrupt) happens on the
// state write to StateInit; callers invoke Push only after populating
// all geometry/kinematics fields.
func (r *Ring) Push(cb Callback, lineNumber int) *Buffer {
	slot := r.idx(r.tail)
	b := &r.buf[slot]
	b.Callback = cb
	b.LineNumber = lineNumber
	b.state = StateInit
	r.tail++
	r.count++
	return b
}

// Head returns the buffer at the head of the queue, or nil if empty.
func (r *Ring) Head() *Buffer {
	if r.Empty() {
		return nil
	}
	return &r.buf[r.idx(r.head)]
}

// Advance retires the head buffer once fully consumed; the head index
// moves only here, and only in the loader per spec.md section 5.
func (r *Ring) Advance() {
	if r.Empty() {
		return
	}
	r.buf[r.idx(r.head)].reset()
	r.head++
	r.count--
}

// InsertRestart opens a new buffer slot immediately behind the head
// buffer — the next one the loader will run once the head completes —
// shifting any already-queued buffers back by one slot. Used by the
// feedhold replan's restart split (spec.md section 4.5) to carve the
// untraveled remainder of a held block into its own buffer without
// disturbing anything already queued behind it. Returns nil if the
// ring has no free slot.
func (r *Ring) InsertRestart() *Buffer {
	if r.Full() {
		return nil
	}
	for i := r.count; i > 1; i-- {
		src := r.idx(r.head + i - 1)
		dst := r.idx(r.head + i)
		r.buf[dst] = r.buf[src]
	}
	slot := r.idx(r.head + 1)
	b := &r.buf[slot]
	*b = Buffer{state: StateRestart, newAt: r.now()}
	r.count++
	r.tail++
	return b
}

// Flush discards all buffers, returning the ring to empty. Used by
// flush_planner (spec.md section 4.4) at a quiescent point.
func (r *Ring) Flush() {
	for r.count > 0 {
		r.Advance()
	}
}

// Tail returns the most-recently pushed buffer (predecessor for
// junction-velocity computation), or nil if the ring is empty.
func (r *Ring) Tail() *Buffer {
	if r.Empty() {
		return nil
	}
	return &r.buf[r.idx(r.tail-1)]
}

// Each calls fn for every occupied buffer from head to tail, in order.
// fn returning false stops iteration early.
func (r *Ring) Each(fn func(*Buffer) bool) {
	for i := 0; i < r.count; i++ {
		if !fn(&r.buf[r.idx(r.head+i)]) {
			return
		}
	}
}

// EachReverse calls fn for every occupied buffer from tail to head.
func (r *Ring) EachReverse(fn func(*Buffer) bool) {
	for i := r.count - 1; i >= 0; i-- {
		if !fn(&r.buf[r.idx(r.head+i)]) {
			return
		}
	}
}
