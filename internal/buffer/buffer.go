// Package buffer implements the per-participant input queue used for
// delay-compensated netplay. Frames are stored run-length compressed: a held
// button spanning hundreds of frames costs one run, not hundreds of entries.
//
// One InputBuffer exists per tracked participant (the local player plus each
// remote). It is a plain in-process structure with no locking — the session
// loop serializes network receipt and local input recording through a single
// per-frame step.
package buffer

import "github.com/RogueClaris/Hub-OS/internal/protocol"

// DefaultDelay is the artificial input delay, in frames, applied at
// connection start. The simulation draws this many empty frames before any
// real input is consumed, giving the network time to deliver the first real
// frames.
const DefaultDelay = 5

// run is one (frame, repeat count) pair. count is always ≥ 1 and adjacent
// runs are never Equal — merging happens eagerly on push.
type run struct {
	frame protocol.InputFrame
	count int
}

// InputBuffer is a FIFO queue of input frames with run-length storage and a
// cached logical length.
type InputBuffer struct {
	runs []run
	len  int
}

// New returns a buffer seeded with DefaultDelay empty frames.
func New() *InputBuffer {
	return NewWithDelay(DefaultDelay)
}

// NewWithDelay returns a buffer seeded with a single run of `delay` empty
// frames, giving logical length `delay`.
func NewWithDelay(delay int) *InputBuffer {
	b := &InputBuffer{}
	if delay > 0 {
		b.runs = append(b.runs, run{count: delay})
		b.len = delay
	}
	return b
}

// Len returns the logical number of buffered frames.
func (b *InputBuffer) Len() int {
	return b.len
}

// IsEmpty reports whether no frames are buffered.
func (b *InputBuffer) IsEmpty() bool {
	return b.len == 0
}

// PushLast appends a newly observed frame at the logical tail. If the frame
// equals the tail run's frame the run count is incremented instead of
// storing a new run.
func (b *InputBuffer) PushLast(frame protocol.InputFrame) {
	b.len++

	if n := len(b.runs); n > 0 && b.runs[n-1].frame.Equal(frame) {
		b.runs[n-1].count++
		return
	}

	b.runs = append(b.runs, run{frame: frame.Clone(), count: 1})
}

// DeleteLast removes the most recently pushed frame — the inverse of
// PushLast, used when delay renegotiation retracts a speculative frame.
// Calling it on an empty buffer is deliberately a no-op rather than an
// error: callers that care check Len or IsEmpty first.
func (b *InputBuffer) DeleteLast() {
	n := len(b.runs)
	if n == 0 {
		return
	}

	b.len--
	b.runs[n-1].count--
	if b.runs[n-1].count == 0 {
		b.runs[n-1] = run{}
		b.runs = b.runs[:n-1]
	}
}

// PeekNext returns the oldest frame without consuming it. The second return
// value is false if the buffer is empty.
func (b *InputBuffer) PeekNext() (protocol.InputFrame, bool) {
	if len(b.runs) == 0 {
		return protocol.InputFrame{}, false
	}
	return b.runs[0].frame.Clone(), true
}

// PopNext consumes and returns the oldest frame. Pops come back in exactly
// the order frames were pushed, which simulation determinism depends on.
// The second return value is false if the buffer is empty.
func (b *InputBuffer) PopNext() (protocol.InputFrame, bool) {
	if len(b.runs) == 0 {
		return protocol.InputFrame{}, false
	}

	b.len--
	b.runs[0].count--

	frame := b.runs[0].frame.Clone()
	if b.runs[0].count == 0 {
		b.runs[0] = run{}
		b.runs = b.runs[1:]
	}
	return frame, true
}

// Get returns the frame at logical offset index (0 = oldest) without
// mutating the buffer. Cost is O(distinct runs), not O(Len) — held inputs
// are not decompressed. The second return value is false if index ≥ Len.
func (b *InputBuffer) Get(index int) (protocol.InputFrame, bool) {
	if index < 0 {
		return protocol.InputFrame{}, false
	}

	for _, r := range b.runs {
		if index < r.count {
			return r.frame.Clone(), true
		}
		index -= r.count
	}
	return protocol.InputFrame{}, false
}

// Clear drops all runs and resets the length. Used on session reset.
func (b *InputBuffer) Clear() {
	b.runs = nil
	b.len = 0
}

// RunCount returns the number of distinct runs currently stored. Exposed for
// inspection of compression behavior.
func (b *InputBuffer) RunCount() int {
	return len(b.runs)
}
