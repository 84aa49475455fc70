package session

import (
	"github.com/RogueClaris/Hub-OS/internal/buffer"
	"github.com/RogueClaris/Hub-OS/internal/protocol"
	"github.com/RogueClaris/Hub-OS/internal/util"
)

// Lead negotiation. Each steady-state Buffer packet carries a sequence of
// signed per-participant hints: lead[i] asks participant i to grow (positive)
// or shrink (negative) its effective input delay. The protocol leaves two
// points open — how conflicting hints are resolved and how large a jump is
// safe — so this implementation fixes both:
//
//   - Hints from different peers for the same frame resolve to the largest
//     requested delay. Never shrinking below what the slowest peer asked for
//     keeps the most latency-starved link usable.
//   - The applied adjustment is clamped to ±MaxLeadStep per frame. Delay
//     changes larger than that are spread across consecutive frames, so the
//     simulation never sees a discontinuous jump.
//
// Every session holds a copy of every participant's stream, and a frame
// inserted or retracted at the source must be inserted or retracted in each
// copy or the replicas diverge. Hints ride in broadcast Buffer packets, so
// every session observes the same hints for the same frame: each one applies
// the identical clamped adjustment to its own copy of the hinted
// participant's stream — the local buffer when the hint addresses us, the
// peer's buffer otherwise.

// noteLead folds one packet's hint sequence into the pending per-participant
// adjustments. Hints for slots nobody occupies are ignored.
func (s *Session) noteLead(lead []int16) {
	for idx, hint := range lead {
		if hint == 0 {
			continue
		}
		if idx != s.localIndex {
			if _, ok := s.peers[idx]; !ok {
				continue
			}
		}
		if cur, ok := s.pendingLead[idx]; !ok || hint > cur {
			s.pendingLead[idx] = hint
		}
	}
}

// ApplyLead applies this frame's aggregated lead hints to every stream copy
// the session holds and returns the adjustment made to the local delay, in
// frames. Call exactly once per simulated frame, after all received packets
// are handled, so every session adjusts at the same point in the stream.
//
// Growing pushes speculative empty frames at the buffer tail; shrinking
// retracts the most recent frames via DeleteLast. Both ends of a stream copy
// see the same tail, so the same operation lands on the same logical frame
// everywhere.
func (s *Session) ApplyLead() int {
	local := 0
	for idx, hint := range s.pendingLead {
		step := int(hint)
		if step > s.cfg.MaxLeadStep {
			step = s.cfg.MaxLeadStep
		} else if step < -s.cfg.MaxLeadStep {
			step = -s.cfg.MaxLeadStep
		}

		buf := s.localBuffer
		if idx != s.localIndex {
			buf = s.peers[idx].Buffer
		}

		applied := adjustBuffer(buf, step)
		if idx == s.localIndex {
			s.delay += applied
			local = applied
		}
		if applied != 0 {
			util.LogDebug("lead adjustment %+d for participant %d", applied, idx)
		}
	}

	clear(s.pendingLead)
	return local
}

// adjustBuffer grows or shrinks one stream copy and reports the adjustment
// actually made. Shrinking stops at an empty buffer.
func adjustBuffer(b *buffer.InputBuffer, step int) int {
	switch {
	case step > 0:
		for i := 0; i < step; i++ {
			b.PushLast(protocol.InputFrame{})
		}
		return step

	case step < 0:
		applied := 0
		for i := 0; i < -step && !b.IsEmpty(); i++ {
			b.DeleteLast()
			applied++
		}
		return -applied
	}
	return 0
}
