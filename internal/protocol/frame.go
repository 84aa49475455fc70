package protocol

import "github.com/RogueClaris/Hub-OS/internal/input"

// InputFrame is one logical frame of a participant's control state: the set
// of currently-held inputs plus any session signals active that frame.
// The zero value (no inputs, no signals) is the frame a freshly connected
// peer is assumed to produce during its artificial input delay.
type InputFrame struct {
	Pressed []input.Input   `codec:"pressed"`
	Signals []NetplaySignal `codec:"signals"`
}

// Equal reports whether two frames hold the same input set and signal set.
// Order is ignored on both sides: frames are compared as multisets, which is
// what makes run-length merging in the input buffer correct regardless of
// the order a platform layer happens to report held controls in.
func (f InputFrame) Equal(other InputFrame) bool {
	return equalMultiset(f.Pressed, other.Pressed) &&
		equalMultiset(f.Signals, other.Signals)
}

// HasSignal reports whether the given signal is active this frame.
func (f InputFrame) HasSignal(sig NetplaySignal) bool {
	for _, s := range f.Signals {
		if s == sig {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. The buffer hands out frames by value, so shared
// backing arrays between a stored run and a caller's copy must be avoided.
func (f InputFrame) Clone() InputFrame {
	out := InputFrame{}
	if f.Pressed != nil {
		out.Pressed = append([]input.Input(nil), f.Pressed...)
	}
	if f.Signals != nil {
		out.Signals = append([]NetplaySignal(nil), f.Signals...)
	}
	return out
}

// equalMultiset compares two slices as multisets.
func equalMultiset[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}

	counts := make(map[T]int, len(a))
	for _, v := range a {
		counts[v]++
	}
	for _, v := range b {
		counts[v]--
		if counts[v] < 0 {
			return false
		}
	}
	return true
}
