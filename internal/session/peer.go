package session

import (
	"github.com/RogueClaris/Hub-OS/internal/buffer"
	"github.com/RogueClaris/Hub-OS/internal/protocol"
)

// Peer tracks one remote participant's progress through the session and owns
// the input buffer holding that participant's not-yet-consumed frames.
type Peer struct {
	// Index is the participant slot this peer occupies.
	Index int

	// Buffer queues the peer's received input frames until the local
	// simulation consumes them.
	Buffer *buffer.InputBuffer

	// Setup is the peer's PlayerSetup, nil until received.
	Setup *protocol.PlayerSetup

	// ListReceived is set when the peer's PackageList has been processed.
	// The local side cannot declare package sync done before every peer's
	// list has been diffed.
	ListReceived bool

	// PackagesDone is set when the peer sends ReadyForPackages.
	PackagesDone bool

	// Ready is set when the peer sends Ready.
	Ready bool
}

func newPeer(index, delay int) *Peer {
	return &Peer{
		Index:  index,
		Buffer: buffer.NewWithDelay(delay),
	}
}
