package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RogueClaris/Hub-OS/internal/config"
	"github.com/RogueClaris/Hub-OS/internal/input"
	"github.com/RogueClaris/Hub-OS/internal/protocol"
)

// leadSession returns a session for participant 0 with two remotes, forced
// into the steady state so Buffer packets are accepted directly.
func leadSession(maxStep int) *Session {
	cfg := config.Default()
	cfg.Delay = 3
	cfg.MaxLeadStep = maxStep

	s := New(cfg, 0, []int{1, 2}, testSetup("dev.test.player.alpha"), nil, nil)
	s.state = Steady
	return s
}

func bufferWithLead(index int, lead []int16) protocol.Packet {
	return protocol.Packet{Index: index, Data: protocol.Buffer{Lead: lead}}
}

func TestApplyLeadWithoutHintsIsZero(t *testing.T) {
	s := leadSession(1)
	assert.Equal(t, 0, s.ApplyLead())
	assert.Equal(t, 3, s.Delay())
}

func TestApplyLeadGrowsDelay(t *testing.T) {
	s := leadSession(2)

	_, err := s.HandlePacket(bufferWithLead(1, []int16{1}))
	require.NoError(t, err)

	assert.Equal(t, 1, s.ApplyLead())
	assert.Equal(t, 4, s.Delay())
	assert.Equal(t, 4, s.localBuffer.Len(), "growth pushes speculative empty frames")
}

func TestApplyLeadClampsPerFrame(t *testing.T) {
	s := leadSession(2)

	_, err := s.HandlePacket(bufferWithLead(1, []int16{5}))
	require.NoError(t, err)

	assert.Equal(t, 2, s.ApplyLead(), "adjustment must be clamped to max_lead_step")
	assert.Equal(t, 5, s.Delay())

	// The hint is consumed; the remainder is not carried over.
	assert.Equal(t, 0, s.ApplyLead())
}

func TestApplyLeadShrinksDelay(t *testing.T) {
	s := leadSession(1)

	_, err := s.HandlePacket(bufferWithLead(1, []int16{-2}))
	require.NoError(t, err)

	assert.Equal(t, -1, s.ApplyLead())
	assert.Equal(t, 2, s.Delay())
	assert.Equal(t, 2, s.localBuffer.Len(), "shrink retracts a speculative frame")
}

func TestApplyLeadShrinkStopsAtEmptyBuffer(t *testing.T) {
	s := leadSession(5)
	s.localBuffer.Clear()
	s.delay = 0

	_, err := s.HandlePacket(bufferWithLead(1, []int16{-3}))
	require.NoError(t, err)

	assert.Equal(t, 0, s.ApplyLead(), "nothing to retract from an empty buffer")
	assert.Equal(t, 0, s.Delay())
}

func TestConflictingHintsResolveToLargestDelay(t *testing.T) {
	s := leadSession(5)

	// Two peers disagree about participant 0's delay within the same frame.
	_, err := s.HandlePacket(bufferWithLead(1, []int16{1}))
	require.NoError(t, err)
	_, err = s.HandlePacket(bufferWithLead(2, []int16{3}))
	require.NoError(t, err)

	assert.Equal(t, 3, s.ApplyLead(), "largest requested delay wins")
}

func TestHintsForOtherParticipantsAdjustTheirCopies(t *testing.T) {
	s := leadSession(5)

	// lead[0] is for us; lead[1] and lead[2] address the other participants,
	// whose stream copies we hold and must adjust in step with them.
	_, err := s.HandlePacket(bufferWithLead(1, []int16{0, 2, -2}))
	require.NoError(t, err)

	assert.Equal(t, 0, s.ApplyLead(), "local delay is untouched")
	assert.Equal(t, 3, s.Delay())

	// Peer 1's copy held 3 seeds plus the frame riding the hint packet.
	p1, _ := s.Peer(1)
	assert.Equal(t, 6, p1.Buffer.Len(), "grow hint appends empties to peer 1's copy")
	p2, _ := s.Peer(2)
	assert.Equal(t, 1, p2.Buffer.Len(), "shrink hint retracts from peer 2's copy")
}

func TestLeadAdjustmentKeepsStreamCopiesAligned(t *testing.T) {
	a, b := newPair()
	connect(t, a, b)

	// b asks participant 0 to grow its delay. Both sessions observe the hint
	// (b through its own outgoing packet, a through receiving it) and must
	// apply the identical adjustment to their copy of participant 0's stream.
	pktB, err := b.QueueLocalFrame(protocol.InputFrame{}, []int16{1})
	require.NoError(t, err)
	pktA, err := a.QueueLocalFrame(protocol.InputFrame{Pressed: []input.Input{input.Left}}, nil)
	require.NoError(t, err)

	_, err = a.HandlePacket(pktB)
	require.NoError(t, err)
	_, err = b.HandlePacket(pktA)
	require.NoError(t, err)

	assert.Equal(t, 1, a.ApplyLead())
	assert.Equal(t, 0, b.ApplyLead(), "b's own delay is untouched")

	// Draining both copies of participant 0 must yield the same sequence,
	// speculative empties included.
	var fromA, fromB []protocol.InputFrame
	for {
		f, ok := a.PopFrame(0)
		if !ok {
			break
		}
		fromA = append(fromA, f)
	}
	for {
		f, ok := b.PopFrame(0)
		if !ok {
			break
		}
		fromB = append(fromB, f)
	}

	require.Len(t, fromB, len(fromA), "both sessions must hold the same frame count for participant 0")
	for i := range fromA {
		assert.True(t, fromA[i].Equal(fromB[i]), "participant 0's frame %d diverges between copies", i)
	}
}

func TestShortLeadSequenceIgnored(t *testing.T) {
	s := leadSession(5)
	s.localIndex = 2 // our slot is past the end of the hint sequence

	_, err := s.HandlePacket(bufferWithLead(1, []int16{1, 1}))
	require.NoError(t, err)

	assert.Equal(t, 0, s.ApplyLead())
}
