package session

import (
	"fmt"

	"github.com/RogueClaris/Hub-OS/internal/buffer"
	"github.com/RogueClaris/Hub-OS/internal/config"
	"github.com/RogueClaris/Hub-OS/internal/protocol"
	"github.com/RogueClaris/Hub-OS/internal/util"
)

// Session is the per-connection netplay driver. It consumes decoded packets
// through HandlePacket — the dispatch entry point — and returns the packets
// the caller must send in response. The session never touches a socket: the
// transport layer owns delivery, the session owns meaning.
//
// All methods are synchronous and must be called from the single goroutine
// that steps the simulation. Input buffers are exclusively owned here.
type Session struct {
	cfg *config.Config

	localIndex  int
	localSetup  protocol.PlayerSetup
	localBuffer *buffer.InputBuffer
	delay       int

	state State
	peers map[int]*Peer

	packages   *packageSync
	onPackage  func(protocol.FileHash, []byte)
	setupSent  bool
	localDone  bool // ReadyForPackages sent
	localReady bool // Ready sent

	// Lead hints observed this frame, keyed by the participant they address.
	pendingLead map[int]int16
}

// New creates a session for the given participant slots. installed describes
// the local package set advertised during sync; payloads supplies the bytes
// served for requested hashes.
func New(cfg *config.Config, localIndex int, remoteIndexes []int,
	setup protocol.PlayerSetup, installed []protocol.PackageEntry,
	payloads map[protocol.FileHash][]byte) *Session {

	s := &Session{
		cfg:         cfg,
		localIndex:  localIndex,
		localSetup:  setup,
		localBuffer: buffer.NewWithDelay(cfg.Delay),
		delay:       cfg.Delay,
		state:       Connecting,
		peers:       make(map[int]*Peer, len(remoteIndexes)),
		packages:    newPackageSync(installed, payloads),
		pendingLead: make(map[int]int16),
	}

	for _, idx := range remoteIndexes {
		s.peers[idx] = newPeer(idx, cfg.Delay)
	}
	return s
}

// OnPackage registers a callback invoked for every received package archive,
// paired with the hash it was requested under.
func (s *Session) OnPackage(fn func(protocol.FileHash, []byte)) {
	s.onPackage = fn
}

// State returns the current connection state.
func (s *Session) State() State {
	return s.state
}

// LocalIndex returns the local participant slot.
func (s *Session) LocalIndex() int {
	return s.localIndex
}

// Delay returns the current effective local input delay in frames.
func (s *Session) Delay() int {
	return s.delay
}

// Peer returns the record for a remote participant.
func (s *Session) Peer(index int) (*Peer, bool) {
	p, ok := s.peers[index]
	return p, ok
}

// Start emits the opening Hello. Call once after construction.
func (s *Session) Start() []protocol.Packet {
	return []protocol.Packet{{
		Index: s.localIndex,
		Data:  protocol.Hello{Version: protocol.VersionIteration},
	}}
}

// HandleRaw decodes a received datagram and dispatches it. This is the
// deserialize-then-dispatch entry point exposed to the transport layer.
func (s *Session) HandleRaw(data []byte) ([]protocol.Packet, error) {
	util.Stats.AddReceived(len(data))

	pkt, err := protocol.Decode(data)
	if err != nil {
		util.Stats.AddDropped()
		util.LogWarning("dropping undecodable packet: %v", err)
		return nil, err
	}
	return s.HandlePacket(pkt)
}

// HandlePacket dispatches one decoded packet against the current state and
// returns any reply packets. Protocol errors are logged, counted, and
// surfaced as sentinel errors; the packet's contribution is dropped and the
// session stays usable unless the error is connection-fatal
// (ErrVersionMismatch).
func (s *Session) HandlePacket(pkt protocol.Packet) ([]protocol.Packet, error) {
	if s.state == Closed {
		util.Stats.AddDropped()
		return nil, ErrSessionClosed
	}

	kind := pkt.Data.Kind()
	if kind == protocol.KindHeartbeat {
		return nil, nil // keepalive only, valid at any time
	}

	if !allowed[s.state][kind] {
		util.Stats.AddDropped()
		util.LogWarning("[%d] %s packet in %s state, dropping", pkt.Index, kind, s.state)
		return nil, fmt.Errorf("%w: %s in %s", ErrUnexpectedPacket, kind, s.state)
	}

	switch data := pkt.Data.(type) {
	case protocol.Hello:
		return s.handleHello(data.Version, true)
	case protocol.HelloAck:
		return s.handleHello(data.Version, false)
	case protocol.PlayerSetup:
		return nil, s.handlePlayerSetup(pkt.Index, data)
	case protocol.PackageList:
		return s.handlePackageList(pkt.Index, data)
	case protocol.MissingPackages:
		return s.handleMissingPackages(pkt.Index, data)
	case protocol.ReadyForPackages:
		return nil, s.handleReadyForPackages(pkt.Index)
	case protocol.PackageZip:
		return s.handlePackageZip(data)
	case protocol.Ready:
		return nil, s.handleReady(pkt.Index)
	case protocol.Buffer:
		return nil, s.handleBuffer(pkt.Index, data)
	default:
		util.Stats.AddDropped()
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedPacket, kind)
	}
}

// ---------------------------------------------------------------------------
// Handshake
// ---------------------------------------------------------------------------

func (s *Session) handleHello(version uint16, reply bool) ([]protocol.Packet, error) {
	if version != protocol.VersionIteration {
		s.state = Closed
		util.LogError("protocol version mismatch: local %d, remote %d",
			protocol.VersionIteration, version)
		return nil, fmt.Errorf("%w: local %d, remote %d",
			ErrVersionMismatch, protocol.VersionIteration, version)
	}

	var out []protocol.Packet
	if reply {
		out = append(out, protocol.Packet{
			Index: s.localIndex,
			Data:  protocol.HelloAck{Version: protocol.VersionIteration},
		})
	}

	if s.state == Connecting {
		s.state = SettingUp
		util.LogDebug("handshake complete, entering %s", s.state)
		out = append(out, s.setupPackets()...)
	}
	return out, nil
}

// setupPackets emits the local PlayerSetup and PackageList exactly once.
func (s *Session) setupPackets() []protocol.Packet {
	if s.setupSent {
		return nil
	}
	s.setupSent = true

	return []protocol.Packet{
		{Index: s.localIndex, Data: s.localSetup},
		{Index: s.localIndex, Data: protocol.PackageList{Packages: s.packages.entries()}},
	}
}

// ---------------------------------------------------------------------------
// Setup & package sync
// ---------------------------------------------------------------------------

func (s *Session) handlePlayerSetup(index int, setup protocol.PlayerSetup) error {
	peer, ok := s.peers[index]
	if !ok {
		return s.protocolError("%w: %d", ErrUnknownParticipant, index)
	}
	if peer.Setup != nil {
		return s.protocolError("%w: participant %d", ErrDuplicateSetup, index)
	}

	// regular_card must be nil or a valid index into Cards. Out-of-range
	// values come from a hostile or broken peer and must never reach an
	// indexing operation.
	if rc := setup.RegularCard; rc != nil && (*rc < 0 || *rc >= len(setup.Cards)) {
		return s.protocolError("%w: %d with %d cards (participant %d)",
			ErrCardIndexOutOfRange, *rc, len(setup.Cards), index)
	}

	peer.Setup = &setup
	util.LogDebug("[%d] player setup received: package=%s cards=%d",
		index, setup.PlayerPackage, len(setup.Cards))
	return nil
}

func (s *Session) handlePackageList(index int, list protocol.PackageList) ([]protocol.Packet, error) {
	peer, ok := s.peers[index]
	if !ok {
		return nil, s.protocolError("%w: %d", ErrUnknownParticipant, index)
	}
	if peer.ListReceived {
		return nil, s.protocolError("%w: participant %d", ErrDuplicatePackageList, index)
	}
	peer.ListReceived = true

	missing := s.packages.missing(list.Packages)
	if len(missing) == 0 {
		return s.maybeFinishLocalPackages(), nil
	}

	s.packages.request(missing)
	util.LogInfo("[%d] requesting %d missing packages", index, len(missing))
	return []protocol.Packet{{
		Index: s.localIndex,
		Data:  protocol.MissingPackages{RecipientIndex: index, List: missing},
	}}, nil
}

func (s *Session) handleMissingPackages(index int, req protocol.MissingPackages) ([]protocol.Packet, error) {
	if _, ok := s.peers[index]; !ok {
		return nil, s.protocolError("%w: %d", ErrUnknownParticipant, index)
	}
	if req.RecipientIndex != s.localIndex {
		// Addressed to another participant; nothing for us to serve.
		return nil, nil
	}

	payloads, err := s.packages.serve(req.List)
	if err != nil {
		return nil, s.protocolError("[%d] %w", index, err)
	}

	out := make([]protocol.Packet, 0, len(payloads))
	for _, data := range payloads {
		out = append(out, protocol.Packet{
			Index: s.localIndex,
			Data:  protocol.PackageZip{Data: data},
		})
		util.Stats.AddSent(len(data))
	}
	util.LogInfo("[%d] serving %d package archives", index, len(out))
	return out, nil
}

func (s *Session) handlePackageZip(zip protocol.PackageZip) ([]protocol.Packet, error) {
	hash, ok := s.packages.receive()
	if !ok {
		return nil, s.protocolError("%w", ErrUnexpectedZip)
	}

	if s.onPackage != nil {
		s.onPackage(hash, zip.Data)
	}

	return s.maybeFinishLocalPackages(), nil
}

// maybeFinishLocalPackages emits ReadyForPackages once — after every peer's
// PackageList has been diffed and no requests are outstanding. With more
// than one peer the lists arrive at different times, so a single no-missing
// list is not enough: a slower peer's list may still carry packages we lack.
func (s *Session) maybeFinishLocalPackages() []protocol.Packet {
	if s.localDone {
		return nil
	}
	for _, p := range s.peers {
		if !p.ListReceived {
			return nil
		}
	}
	if s.packages.pending() > 0 {
		return nil
	}

	s.localDone = true
	s.maybeAdvanceSetup()
	return []protocol.Packet{{Index: s.localIndex, Data: protocol.ReadyForPackages{}}}
}

func (s *Session) handleReadyForPackages(index int) error {
	peer, ok := s.peers[index]
	if !ok {
		return s.protocolError("%w: %d", ErrUnknownParticipant, index)
	}
	peer.PackagesDone = true
	s.maybeAdvanceSetup()
	return nil
}

func (s *Session) handleReady(index int) error {
	peer, ok := s.peers[index]
	if !ok {
		return s.protocolError("%w: %d", ErrUnknownParticipant, index)
	}
	peer.Ready = true
	s.maybeEnterSteady()
	return nil
}

// LocalReady marks the local participant finished with setup and package
// sync and returns the Ready packet to broadcast. It fails while package
// requests are still outstanding.
func (s *Session) LocalReady() (protocol.Packet, error) {
	if s.state != SettingUp && s.state != ReadyPending {
		return protocol.Packet{}, fmt.Errorf("%w: Ready in %s", ErrUnexpectedPacket, s.state)
	}
	if n := s.packages.pending(); n > 0 {
		return protocol.Packet{}, fmt.Errorf("netplay: %d package requests still pending", n)
	}

	s.localReady = true
	s.maybeEnterSteady()
	return protocol.Packet{Index: s.localIndex, Data: protocol.Ready{}}, nil
}

// maybeAdvanceSetup moves SettingUp → ReadyPending once no participant needs
// packages.
func (s *Session) maybeAdvanceSetup() {
	if s.state != SettingUp || !s.localDone {
		return
	}
	for _, p := range s.peers {
		if !p.PackagesDone {
			return
		}
	}
	s.state = ReadyPending
	util.LogDebug("package sync complete, entering %s", s.state)
}

// maybeEnterSteady moves ReadyPending → Steady once every participant,
// local included, has sent Ready.
func (s *Session) maybeEnterSteady() {
	if s.state != ReadyPending || !s.localReady {
		return
	}
	for _, p := range s.peers {
		if !p.Ready {
			return
		}
	}
	s.state = Steady
	util.LogInfo("all participants ready, entering %s", s.state)
}

// ---------------------------------------------------------------------------
// Steady state
// ---------------------------------------------------------------------------

func (s *Session) handleBuffer(index int, data protocol.Buffer) error {
	peer, ok := s.peers[index]
	if !ok {
		return s.protocolError("%w: %d", ErrUnknownParticipant, index)
	}

	peer.Buffer.PushLast(data.Data)
	util.Stats.AddFrameReceived()

	s.noteLead(data.Lead)

	// A Disconnect signal closes the connection regardless of what inputs
	// ride in the same frame. The frame itself is still buffered so trailing
	// inputs drain in order.
	if data.Data.HasSignal(protocol.SignalDisconnect) {
		s.state = Closed
		util.LogInfo("[%d] disconnect signal received, session closed", index)
	}
	return nil
}

// QueueLocalFrame records the local participant's frame for the current
// simulation step and returns the Buffer packet to send. lead carries the
// per-participant delay hints the caller measured this frame (may be nil).
func (s *Session) QueueLocalFrame(frame protocol.InputFrame, lead []int16) (protocol.Packet, error) {
	if s.state != Steady {
		return protocol.Packet{}, fmt.Errorf("%w: Buffer in %s", ErrUnexpectedPacket, s.state)
	}

	s.localBuffer.PushLast(frame)
	util.Stats.AddFrameSent()

	// Our own hints count too: the sender adjusts its copies of the hinted
	// streams in the same frame the peers do.
	s.noteLead(lead)

	return protocol.Packet{
		Index: s.localIndex,
		Data:  protocol.Buffer{Data: frame, Lead: lead},
	}, nil
}

// PopFrame consumes the oldest buffered frame for the given participant
// (local included). The second return value is false when the buffer is
// empty — the peer's frames have not arrived yet.
func (s *Session) PopFrame(index int) (protocol.InputFrame, bool) {
	if index == s.localIndex {
		return s.localBuffer.PopNext()
	}
	if p, ok := s.peers[index]; ok {
		return p.Buffer.PopNext()
	}
	return protocol.InputFrame{}, false
}

// PeekFrame returns the oldest buffered frame without consuming it.
func (s *Session) PeekFrame(index int) (protocol.InputFrame, bool) {
	if index == s.localIndex {
		return s.localBuffer.PeekNext()
	}
	if p, ok := s.peers[index]; ok {
		return p.Buffer.PeekNext()
	}
	return protocol.InputFrame{}, false
}

// Close performs an orderly local departure: the session enters Closed and
// the returned packet (a Buffer frame carrying the Disconnect signal) must
// be sent so the remote sides close in input order too.
func (s *Session) Close() protocol.Packet {
	s.state = Closed
	util.LogInfo("session closed locally")
	return protocol.NewDisconnectSignal(s.localIndex)
}

// protocolError counts, logs, and wraps a protocol violation.
func (s *Session) protocolError(format string, args ...interface{}) error {
	util.Stats.AddDropped()
	err := fmt.Errorf(format, args...)
	util.LogWarning("protocol error: %v", err)
	return err
}
