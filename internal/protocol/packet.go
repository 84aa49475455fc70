// Package protocol defines the netplay message set exchanged between peers:
// handshake, setup and package-sync negotiation, and the steady-state
// per-frame input exchange.
package protocol

// VersionIteration is the protocol revision. Increment it whenever a packet
// kind is added, removed, reordered, or a field changes shape. Both peers
// compare iterations during the Hello/HelloAck exchange and refuse the
// connection on mismatch — never mid-session.
const VersionIteration uint16 = 1

// Kind tags a PacketData variant on the wire.
type Kind uint8

const (
	KindHeartbeat Kind = iota
	KindHello
	KindHelloAck
	KindPlayerSetup
	KindPackageList
	KindMissingPackages
	KindReadyForPackages
	KindPackageZip
	KindReady
	KindBuffer
)

var kindNames = [...]string{
	KindHeartbeat:        "Heartbeat",
	KindHello:            "Hello",
	KindHelloAck:         "HelloAck",
	KindPlayerSetup:      "PlayerSetup",
	KindPackageList:      "PackageList",
	KindMissingPackages:  "MissingPackages",
	KindReadyForPackages: "ReadyForPackages",
	KindPackageZip:       "PackageZip",
	KindReady:            "Ready",
	KindBuffer:           "Buffer",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Packet is one netplay message. Index identifies the participant slot the
// message concerns — the sender for most kinds, the addressed target for
// MissingPackages. It is not a sequence number.
type Packet struct {
	Index int
	Data  PacketData
}

// PacketData is the closed tagged union of message payloads. Implementations
// live in this package only.
type PacketData interface {
	Kind() Kind
}

// ---------------------------------------------------------------------------
// Handshake
// ---------------------------------------------------------------------------

// Heartbeat keeps the transport alive. No payload, no state transition.
type Heartbeat struct{}

// Hello opens the handshake. The receiver replies with HelloAck.
type Hello struct {
	Version uint16 `codec:"version"`
}

// HelloAck answers a Hello.
type HelloAck struct {
	Version uint16 `codec:"version"`
}

// ---------------------------------------------------------------------------
// Setup & package sync
// ---------------------------------------------------------------------------

// PlayerSetup describes one participant's loadout. Each participant sends
// exactly one during setup.
type PlayerSetup struct {
	PlayerPackage PackageID              `codec:"player_package"`
	ScriptEnabled bool                   `codec:"script_enabled"`
	Cards         []Card                 `codec:"cards"`
	RegularCard   *int                   `codec:"regular_card"` // index into Cards, nil = none
	Recipes       []PackageID            `codec:"recipes"`
	Blocks        []InstalledBlock       `codec:"blocks"`
	Drives        []InstalledSwitchDrive `codec:"drives"`
}

// PackageList advertises every package the sender already holds so the
// receiver can diff against its own installed set.
type PackageList struct {
	Packages []PackageEntry `codec:"packages"`
}

// MissingPackages names the content hashes the sender lacks, addressed to
// the participant that advertised them.
type MissingPackages struct {
	RecipientIndex int        `codec:"recipient_index"`
	List           []FileHash `codec:"list"`
}

// ReadyForPackages signals the sender has no further package requests.
type ReadyForPackages struct{}

// PackageZip carries one requested package archive as raw bytes. Reassembly
// and integrity checking against the advertised hash happen downstream.
type PackageZip struct {
	Data []byte `codec:"data"`
}

// Ready signals the sender has finished setup and package sync entirely.
type Ready struct{}

// ---------------------------------------------------------------------------
// Steady state
// ---------------------------------------------------------------------------

// Buffer carries the sender's input frame for its current locally-simulated
// frame, plus per-participant lead adjustment hints (signed, in frames).
type Buffer struct {
	Data InputFrame `codec:"data"`
	Lead []int16    `codec:"lead"`
}

func (Heartbeat) Kind() Kind        { return KindHeartbeat }
func (Hello) Kind() Kind            { return KindHello }
func (HelloAck) Kind() Kind         { return KindHelloAck }
func (PlayerSetup) Kind() Kind      { return KindPlayerSetup }
func (PackageList) Kind() Kind      { return KindPackageList }
func (MissingPackages) Kind() Kind  { return KindMissingPackages }
func (ReadyForPackages) Kind() Kind { return KindReadyForPackages }
func (PackageZip) Kind() Kind       { return KindPackageZip }
func (Ready) Kind() Kind            { return KindReady }
func (Buffer) Kind() Kind           { return KindBuffer }

// NewDisconnectSignal builds the packet a departing peer sends for an orderly
// exit: a zero-input Buffer frame whose only signal is Disconnect. Carrying
// the signal inside a Buffer frame keeps it ordered relative to the input
// frames that precede it.
func NewDisconnectSignal(index int) Packet {
	return Packet{
		Index: index,
		Data: Buffer{
			Data: InputFrame{
				Signals: []NetplaySignal{SignalDisconnect},
			},
		},
	}
}
