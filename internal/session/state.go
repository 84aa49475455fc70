package session

import "github.com/RogueClaris/Hub-OS/internal/protocol"

// State is the per-connection phase. There is no reconnect: a new connection
// restarts at Connecting.
type State uint8

const (
	// Connecting — Hello/HelloAck not yet exchanged.
	Connecting State = iota
	// SettingUp — exchanging PlayerSetup and syncing packages.
	SettingUp
	// ReadyPending — no peer needs packages; waiting for every Ready.
	ReadyPending
	// Steady — per-frame Buffer exchange.
	Steady
	// Closed — terminal. Entered on a Disconnect signal, a fatal handshake
	// failure, or transport loss (the transport layer's concern).
	Closed
)

var stateNames = [...]string{
	Connecting:   "Connecting",
	SettingUp:    "SettingUp",
	ReadyPending: "ReadyPending",
	Steady:       "Steady",
	Closed:       "Closed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// allowed is the phase/message validity table. A packet kind absent from the
// current state's row is a protocol error: logged, counted, dropped.
// Heartbeat is valid in every non-terminal state and is special-cased before
// the table lookup.
var allowed = map[State]map[protocol.Kind]bool{
	Connecting: {
		protocol.KindHello:    true,
		protocol.KindHelloAck: true,
	},
	SettingUp: {
		// Simultaneous open: both sides send Hello, so an ack can trail in
		// after the receiver has already advanced to SettingUp.
		protocol.KindHelloAck:         true,
		protocol.KindPlayerSetup:      true,
		protocol.KindPackageList:      true,
		protocol.KindMissingPackages:  true,
		protocol.KindReadyForPackages: true,
		protocol.KindPackageZip:       true,
		protocol.KindReady:            true,
	},
	ReadyPending: {
		protocol.KindReady: true,
	},
	Steady: {
		protocol.KindBuffer: true,
	},
	Closed: {},
}
