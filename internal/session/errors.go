// Package session drives one netplay connection through its lifecycle:
// handshake, setup and package sync, then steady-state input exchange.
package session

import "errors"

// Sentinel errors. Protocol errors are surfaced to the caller so it can
// decide whether to disconnect the offending peer; none of them are fatal to
// the local process.
var (
	// Connection lifecycle
	ErrSessionClosed   = errors.New("netplay: session closed")
	ErrVersionMismatch = errors.New("netplay: protocol version mismatch")

	// Protocol errors
	ErrUnexpectedPacket     = errors.New("netplay: unexpected packet for connection state")
	ErrUnknownParticipant   = errors.New("netplay: unknown participant index")
	ErrDuplicateSetup       = errors.New("netplay: duplicate player setup")
	ErrDuplicatePackageList = errors.New("netplay: duplicate package list")
	ErrCardIndexOutOfRange  = errors.New("netplay: regular card index out of range")
	ErrUnknownHash          = errors.New("netplay: unknown content hash requested")
	ErrMissingPayload       = errors.New("netplay: no payload held for advertised hash")
	ErrUnexpectedZip        = errors.New("netplay: package zip with no pending request")
)
