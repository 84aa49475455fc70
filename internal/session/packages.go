package session

import (
	"fmt"

	"github.com/RogueClaris/Hub-OS/internal/protocol"
)

// packageSync tracks the package-distribution handshake from the local
// side: what we hold, what we still expect from peers, and what peers have
// asked us for. Archive reassembly and hash verification happen in the
// package manager — here a zip is only matched back to the request queue.
type packageSync struct {
	installed map[protocol.FileHash]protocol.PackageEntry
	payloads  map[protocol.FileHash][]byte

	// requested holds the hashes we asked a peer for. PackageZip replies
	// carry no hash, so they are matched in request order.
	requested []protocol.FileHash
}

func newPackageSync(entries []protocol.PackageEntry, payloads map[protocol.FileHash][]byte) *packageSync {
	installed := make(map[protocol.FileHash]protocol.PackageEntry, len(entries))
	for _, e := range entries {
		installed[e.Hash] = e
	}
	return &packageSync{
		installed: installed,
		payloads:  payloads,
	}
}

// entries returns a PackageList advertisement of everything we hold.
func (ps *packageSync) entries() []protocol.PackageEntry {
	out := make([]protocol.PackageEntry, 0, len(ps.installed))
	for _, e := range ps.installed {
		out = append(out, e)
	}
	return out
}

// missing diffs a peer's advertisement against the installed set and returns
// the content hashes we lack, in advertisement order.
func (ps *packageSync) missing(advertised []protocol.PackageEntry) []protocol.FileHash {
	var out []protocol.FileHash
	seen := make(map[protocol.FileHash]bool, len(advertised))
	for _, e := range advertised {
		if seen[e.Hash] {
			continue
		}
		seen[e.Hash] = true
		if _, ok := ps.installed[e.Hash]; !ok {
			out = append(out, e.Hash)
		}
	}
	return out
}

// serve returns the payload for each requested hash, in request order.
// A hash we never advertised is a protocol error; an advertised hash with no
// payload behind it is a local inventory defect, and serving a nil archive
// for it would corrupt the requester's order-matched receive queue.
func (ps *packageSync) serve(hashes []protocol.FileHash) ([][]byte, error) {
	out := make([][]byte, 0, len(hashes))
	for _, h := range hashes {
		if _, ok := ps.installed[h]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownHash, h)
		}
		data, ok := ps.payloads[h]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingPayload, h)
		}
		out = append(out, data)
	}
	return out, nil
}

// request records hashes we are about to ask a peer for.
func (ps *packageSync) request(hashes []protocol.FileHash) {
	ps.requested = append(ps.requested, hashes...)
}

// receive matches an incoming zip to the oldest outstanding request.
func (ps *packageSync) receive() (protocol.FileHash, bool) {
	if len(ps.requested) == 0 {
		return "", false
	}
	h := ps.requested[0]
	ps.requested = ps.requested[1:]
	return h, true
}

// pending returns the number of outstanding package requests.
func (ps *packageSync) pending() int {
	return len(ps.requested)
}
