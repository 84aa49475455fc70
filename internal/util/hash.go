package util

import (
	"fmt"
	"hash/fnv"

	"github.com/RogueClaris/Hub-OS/internal/protocol"
)

// ContentHash computes a 64-bit FNV-1a hash of a package's bytes. The hash
// is used solely for identification during package sync — cryptographic
// integrity checking belongs to the package manager.
func ContentHash(data []byte) protocol.FileHash {
	h := fnv.New64a()
	h.Write(data)
	return protocol.FileHash(fmt.Sprintf("%016x", h.Sum64()))
}
