package fund

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/spaolacci/murmur3"
)

// CustodySetHash folds a set of asset addresses into a single u64. The fold
// is order-sensitive, so callers must present addresses in the order the
// assets were added on chain.
//
// Admin instructions that change the tracked asset set carry the hash of the
// expected resulting set. The chain recomputes its own running hash as assets
// are added or removed and only accepts the change when the two agree, which
// rejects admin transactions built against an outdated view of the set.
func CustodySetHash(addresses []ed25519.PublicKey) uint64 {
	var h uint64
	for _, address := range addresses {
		h = ChainHash(h, address)
	}
	return h
}

// ChainHash appends one address to a running custody set hash.
func ChainHash(h uint64, address ed25519.PublicKey) uint64 {
	buf := make([]byte, 8+ed25519.PublicKeySize)
	binary.LittleEndian.PutUint64(buf, h)
	copy(buf[8:], address)
	return murmur3.Sum64(buf)
}
