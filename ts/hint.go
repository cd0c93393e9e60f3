package ts

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// CacheLine is the assumed cache line size in bytes used by CacheLineHint.
const CacheLine = 64

// Hint is the (key, flags) tuple a task carries for spatial-locality
// routing. Flags here are the subset relevant to hint resolution:
// NOHASH, NOHINT, SAMEHINT, NONSERIALHINT.
type Hint struct {
	Key   uint64
	Flags EnqFlags
}

// CacheLineHint maps a memory address to the cache line containing it,
// the canonical spatial hint for tasks that touch a specific address.
func CacheLineHint(addr uintptr) uint64 {
	return uint64(addr) / CacheLine
}

// HintOf resolves a raw hint key into a tile index. With NOHASH set the
// mapping is a plain modulo against numTiles; otherwise the key is hashed
// with SHA3-256 and the low 64 bits of the digest are taken, giving a more
// uniform spread across tiles at the cost of losing locality between
// numerically adjacent keys.
func HintOf(key uint64, flags EnqFlags, numTiles uint64) uint64 {
	if numTiles == 0 {
		return 0
	}
	if flags.Has(NOHASH) {
		return key % numTiles
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)
	digest := sha3.Sum256(buf[:])
	h := binary.LittleEndian.Uint64(digest[:8])
	return h % numTiles
}
