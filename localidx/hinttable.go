package localidx

import "github.com/SwarmArch/runtime/utils"

// HintTable resolves a raw hint key to a spatial tile index;
// sched.AffinityRouter uses it to pick the tile, and so the pinned
// consumer, for a task's hint. Keys are assigned tiles on first sight and
// remembered thereafter.
type HintTable struct {
	h        Hash
	nextTile uint32
	numTiles uint32
}

// NewHintTable returns a table that assigns keys to one of numTiles tiles,
// with room for capacity distinct keys before growth would be needed.
func NewHintTable(capacity int, numTiles uint32) *HintTable {
	return &HintTable{h: New(capacity), numTiles: numTiles}
}

// mixKey spreads key with utils.Mix64 before it reaches the Robin Hood
// table's bare key&mask indexing: hint keys are often small sequential
// tile/producer ids, and hashing them first keeps clustered callers from
// piling into the same few buckets. Key 0 is reserved by the underlying
// Hash as the empty sentinel, so it is remapped to 1 before mixing (not
// after, so that TileOf(0) and TileOf(1) keep resolving to the same slot).
// A mix that happens to land on 0 is likewise bumped to 1.
func mixKey(key uint32) uint32 {
	if key == 0 {
		key = 1
	}
	m := uint32(utils.Mix64(uint64(key)))
	if m == 0 {
		return 1
	}
	return m
}

// TileOf returns the tile assigned to key, assigning the next round-robin
// tile the first time key is seen.
func (t *HintTable) TileOf(key uint32) uint32 {
	key = mixKey(key)
	if v, ok := t.h.Get(key); ok {
		return v
	}
	tile := t.nextTile % t.numTiles
	t.nextTile++
	return t.h.Put(key, tile)
}
