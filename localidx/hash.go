// Package localidx implements a fixed-capacity Robin Hood hash map over
// uint32 keys/values. HintTable is the one concrete consumer, mapping a
// raw hint key to a spatial tile index; the oracle back-end's UID index
// (C7) deliberately does not reuse it, since Hash's keys and values are
// both uint32 and oracle UIDs are uint64.
package localidx

// Hash is a fixed-capacity, single-threaded Robin Hood hash map. Keys and
// values live in parallel arrays rather than one array of pairs, since
// every lookup touches keys first and only needs the matching value on a
// hit.
type Hash struct {
	keys []uint32 // 0 is the empty-slot sentinel
	vals []uint32
	mask uint32
}

func nextPow2(n int) uint32 {
	s := uint32(1)
	for s < uint32(n) {
		s <<= 1
	}
	return s
}

// New returns a Hash with room for capacity entries at a safe load factor:
// size is rounded up to 2x capacity, then to the next power of two so the
// mask indexing stays cheap.
func New(capacity int) Hash {
	sz := nextPow2(capacity * 2)
	return Hash{
		keys: make([]uint32, sz),
		vals: make([]uint32, sz),
		mask: sz - 1,
	}
}

// Put inserts key/val, or returns the existing value if key is already
// present. Robin Hood displacement: an entry closer to its own ideal slot
// than the one being inserted is to its slot gets bumped, and the bumped
// entry continues probing from there. key must not be 0.
//
//go:norace
//go:nocheckptr
//go:nosplit
//go:inline
//go:registerparams
func (h Hash) Put(key, val uint32) uint32 {
	i := key & h.mask
	dist := uint32(0)
	ret := val

	for {
		k := h.keys[i]
		if k == 0 {
			h.keys[i], h.vals[i] = key, val
			return ret
		}
		if k == key {
			return h.vals[i]
		}

		kDist := (i + h.mask + 1 - (k & h.mask)) & h.mask
		if kDist < dist {
			key, h.keys[i] = h.keys[i], key
			val, h.vals[i] = h.vals[i], val
			dist = kDist
		}

		i = (i + 1) & h.mask
		dist++
	}
}

// Get looks up key, terminating early once it passes an entry closer to
// its own ideal slot than the current probe distance — the Robin Hood
// invariant that makes a miss provably absent rather than requiring a
// full probe sequence.
//
//go:norace
//go:nocheckptr
//go:nosplit
//go:inline
//go:registerparams
func (h Hash) Get(key uint32) (uint32, bool) {
	i := key & h.mask
	dist := uint32(0)

	for {
		k := h.keys[i]
		if k == 0 {
			return 0, false
		}
		if k == key {
			return h.vals[i], true
		}

		kDist := (i + h.mask + 1 - (k & h.mask)) & h.mask
		if kDist < dist {
			return 0, false
		}

		i = (i + 1) & h.mask
		dist++
	}
}
