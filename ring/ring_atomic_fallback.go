//go:build !amd64 || noasm

package ring

import "sync/atomic"

// loadAcquireUint64 is an acquire load of a slot's sequence stamp.
func loadAcquireUint64(p *uint64) uint64 {
	return atomic.LoadUint64(p)
}

// storeReleaseUint64 is a release store to a slot's sequence stamp. This is
// the fence Push/Pop rely on to publish s.t before the stamp bump becomes
// visible to the other side.
func storeReleaseUint64(p *uint64, v uint64) {
	atomic.StoreUint64(p, v)
}
