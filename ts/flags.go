// Package ts defines the timestamp, hint, and enqueue-flag vocabulary shared
// by every other package in the runtime. Nothing here touches a priority
// queue or a worker loop; it is pure value types and bit arithmetic.
package ts

// EnqFlags is the bit-flag set attached to every enqueue call. Bits 4-15 are
// persistent (they survive a spill/fill cycle); bits 16-29 are transient
// (a spiller discards them and a requeuer re-derives them from context).
type EnqFlags uint32

const (
	NOHASH         EnqFlags = 1 << 4  // map hint by modulo rather than by hash
	PRODUCER       EnqFlags = 1 << 5  // deprioritise against same-ts peers
	MAYSPEC        EnqFlags = 1 << 6  // may run speculatively
	CANTSPEC       EnqFlags = 1 << 7  // must run non-speculatively
	NOTIMESTAMP    EnqFlags = 1 << 9  // no timestamp; excluded from GVT
	REQUEUER       EnqFlags = 1 << 10 // non-speculative requeuer task
	NONSERIALHINT  EnqFlags = 1 << 11 // may run in parallel with same-hint peers

	NOHINT       EnqFlags = 1 << 16 // no spatial hint supplied
	SAMEHINT     EnqFlags = 1 << 17 // reuse current task's hint
	SAMETASK     EnqFlags = 1 << 18 // reuse current function pointer
	SAMETIME     EnqFlags = 1 << 19 // reuse current timestamp (deprecated)
	YIELDIFFULL  EnqFlags = 1 << 20 // requeue+yield on full queue
	PARENTDOMAIN EnqFlags = 1 << 21 // target enclosing domain
	SUBDOMAIN    EnqFlags = 1 << 22 // target child domain
	SUPERDOMAIN  EnqFlags = 1 << 23 // target outermost enclosing domain
	RUNONABORT   EnqFlags = 1 << 24 // runs if parent aborts; discarded on commit
)

// persistentMask covers bits 4-15; transientMask covers bits 16-29.
const (
	persistentMask EnqFlags = 0x0000FFF0
	transientMask  EnqFlags = 0x3FFF0000
)

// Persistent returns the subset of f that survives a spill/fill cycle.
func (f EnqFlags) Persistent() EnqFlags { return f & persistentMask }

// Transient returns the subset of f a spiller discards on eviction.
func (f EnqFlags) Transient() EnqFlags { return f & transientMask }

// Has reports whether all bits of want are set in f.
func (f EnqFlags) Has(want EnqFlags) bool { return f&want == want }

// Any reports whether f shares any bit with want.
func (f EnqFlags) Any(want EnqFlags) bool { return f&want != 0 }

// OmitsTimestamp reports whether the enqueue call frame may omit ts: any of
// NOTIMESTAMP, SAMETIME, RUNONABORT.
func (f EnqFlags) OmitsTimestamp() bool {
	return f.Any(NOTIMESTAMP | SAMETIME | RUNONABORT)
}

// OmitsTaskPtr reports whether the call frame may omit the function pointer.
func (f EnqFlags) OmitsTaskPtr() bool { return f.Has(SAMETASK) }

// OmitsHint reports whether the call frame may omit the hint.
func (f EnqFlags) OmitsHint() bool { return f.Any(NOHINT | SAMEHINT) }
