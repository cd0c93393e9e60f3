//go:build amd64 && !noasm

package ring

// cpuRelax emits a PAUSE instruction (in relax_amd64.s) so the ring's
// busy-wait loops — Ring.PopWait and PinnedConsumer's cold-spin path —
// back off politely without leaving userspace.
//
//go:noescape
func cpuRelax()
