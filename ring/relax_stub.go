//go:build !amd64 || noasm

package ring

// cpuRelax is a no-op on architectures without a dedicated PAUSE-style
// instruction, so Ring's busy-wait loops still compile and run, just
// without the power/latency benefit of backing off in hardware.
func cpuRelax() {}
