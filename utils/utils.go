// Package utils holds the handful of zero-allocation primitives shared
// across the runtime: a byte/string cast and a bit mixer, both cold-path
// adjacent but cheap enough to call from hot paths when needed.
package utils

import "unsafe"

// B2s converts a []byte to a string without allocation.
// Caller must ensure the input slice remains valid and unchanged for the
// lifetime of the returned string.
//
//go:nosplit
//go:inline
func B2s(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// Mix64 applies a Murmur3-style avalanche to a 64-bit value. Used by the
// hint resolver as a cheap alternative to a full cryptographic hash when
// spreading tightly-clustered keys across hint tiles.
//
//go:nosplit
//go:inline
func Mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}
