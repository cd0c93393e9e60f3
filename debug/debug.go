// Package debug provides the runtime's cold-path diagnostics: zero-alloc
// message/error logging plus structured JSON snapshots. Nothing in this
// package may be called from a worker's hot dequeue loop.
package debug

import "os"

// DropError logs prefix and err's message with a single concatenated write
// to stderr, avoiding fmt's allocation-heavy formatting machinery.
func DropError(prefix string, err error) {
	if err != nil {
		os.Stderr.WriteString(prefix + ": " + err.Error() + "\n")
		return
	}
	os.Stderr.WriteString(prefix + "\n")
}

// DropMessage logs a cold-path diagnostic: domain transitions, spill
// counts, backend state changes.
func DropMessage(prefix, message string) {
	os.Stderr.WriteString(prefix + ": " + message + "\n")
}

// Fatalf logs msg and panics. Used for the programmer-contract violations
// the spec calls out as fatal: undeepen on an empty domain stack,
// PARENTDOMAIN at the root domain, and similar.
func Fatalf(prefix, msg string) {
	os.Stderr.WriteString(prefix + ": fatal: " + msg + "\n")
	panic(prefix + ": " + msg)
}
