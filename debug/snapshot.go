package debug

import (
	"os"
	"strconv"

	"github.com/sugawarayuuta/sonnet"
)

// DropStat logs a named counter, the numeric-diagnostic sibling of
// DropMessage: spill counts, queue depth, worker idle cycles.
func DropStat(prefix string, n int64) {
	os.Stderr.WriteString(prefix + ": " + strconv.FormatInt(n, 10) + "\n")
}

// DropJSON encodes v with sonnet and writes it to stderr as a single line,
// used for scheduler/backend snapshots (queue depth, per-domain
// super-timestamp, per-worker minTs) in a structured, greppable form.
func DropJSON(prefix string, v any) {
	b, err := sonnet.Marshal(v)
	if err != nil {
		DropError(prefix, err)
		return
	}
	os.Stderr.WriteString(prefix + ": ")
	os.Stderr.Write(b)
	os.Stderr.WriteString("\n")
}
