package ts

// Timestamp is the runtime's 64-bit virtual time. Smaller is earlier; the
// total order is the scheduler's sole sorting key.
type Timestamp uint64

// NoTimestamp is the sentinel meaning "no timestamp" / "not inside a task".
const NoTimestamp Timestamp = ^Timestamp(0)

// Less reports whether t sorts strictly before other.
func (t Timestamp) Less(other Timestamp) bool { return t < other }

// Valid reports whether t is a real timestamp, not the sentinel.
func (t Timestamp) Valid() bool { return t != NoTimestamp }
