package task

import "github.com/SwarmArch/runtime/ts"

// Enqueue1..Enqueue5 replace the template/SFINAE argument marshalling of the
// original system with Go generics: each builds a Task whose Run closure
// owns its typed arguments directly, rather than packing them into an
// untyped call frame. The scheduler never sees A..E; it only ever calls
// Task.Run.

func Enqueue1[A any](t ts.Timestamp, h ts.Hint, flags ts.EnqFlags, fn func(A), a A) *Task {
	return &Task{Ts: t, Hint: h, Flags: flags, Run: func() { fn(a) }}
}

func Enqueue2[A, B any](t ts.Timestamp, h ts.Hint, flags ts.EnqFlags, fn func(A, B), a A, b B) *Task {
	return &Task{Ts: t, Hint: h, Flags: flags, Run: func() { fn(a, b) }}
}

func Enqueue3[A, B, C any](t ts.Timestamp, h ts.Hint, flags ts.EnqFlags, fn func(A, B, C), a A, b B, c C) *Task {
	return &Task{Ts: t, Hint: h, Flags: flags, Run: func() { fn(a, b, c) }}
}

func Enqueue4[A, B, C, D any](t ts.Timestamp, h ts.Hint, flags ts.EnqFlags, fn func(A, B, C, D), a A, b B, c C, d D) *Task {
	return &Task{Ts: t, Hint: h, Flags: flags, Run: func() { fn(a, b, c, d) }}
}

func Enqueue5[A, B, C, D, E any](t ts.Timestamp, h ts.Hint, flags ts.EnqFlags, fn func(A, B, C, D, E), a A, b B, c C, d D, e E) *Task {
	return &Task{Ts: t, Hint: h, Flags: flags, Run: func() { fn(a, b, c, d, e) }}
}
