package parallel

import (
	"github.com/SwarmArch/runtime/constants"
	"github.com/SwarmArch/runtime/sched"
	"github.com/SwarmArch/runtime/task"
	"github.com/SwarmArch/runtime/ts"
)

type progressiveJob struct {
	begin, last, stride int
	when                ts.Timestamp
	hint                ts.Hint
	flags               ts.EnqFlags
	fn                  func(int)
}

// EnqueueAllProgressive begins with one strand at begin=lo and the smallest
// stride, delivering the earliest items first with minimal latency. Each
// strand processes its fixed-size batch, then either spawns two concurrent
// successor strands at begin+stride and begin+2*stride with double the
// stride (progressively widening parallel breadth), or, once the stride
// caps out or the range is nearly exhausted, chains to a single successor
// at begin+stride with the stride unchanged.
func EnqueueAllProgressive(rt sched.Runtime, lo, hi int, when ts.Timestamp, hint ts.Hint, flags ts.EnqFlags, fn func(int)) {
	if lo >= hi {
		return
	}
	enqueueProgressiveStrand(rt, progressiveJob{
		begin: lo, last: hi, stride: constants.GrainSizes[0],
		when: when, hint: hint, flags: flags, fn: fn,
	})
}

func enqueueProgressiveStrand(rt sched.Runtime, job progressiveJob) {
	rt.Enqueue(task.Enqueue2(job.when, job.hint, job.flags, runProgressiveStrand, rt, job))
}

// progressiveBatchSize is how many items each strand instance processes
// itself; fixed, unlike the doubling stride between strands, so the
// fixed-size batches tile the range contiguously no matter how many
// strands are concurrently active.
var progressiveBatchSize = constants.GrainSizes[0]

func runProgressiveStrand(rt sched.Runtime, job progressiveJob) {
	end := job.begin + progressiveBatchSize
	if end > job.last {
		end = job.last
	}
	for i := job.begin; i < end; i++ {
		job.fn(i)
	}

	left := job.begin + job.stride
	right := job.begin + 2*job.stride
	if left >= job.last {
		return
	}
	maxStride := constants.GrainSizes[len(constants.GrainSizes)-1]
	if right < job.last && job.stride < maxStride {
		doubled := job.stride * 2
		enqueueProgressiveStrand(rt, progressiveJob{
			begin: left, last: job.last, stride: doubled,
			when: job.when, hint: job.hint, flags: job.flags, fn: job.fn,
		})
		enqueueProgressiveStrand(rt, progressiveJob{
			begin: right, last: job.last, stride: doubled,
			when: job.when, hint: job.hint, flags: job.flags, fn: job.fn,
		})
		return
	}
	enqueueProgressiveStrand(rt, progressiveJob{
		begin: left, last: job.last, stride: job.stride,
		when: job.when, hint: job.hint, flags: job.flags, fn: job.fn,
	})
}
