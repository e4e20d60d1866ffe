package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/sched-sim/sim/trace"
)

// feedbackPolicy is the multilevel feedback family. Levels are FIFO queues grown on
// demand up to maxLevels; the lowest-indexed non-empty level runs first. A process
// that exhausts its quantum unfinished is demoted one level, and stays on the last
// level once it gets there. A process's level is forgotten when it terminates.
//
// With dynamic set, the quantum at level i is base*2^i. With preemptive set, a newcomer
// on a shallower level than the running process evicts it.
type feedbackPolicy struct {
	binding
	kind       PolicyKind
	base       int64
	maxLevels  int
	dynamic    bool
	preemptive bool

	levels  []*Queue
	level   map[ProcessID]int
	quantum int64 // quantum of the last extracted process
	tracker quantumTracker
}

func newFeedbackPolicy(kind PolicyKind, base int64, maxLevels int, dynamic, preemptive bool) *feedbackPolicy {
	return &feedbackPolicy{
		kind:       kind,
		base:       base,
		maxLevels:  maxLevels,
		dynamic:    dynamic,
		preemptive: preemptive,
		level:      make(map[ProcessID]int),
		quantum:    base,
	}
}

func (f *feedbackPolicy) Kind() PolicyKind { return f.kind }

// queueAt returns level i, growing the level vector as needed.
func (f *feedbackPolicy) queueAt(i int) *Queue {
	for len(f.levels) <= i {
		f.levels = append(f.levels, &Queue{})
	}
	return f.levels[i]
}

// quantumFor returns the quantum granted at level i.
func (f *feedbackPolicy) quantumFor(i int) int64 {
	if f.dynamic {
		return f.base << uint(i)
	}
	return f.base
}

// Level returns the feedback level a process has reached.
func (f *feedbackPolicy) Level(id ProcessID) int {
	return f.level[id]
}

func (f *feedbackPolicy) Insert(id ProcessID) {
	lvl := f.level[id]
	if f.preemptive {
		if cur, ok := f.d.Running(); ok && f.level[cur] > lvl {
			f.d.Preempt()
			logrus.Debugf("[tick %07d] process %d (level %d) preempts process %d (level %d)",
				f.d.Clock(), id, lvl, cur, f.level[cur])
			f.queueAt(f.level[cur]).PrependFront(cur)
			f.queueAt(lvl).PrependFront(id)
			return
		}
	}
	f.queueAt(lvl).Enqueue(id)
}

func (f *feedbackPolicy) Extract() (ProcessID, bool) {
	for i, q := range f.levels {
		if id, ok := q.Dequeue(); ok {
			f.quantum = f.quantumFor(i)
			return id, true
		}
	}
	return 0, false
}

func (f *feedbackPolicy) Len() int {
	n := 0
	for _, q := range f.levels {
		n += q.Len()
	}
	return n
}

func (f *feedbackPolicy) Execute(budget int64) trace.State {
	id := f.running()
	n := f.tracker.slice(id, f.quantum, budget)
	st := f.d.Advance(n)
	// A process already evicted by an insert is not demoted.
	if f.tracker.consume(n, f.quantum) && f.d.PCB(id).Remaining > 0 && f.stillRunning(id) {
		f.d.Preempt()
		next := min(f.level[id]+1, f.maxLevels-1)
		f.level[id] = next
		f.queueAt(next).Enqueue(id)
		logrus.Debugf("[tick %07d] process %d demoted to level %d", f.d.Clock(), id, next)
	}
	return st
}

func (f *feedbackPolicy) ReadyQueue() []ReadySegment {
	out := make([]ReadySegment, len(f.levels))
	for i, q := range f.levels {
		out[i] = ReadySegment{Queue: i, Processes: q.Items()}
	}
	return out
}

func (f *feedbackPolicy) Forget(id ProcessID) {
	delete(f.level, id)
}
