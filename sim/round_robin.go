package sim

import "github.com/inference-sim/sched-sim/sim/trace"

// roundRobinPolicy runs processes in FIFO order for at most one quantum each.
// A process that exhausts its quantum unfinished goes to the tail of the queue.
type roundRobinPolicy struct {
	binding
	quantum int64
	queue   Queue
	tracker quantumTracker
}

func (r *roundRobinPolicy) Kind() PolicyKind { return PolicyRoundRobin }

func (r *roundRobinPolicy) Insert(id ProcessID) { r.queue.Enqueue(id) }

func (r *roundRobinPolicy) Extract() (ProcessID, bool) { return r.queue.Dequeue() }

func (r *roundRobinPolicy) Len() int { return r.queue.Len() }

func (r *roundRobinPolicy) Execute(budget int64) trace.State {
	id := r.running()
	n := r.tracker.slice(id, r.quantum, budget)
	st := r.d.Advance(n)
	// Remaining is read after Advance: the dispatcher has just charged the slice.
	if r.tracker.consume(n, r.quantum) && r.d.PCB(id).Remaining > 0 && r.stillRunning(id) {
		r.d.Preempt()
		r.queue.Enqueue(id)
	}
	return st
}

func (r *roundRobinPolicy) ReadyQueue() []ReadySegment {
	return []ReadySegment{{Queue: 0, Processes: r.queue.Items()}}
}
