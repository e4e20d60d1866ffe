package sim

import "github.com/inference-sim/sched-sim/sim/trace"

// ResponseRatio computes (remaining + waiting) / remaining, where waiting is the time
// since activation.
func ResponseRatio(pcb *PCB, clock int64) float64 {
	waiting := clock - pcb.Process.ActivationTime
	return float64(pcb.Remaining+waiting) / float64(pcb.Remaining)
}

// ratioPolicy is Highest Response Ratio Next. Ties go to the first process found
// in insertion order.
type ratioPolicy struct {
	binding
	queue Queue
}

func (r *ratioPolicy) Kind() PolicyKind { return PolicyHRRN }

func (r *ratioPolicy) Insert(id ProcessID) { r.queue.Enqueue(id) }

func (r *ratioPolicy) Extract() (ProcessID, bool) {
	if r.queue.Len() == 0 {
		return 0, false
	}
	clock := r.d.Clock()
	best, bestRatio := 0, 0.0
	for i, id := range r.queue.queue {
		ratio := ResponseRatio(r.d.PCB(id), clock)
		if i == 0 || ratio > bestRatio {
			best, bestRatio = i, ratio
		}
	}
	return r.queue.RemoveAt(best), true
}

func (r *ratioPolicy) Len() int { return r.queue.Len() }

func (r *ratioPolicy) Execute(budget int64) trace.State {
	r.running()
	return r.d.Advance(budget)
}

func (r *ratioPolicy) ReadyQueue() []ReadySegment {
	return []ReadySegment{{Queue: 0, Processes: r.queue.Items()}}
}

// shortestPolicy is Shortest Job First: the process with the least remaining time
// runs next, first found on ties. The preemptive variant (Shortest Remaining Time
// First) evicts the running process when a newcomer needs strictly less time.
type shortestPolicy struct {
	binding
	preemptive bool
	queue      Queue
}

func (s *shortestPolicy) Kind() PolicyKind {
	if s.preemptive {
		return PolicySRTF
	}
	return PolicySJF
}

func (s *shortestPolicy) Insert(id ProcessID) {
	if s.preemptive {
		if cur, ok := s.d.Running(); ok && s.d.PCB(id).Remaining < s.d.PCB(cur).Remaining {
			s.d.Preempt()
			s.queue.PrependFront(cur)
		}
	}
	s.queue.Enqueue(id)
}

func (s *shortestPolicy) Extract() (ProcessID, bool) {
	if s.queue.Len() == 0 {
		return 0, false
	}
	best, bestRemaining := 0, int64(0)
	for i, id := range s.queue.queue {
		remaining := s.d.PCB(id).Remaining
		if i == 0 || remaining < bestRemaining {
			best, bestRemaining = i, remaining
		}
	}
	return s.queue.RemoveAt(best), true
}

func (s *shortestPolicy) Len() int { return s.queue.Len() }

func (s *shortestPolicy) Execute(budget int64) trace.State {
	s.running()
	return s.d.Advance(budget)
}

func (s *shortestPolicy) ReadyQueue() []ReadySegment {
	return []ReadySegment{{Queue: 0, Processes: s.queue.Items()}}
}
