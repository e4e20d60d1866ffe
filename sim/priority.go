package sim

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/sched-sim/sim/trace"
)

// priorityLevels keeps one FIFO queue per priority level.
// Higher levels are extracted first.
type priorityLevels struct {
	levels map[int]*Queue
}

func newPriorityLevels() priorityLevels {
	return priorityLevels{levels: make(map[int]*Queue)}
}

func (p *priorityLevels) at(level int) *Queue {
	q, ok := p.levels[level]
	if !ok {
		q = &Queue{}
		p.levels[level] = q
	}
	return q
}

// descending returns the levels from most to least urgent.
func (p *priorityLevels) descending() []int {
	keys := make([]int, 0, len(p.levels))
	for k := range p.levels {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))
	return keys
}

func (p *priorityLevels) extract() (ProcessID, bool) {
	for _, level := range p.descending() {
		if id, ok := p.levels[level].Dequeue(); ok {
			return id, true
		}
	}
	return 0, false
}

func (p *priorityLevels) len() int {
	n := 0
	for _, q := range p.levels {
		n += q.Len()
	}
	return n
}

// segments lists non-empty levels in extraction order.
func (p *priorityLevels) segments() []ReadySegment {
	var out []ReadySegment
	for _, level := range p.descending() {
		if q := p.levels[level]; q.Len() > 0 {
			out = append(out, ReadySegment{Queue: level, Processes: q.Items()})
		}
	}
	return out
}

// outranksRunning reports whether id is strictly more urgent than the running process.
func outranksRunning(d Dispatcher, id ProcessID) (ProcessID, bool) {
	cur, ok := d.Running()
	if !ok {
		return 0, false
	}
	return cur, d.PCB(cur).ActivePriority < d.PCB(id).ActivePriority
}

// priorityPolicy is Highest Priority First: one FIFO per priority level, the most
// urgent non-empty level runs first. The preemptive variant evicts the running
// process when a strictly more urgent one becomes ready.
type priorityPolicy struct {
	binding
	kind       PolicyKind
	preemptive bool
	levels     priorityLevels
}

func newPriorityPolicy(kind PolicyKind, preemptive bool) *priorityPolicy {
	return &priorityPolicy{kind: kind, preemptive: preemptive, levels: newPriorityLevels()}
}

func (p *priorityPolicy) Kind() PolicyKind { return p.kind }

func (p *priorityPolicy) Insert(id ProcessID) {
	if p.preemptive {
		if cur, evict := outranksRunning(p.d, id); evict {
			p.d.Preempt()
			logrus.Debugf("[tick %07d] process %d preempts process %d", p.d.Clock(), id, cur)
			p.levels.at(p.d.PCB(cur).ActivePriority).PrependFront(cur)
		}
	}
	p.levels.at(p.d.PCB(id).ActivePriority).Enqueue(id)
}

func (p *priorityPolicy) Extract() (ProcessID, bool) { return p.levels.extract() }

func (p *priorityPolicy) Len() int { return p.levels.len() }

func (p *priorityPolicy) Execute(budget int64) trace.State {
	p.running()
	return p.d.Advance(budget)
}

func (p *priorityPolicy) ReadyQueue() []ReadySegment { return p.levels.segments() }

// priorityRoundRobinPolicy runs round robin inside each priority level, most urgent
// level first. The preemptive variant evicts the running process to the front of its
// own level and puts the newcomer at the front of its level.
type priorityRoundRobinPolicy struct {
	binding
	kind       PolicyKind
	preemptive bool
	quantum    int64
	levels     priorityLevels
	tracker    quantumTracker
}

func newPriorityRoundRobinPolicy(kind PolicyKind, quantum int64, preemptive bool) *priorityRoundRobinPolicy {
	return &priorityRoundRobinPolicy{kind: kind, quantum: quantum, preemptive: preemptive, levels: newPriorityLevels()}
}

func (p *priorityRoundRobinPolicy) Kind() PolicyKind { return p.kind }

func (p *priorityRoundRobinPolicy) Insert(id ProcessID) {
	if p.preemptive {
		if cur, evict := outranksRunning(p.d, id); evict {
			p.d.Preempt()
			logrus.Debugf("[tick %07d] process %d preempts process %d", p.d.Clock(), id, cur)
			p.levels.at(p.d.PCB(cur).ActivePriority).PrependFront(cur)
			p.levels.at(p.d.PCB(id).ActivePriority).PrependFront(id)
			return
		}
	}
	p.levels.at(p.d.PCB(id).ActivePriority).Enqueue(id)
}

func (p *priorityRoundRobinPolicy) Extract() (ProcessID, bool) { return p.levels.extract() }

func (p *priorityRoundRobinPolicy) Len() int { return p.levels.len() }

func (p *priorityRoundRobinPolicy) Execute(budget int64) trace.State {
	id := p.running()
	n := p.tracker.slice(id, p.quantum, budget)
	st := p.d.Advance(n)
	if p.tracker.consume(n, p.quantum) && p.d.PCB(id).Remaining > 0 && p.stillRunning(id) {
		p.d.Preempt()
		p.levels.at(p.d.PCB(id).ActivePriority).Enqueue(id)
	}
	return st
}

func (p *priorityRoundRobinPolicy) ReadyQueue() []ReadySegment { return p.levels.segments() }
