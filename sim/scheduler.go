package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/sched-sim/sim/trace"
)

// Dispatcher is the side of the control loop a scheduling policy talks to.
// Advance is the only way simulated time moves while a process is running.
type Dispatcher interface {
	// Clock returns the current simulated time.
	Clock() int64
	// PCB returns the live control block of a process. Panics on unknown ids.
	PCB(id ProcessID) *PCB
	// Running returns the process currently holding the CPU.
	Running() (ProcessID, bool)
	// Advance runs the current process (or idles) for d ticks and returns the
	// snapshot describing that step.
	Advance(d int64) trace.State
	// Preempt takes the CPU away from the running process. The caller re-queues it.
	Preempt() (ProcessID, bool)
}

// ReadySegment is one ready queue in extraction order, labelled with its queue index.
type ReadySegment struct {
	Queue     int
	Processes []ProcessID
}

// SchedulingPolicy selects which ready process runs next and for how long.
type SchedulingPolicy interface {
	// Kind returns the variant tag of the policy.
	Kind() PolicyKind
	// Bind attaches the policy to the control loop. Called once before a run.
	Bind(d Dispatcher)
	// Insert makes a process ready. Preemptive variants may evict the running process.
	Insert(id ProcessID)
	// Extract removes the process that should run next.
	Extract() (ProcessID, bool)
	// Len returns the number of ready processes.
	Len() int
	// Execute runs the current process for at most budget ticks, then applies the
	// policy's quantum, demotion and re-queue rules.
	Execute(budget int64) trace.State
	// ReadyQueue returns the ready processes grouped by queue, for display.
	ReadyQueue() []ReadySegment
	// Forget drops any per-process bookkeeping of a terminated process.
	Forget(id ProcessID)
}

// PolicyKind is the closed set of scheduling policy variants.
type PolicyKind int

const (
	PolicyFIFO PolicyKind = iota
	PolicyHPF
	PolicyPreemptiveHPF
	PolicyHRRN
	PolicyRoundRobin
	PolicyPriorityRoundRobin
	PolicyPreemptivePriorityRoundRobin
	PolicyMultilevelFeedback
	PolicyMultilevelFeedbackDynamicQuantum
	PolicyPreemptiveMultilevelFeedback
	PolicyPreemptiveMultilevelFeedbackDynamicQuantum
	PolicySJF
	PolicySRTF
)

// String returns the configuration name of the policy kind.
func (k PolicyKind) String() string {
	if k < 0 || int(k) >= len(SchedulingPolicyNames) {
		return "unknown"
	}
	return SchedulingPolicyNames[k]
}

// TimeSharing reports whether the policy uses the time slice.
func (k PolicyKind) TimeSharing() bool {
	switch k {
	case PolicyRoundRobin, PolicyPriorityRoundRobin, PolicyPreemptivePriorityRoundRobin,
		PolicyMultilevelFeedback, PolicyMultilevelFeedbackDynamicQuantum,
		PolicyPreemptiveMultilevelFeedback, PolicyPreemptiveMultilevelFeedbackDynamicQuantum:
		return true
	}
	return false
}

// ParsePolicyKind maps a configuration name to its policy kind.
func ParsePolicyKind(name string) (PolicyKind, bool) {
	for i, n := range SchedulingPolicyNames {
		if n == name {
			return PolicyKind(i), true
		}
	}
	return PolicyFIFO, false
}

// NewSchedulingPolicy creates a SchedulingPolicy by name.
// Valid names are listed in SchedulingPolicyNames (bundle.go).
// Unrecognized names fall back to First In First Out with a warning; configurations
// that went through scenario validation never reach that path.
func NewSchedulingPolicy(name string, timeSlice int64, feedbackLevels int) SchedulingPolicy {
	kind, ok := ParsePolicyKind(name)
	if !ok {
		logrus.Warnf("unknown scheduling policy %q, falling back to %q", name, PolicyNameFIFO)
	}
	if timeSlice <= 0 {
		timeSlice = DefaultTimeSlice
	}
	if feedbackLevels < 1 {
		feedbackLevels = DefaultFeedbackLevels
	}
	switch kind {
	case PolicyFIFO:
		return &fifoPolicy{}
	case PolicyHPF:
		return newPriorityPolicy(kind, false)
	case PolicyPreemptiveHPF:
		return newPriorityPolicy(kind, true)
	case PolicyHRRN:
		return &ratioPolicy{}
	case PolicyRoundRobin:
		return &roundRobinPolicy{quantum: timeSlice}
	case PolicyPriorityRoundRobin:
		return newPriorityRoundRobinPolicy(kind, timeSlice, false)
	case PolicyPreemptivePriorityRoundRobin:
		return newPriorityRoundRobinPolicy(kind, timeSlice, true)
	case PolicyMultilevelFeedback:
		return newFeedbackPolicy(kind, timeSlice, feedbackLevels, false, false)
	case PolicyMultilevelFeedbackDynamicQuantum:
		return newFeedbackPolicy(kind, timeSlice, feedbackLevels, true, false)
	case PolicyPreemptiveMultilevelFeedback:
		return newFeedbackPolicy(kind, timeSlice, feedbackLevels, false, true)
	case PolicyPreemptiveMultilevelFeedbackDynamicQuantum:
		return newFeedbackPolicy(kind, timeSlice, feedbackLevels, true, true)
	case PolicySJF:
		return &shortestPolicy{}
	case PolicySRTF:
		return &shortestPolicy{preemptive: true}
	default:
		panic("unhandled scheduling policy kind " + kind.String())
	}
}

// binding is embedded by every policy to hold its dispatcher.
type binding struct {
	d Dispatcher
}

func (b *binding) Bind(d Dispatcher) {
	b.d = d
}

// running returns the running process, panicking if Execute was called on an idle CPU.
func (b *binding) running() ProcessID {
	id, ok := b.d.Running()
	if !ok {
		panic("Execute called with no running process")
	}
	return id
}

// stillRunning reports whether id still holds the CPU.
func (b *binding) stillRunning(id ProcessID) bool {
	cur, ok := b.d.Running()
	return ok && cur == id
}

func (b *binding) Forget(ProcessID) {}

// quantumTracker counts how many contiguous ticks the last process has run.
// The count restarts whenever a different process is running.
type quantumTracker struct {
	lastRun ProcessID
	hasLast bool
	ticks   int64
}

// slice returns how long id may run now, given its quantum and the time budget.
func (q *quantumTracker) slice(id ProcessID, quantum, budget int64) int64 {
	if !q.hasLast || q.lastRun != id {
		q.lastRun = id
		q.hasLast = true
		q.ticks = 0
	}
	return min(quantum-q.ticks, budget)
}

// consume accounts d ticks and reports whether the quantum is now exhausted,
// restarting the count when it is.
func (q *quantumTracker) consume(d, quantum int64) bool {
	q.ticks += d
	if q.ticks >= quantum {
		q.ticks = 0
		return true
	}
	return false
}

// fifoPolicy runs processes to completion in arrival order.
type fifoPolicy struct {
	binding
	queue Queue
}

func (f *fifoPolicy) Kind() PolicyKind { return PolicyFIFO }

func (f *fifoPolicy) Insert(id ProcessID) { f.queue.Enqueue(id) }

func (f *fifoPolicy) Extract() (ProcessID, bool) { return f.queue.Dequeue() }

func (f *fifoPolicy) Len() int { return f.queue.Len() }

func (f *fifoPolicy) Execute(budget int64) trace.State {
	f.running()
	return f.d.Advance(budget)
}

func (f *fifoPolicy) ReadyQueue() []ReadySegment {
	return []ReadySegment{{Queue: 0, Processes: f.queue.Items()}}
}
