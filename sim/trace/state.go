package trace

// ProcessRef names a process inside a snapshot.
type ProcessRef struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// HeldResource is one resource use of a live process and the hold time it still needs.
type HeldResource struct {
	Resource  string `json:"resource" yaml:"resource"`
	Remaining int64  `json:"remaining" yaml:"remaining"`
}

// ProcessView is the visible part of a process control block at the start of a step.
type ProcessView struct {
	ProcessRef     `yaml:",inline"`
	Executed       int64          `json:"executed" yaml:"executed"`
	Remaining      int64          `json:"remaining" yaml:"remaining"`
	ActivePriority int            `json:"active_priority" yaml:"active_priority"`
	Held           []HeldResource `json:"held,omitempty" yaml:"held,omitempty"`
}

// ReadySegment is one ready queue of the scheduling policy, in extraction order.
// Queue is the priority level for priority-ordered policies, the feedback level for
// multilevel feedback policies and 0 for single-queue policies.
type ReadySegment struct {
	Queue     int          `json:"queue" yaml:"queue"`
	Processes []ProcessRef `json:"processes" yaml:"processes"`
}

// BlockedRequest is a process waiting on a saturated non-preemptive resource,
// with the priority it had when it blocked.
type BlockedRequest struct {
	Process  ProcessRef `json:"process" yaml:"process"`
	Priority int        `json:"priority" yaml:"priority"`
}

// BlockedQueue lists the requests waiting on one resource.
type BlockedQueue struct {
	Resource string           `json:"resource" yaml:"resource"`
	Requests []BlockedRequest `json:"requests" yaml:"requests"`
}

// ResourceHolders attributes a resource to the processes currently holding it.
type ResourceHolders struct {
	Resource     string       `json:"resource" yaml:"resource"`
	Preemptive   bool         `json:"preemptive" yaml:"preemptive"`
	Multiplicity int          `json:"multiplicity" yaml:"multiplicity"`
	Holders      []ProcessRef `json:"holders" yaml:"holders"`
}

// State is an immutable snapshot of the system over the interval [Time, Time+Duration).
// The final state of a run has Duration 0 and describes the system after the last step.
type State struct {
	Index             int               `json:"index" yaml:"index"`
	Time              int64             `json:"time" yaml:"time"`
	Duration          int64             `json:"duration" yaml:"duration"`
	Running           *ProcessRef       `json:"running,omitempty" yaml:"running,omitempty"`
	Ready             []ReadySegment    `json:"ready" yaml:"ready"`
	Blocked           []BlockedQueue    `json:"blocked,omitempty" yaml:"blocked,omitempty"`
	Resources         []ResourceHolders `json:"resources" yaml:"resources"`
	Processes         []ProcessView     `json:"processes" yaml:"processes"`
	Terminated        []ProcessRef      `json:"terminated" yaml:"terminated"`
	Deadlock          bool              `json:"deadlock" yaml:"deadlock"`
	CeilingViolation  bool              `json:"ceiling_violation" yaml:"ceiling_violation"`
	PriorityInversion bool              `json:"priority_inversion" yaml:"priority_inversion"`
}

// Idle reports whether no process ran during the step.
func (s *State) Idle() bool {
	return s.Running == nil
}

// ReadyCount returns the number of ready processes across all segments.
func (s *State) ReadyCount() int {
	n := 0
	for _, seg := range s.Ready {
		n += len(seg.Processes)
	}
	return n
}

// HoldersOf returns the holders of the named resource, or nil if the resource is unknown.
func (s *State) HoldersOf(resource string) []ProcessRef {
	for _, r := range s.Resources {
		if r.Resource == resource {
			return r.Holders
		}
	}
	return nil
}
