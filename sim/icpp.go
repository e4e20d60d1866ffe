package sim

import "github.com/sirupsen/logrus"

// stepFlags are protocol observations that belong to the step being built.
type stepFlags struct {
	ceilingViolation  bool
	priorityInversion bool
}

// accessProtocol reacts to grants and releases of non-preemptive resources.
type accessProtocol interface {
	granted(pcb *PCB, res *Resource, flags *stepFlags)
	released(pcb *PCB, res *Resource)
}

// plainProtocol leaves priorities alone.
type plainProtocol struct{}

func (plainProtocol) granted(*PCB, *Resource, *stepFlags) {}

func (plainProtocol) released(*PCB, *Resource) {}

// ceilingProtocol is the Immediate Ceiling Priority Protocol.
//
// On a grant, a process whose active priority does not exceed the resource's ceiling
// is raised to the ceiling and the step is flagged as a priority inversion. A process
// already above the ceiling flags a ceiling violation; the grant stands either way,
// so the protocol monitors compliance without enforcing it.
//
// On a release, the active priority is restored to the maximum of the initial priority
// and the ceilings of the non-preemptive resources still held.
type ceilingProtocol struct {
	alloc *Allocator
}

func (c ceilingProtocol) granted(pcb *PCB, res *Resource, flags *stepFlags) {
	ceiling, ok := res.CeilingPriority()
	if !ok {
		return
	}
	if pcb.ActivePriority <= ceiling {
		flags.priorityInversion = true
		pcb.ActivePriority = ceiling
		return
	}
	flags.ceilingViolation = true
	logrus.Debugf("process %d (priority %d) exceeds ceiling %d of %q",
		pcb.ID(), pcb.ActivePriority, ceiling, res.Name)
}

func (c ceilingProtocol) released(pcb *PCB, res *Resource) {
	if res.Preemptive {
		return
	}
	pcb.ActivePriority = restoredPriority(pcb, c.alloc)
}

// restoredPriority is max(initial priority, ceilings of the non-preemptive resources held).
func restoredPriority(pcb *PCB, alloc *Allocator) int {
	p := pcb.Process.Priority
	for _, u := range pcb.held {
		if ceiling, ok := alloc.Resource(u.Resource).CeilingPriority(); ok && ceiling > p {
			p = ceiling
		}
	}
	return p
}
