// Defines the static entity model: processes, their access windows, and resources.
// These are built once through a Configuration and never mutated by a run.

package sim

import (
	"errors"
	"fmt"
)

// ProcessID identifies a process within a Configuration.
type ProcessID int

// ResourceID identifies a resource within a Configuration (its insertion index).
type ResourceID int

// Priority bounds accepted by the scenario layer. Larger numbers are more urgent.
const (
	MinPriority = 0
	MaxPriority = 100
)

var (
	// ErrInvalidAccess rejects an access window with a non-positive duration, a negative
	// request time, or one that does not fit inside the process's execution time.
	ErrInvalidAccess = errors.New("invalid access window")
	// ErrAccessOverlap rejects an access window that overlaps or touches another window
	// on the same resource.
	ErrAccessOverlap = errors.New("access window overlaps another access to the same resource")
	// ErrReleaseCollision rejects an access window whose release instant coincides with the
	// release or the request of another window of the same process.
	ErrReleaseCollision = errors.New("access window release collides with another access")
)

// AccessWindow is a timed request of a process for a resource. RequestTime is an
// offset into the process's execution and Duration is how long the resource is held,
// both measured in the process's own executed time.
type AccessWindow struct {
	Resource    ResourceID
	RequestTime int64
	Duration    int64
}

// ReleaseTime returns the execution offset at which the resource is released.
func (w AccessWindow) ReleaseTime() int64 {
	return w.RequestTime + w.Duration
}

// overlaps reports whether two windows share any instant, boundaries included.
func (w AccessWindow) overlaps(o AccessWindow) bool {
	return w.RequestTime <= o.ReleaseTime() && o.RequestTime <= w.ReleaseTime()
}

// collides reports whether either window releases at an instant the other one
// requests or releases.
func (w AccessWindow) collides(o AccessWindow) bool {
	return w.ReleaseTime() == o.ReleaseTime() ||
		w.ReleaseTime() == o.RequestTime ||
		o.ReleaseTime() == w.RequestTime
}

// Process is the static description of a process.
type Process struct {
	ID             ProcessID
	Name           string
	ActivationTime int64
	ExecutionTime  int64
	Priority       int

	accesses []AccessWindow // ordered by RequestTime, insertion order on ties
}

// Accesses returns a copy of the process's access windows in request order.
func (p *Process) Accesses() []AccessWindow {
	out := make([]AccessWindow, len(p.accesses))
	copy(out, p.accesses)
	return out
}

// AddAccess inserts an access window, keeping the list ordered by request time.
// The window is rejected, leaving the process unchanged, when it is malformed,
// overlaps or touches another window on the same resource, or when its release
// collides with the release or request of any other window.
func (p *Process) AddAccess(w AccessWindow) error {
	if w.Duration <= 0 || w.RequestTime < 0 || w.ReleaseTime() > p.ExecutionTime {
		return fmt.Errorf("process %q: request %d for %d within execution %d: %w",
			p.Name, w.RequestTime, w.Duration, p.ExecutionTime, ErrInvalidAccess)
	}
	for _, o := range p.accesses {
		if o.Resource == w.Resource && w.overlaps(o) {
			return fmt.Errorf("process %q: [%d,%d] against [%d,%d]: %w",
				p.Name, w.RequestTime, w.ReleaseTime(), o.RequestTime, o.ReleaseTime(), ErrAccessOverlap)
		}
	}
	for _, o := range p.accesses {
		if w.collides(o) {
			return fmt.Errorf("process %q: [%d,%d] against [%d,%d]: %w",
				p.Name, w.RequestTime, w.ReleaseTime(), o.RequestTime, o.ReleaseTime(), ErrReleaseCollision)
		}
	}
	at := len(p.accesses)
	for i, o := range p.accesses {
		if w.RequestTime < o.RequestTime {
			at = i
			break
		}
	}
	p.accesses = append(p.accesses, AccessWindow{})
	copy(p.accesses[at+1:], p.accesses[at:])
	p.accesses[at] = w
	return nil
}

// RemoveAccess deletes the i-th access window (request order).
func (p *Process) RemoveAccess(i int) error {
	if i < 0 || i >= len(p.accesses) {
		return fmt.Errorf("process %q: no access window %d", p.Name, i)
	}
	p.accesses = append(p.accesses[:i], p.accesses[i+1:]...)
	return nil
}

func (p Process) String() string {
	return fmt.Sprintf("Process: (ID: %d, Name: %s, Activation: %d, Execution: %d, Priority: %d)",
		p.ID, p.Name, p.ActivationTime, p.ExecutionTime, p.Priority)
}

// Resource is the static description of a shared resource.
// Preemptive resources have no ceiling priority and can be taken away from a holder;
// non-preemptive resources queue new requesters through an assignment policy once saturated.
type Resource struct {
	ID           ResourceID
	Name         string
	Multiplicity int
	Preemptive   bool
	Ceiling      int // ceiling priority; meaningful only when Preemptive is false
}

// CeilingPriority returns the ceiling priority and whether the resource has one.
func (r *Resource) CeilingPriority() (int, bool) {
	if r.Preemptive {
		return 0, false
	}
	return r.Ceiling, true
}
