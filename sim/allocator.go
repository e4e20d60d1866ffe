package sim

import (
	"fmt"
	"slices"
)

// resourceState is the runtime side of one resource: who holds it and who waits for it.
type resourceState struct {
	res     *Resource
	holders []ProcessID // in acquisition order; the front holder is the oldest
	waiting AssignmentPolicy
}

// Allocation is the outcome of an allocation attempt.
type Allocation struct {
	Granted bool
	// Evicted is the holder a preemptive resource was taken from, when HasEvicted is set.
	Evicted    ProcessID
	HasEvicted bool
}

// Allocator applies the multiplicity-aware allocate/release/preempt rules shared by
// every scheduling policy.
type Allocator struct {
	resources []*resourceState
}

// NewAllocator creates an allocator over resources; newWaiting builds the assignment
// policy queue of each resource.
func NewAllocator(resources []*Resource, newWaiting func() AssignmentPolicy) *Allocator {
	a := &Allocator{resources: make([]*resourceState, len(resources))}
	for i, r := range resources {
		if r.ID != ResourceID(i) {
			panic(fmt.Sprintf("NewAllocator: resource %q has id %d at index %d", r.Name, r.ID, i))
		}
		a.resources[i] = &resourceState{res: r, waiting: newWaiting()}
	}
	return a
}

func (a *Allocator) state(id ResourceID) *resourceState {
	if id < 0 || int(id) >= len(a.resources) {
		panic(fmt.Sprintf("allocator: unknown resource %d", id))
	}
	return a.resources[id]
}

// Resource returns the static description of a resource.
func (a *Allocator) Resource(id ResourceID) *Resource {
	return a.state(id).res
}

// Len returns the number of resources.
func (a *Allocator) Len() int {
	return len(a.resources)
}

// Allocate tries to give resource id to process pid.
// A resource below its multiplicity is granted. A saturated preemptive resource is
// taken from its front holder and granted. A saturated non-preemptive resource is refused;
// the caller then queues a Request with Enqueue.
func (a *Allocator) Allocate(id ResourceID, pid ProcessID) Allocation {
	rs := a.state(id)
	if slices.Contains(rs.holders, pid) {
		panic(fmt.Sprintf("Allocate: process %d already holds resource %q", pid, rs.res.Name))
	}
	if len(rs.holders) < rs.res.Multiplicity {
		rs.holders = append(rs.holders, pid)
		return Allocation{Granted: true}
	}
	if !rs.res.Preemptive {
		return Allocation{}
	}
	evicted := rs.holders[0]
	rs.holders = append(rs.holders[1:], pid)
	return Allocation{Granted: true, Evicted: evicted, HasEvicted: true}
}

// Holds reports whether pid is currently attributed resource id.
func (a *Allocator) Holds(id ResourceID, pid ProcessID) bool {
	return slices.Contains(a.state(id).holders, pid)
}

// Enqueue blocks a request on a non-preemptive resource.
func (a *Allocator) Enqueue(id ResourceID, r Request) {
	rs := a.state(id)
	if rs.res.Preemptive {
		panic(fmt.Sprintf("Enqueue: resource %q is preemptive", rs.res.Name))
	}
	rs.waiting.Insert(r)
}

// Release takes resource id back from pid. For a non-preemptive resource the next
// blocked request, if any, is extracted and returned so the caller can make that
// process ready again. Releasing a preemptive resource that was already taken away
// from pid is a no-op.
func (a *Allocator) Release(id ResourceID, pid ProcessID) (Request, bool) {
	rs := a.state(id)
	i := slices.Index(rs.holders, pid)
	if i < 0 {
		if rs.res.Preemptive {
			return Request{}, false
		}
		panic(fmt.Sprintf("Release: process %d does not hold resource %q", pid, rs.res.Name))
	}
	rs.holders = slices.Delete(rs.holders, i, i+1)
	if rs.res.Preemptive {
		return Request{}, false
	}
	return rs.waiting.Extract()
}

// Holders returns the processes holding resource id, oldest first.
func (a *Allocator) Holders(id ResourceID) []ProcessID {
	return slices.Clone(a.state(id).holders)
}

// Waiting returns the requests blocked on resource id, in arrival order.
func (a *Allocator) Waiting(id ResourceID) []Request {
	return a.state(id).waiting.Pending()
}
