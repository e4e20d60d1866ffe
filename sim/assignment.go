package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"
)

// AssignmentPolicy orders the processes blocked on a saturated non-preemptive resource.
type AssignmentPolicy interface {
	Insert(r Request)
	// Extract removes the request that gets the next free slot.
	Extract() (Request, bool)
	Len() int
	// Pending returns the queued requests in arrival order, for display.
	Pending() []Request
}

// FIFOAssignment serves blocked requests in arrival order.
type FIFOAssignment struct {
	queue []Request
}

func (f *FIFOAssignment) Insert(r Request) {
	f.queue = append(f.queue, r)
}

func (f *FIFOAssignment) Extract() (Request, bool) {
	if len(f.queue) == 0 {
		return Request{}, false
	}
	r := f.queue[0]
	f.queue = f.queue[1:]
	return r, true
}

func (f *FIFOAssignment) Len() int { return len(f.queue) }

func (f *FIFOAssignment) Pending() []Request {
	out := make([]Request, len(f.queue))
	copy(out, f.queue)
	return out
}

// PriorityAssignment serves the most urgent blocked request first; requests with
// equal priority are served in arrival order.
type PriorityAssignment struct {
	queue   []Request // sorted by descending priority, arrival order on ties
	arrival []Request
}

func (p *PriorityAssignment) Insert(r Request) {
	at := len(p.queue)
	for i, q := range p.queue {
		if r.Priority > q.Priority {
			at = i
			break
		}
	}
	p.queue = append(p.queue, Request{})
	copy(p.queue[at+1:], p.queue[at:])
	p.queue[at] = r
	p.arrival = append(p.arrival, r)
}

func (p *PriorityAssignment) Extract() (Request, bool) {
	if len(p.queue) == 0 {
		return Request{}, false
	}
	r := p.queue[0]
	p.queue = p.queue[1:]
	p.arrival = removeRequest(p.arrival, r.Process)
	return r, true
}

func (p *PriorityAssignment) Len() int { return len(p.queue) }

func (p *PriorityAssignment) Pending() []Request {
	out := make([]Request, len(p.arrival))
	copy(out, p.arrival)
	return out
}

// RandomAssignment serves a uniformly chosen blocked request.
type RandomAssignment struct {
	rng   *rand.Rand
	queue []Request
}

// NewRandomAssignment creates a RandomAssignment drawing from rng.
func NewRandomAssignment(rng *rand.Rand) *RandomAssignment {
	return &RandomAssignment{rng: rng}
}

func (r *RandomAssignment) Insert(req Request) {
	r.queue = append(r.queue, req)
}

func (r *RandomAssignment) Extract() (Request, bool) {
	if len(r.queue) == 0 {
		return Request{}, false
	}
	i := r.rng.Intn(len(r.queue))
	req := r.queue[i]
	r.queue = append(r.queue[:i], r.queue[i+1:]...)
	return req, true
}

func (r *RandomAssignment) Len() int { return len(r.queue) }

func (r *RandomAssignment) Pending() []Request {
	out := make([]Request, len(r.queue))
	copy(out, r.queue)
	return out
}

func removeRequest(reqs []Request, id ProcessID) []Request {
	for i, r := range reqs {
		if r.Process == id {
			return append(reqs[:i], reqs[i+1:]...)
		}
	}
	return reqs
}

// NewAssignmentPolicy creates an assignment policy by name.
// Valid names are listed in AssignmentPolicyNames (bundle.go).
// Unrecognized names fall back to First In First Out with a warning.
// rng is only used by the Random policy.
func NewAssignmentPolicy(name string, rng *rand.Rand) AssignmentPolicy {
	switch name {
	case AssignmentNameFIFO:
		return &FIFOAssignment{}
	case AssignmentNamePriority:
		return &PriorityAssignment{}
	case AssignmentNameRandom:
		return NewRandomAssignment(rng)
	default:
		logrus.Warnf("unknown assignment policy %q, falling back to %q", name, AssignmentNameFIFO)
		return &FIFOAssignment{}
	}
}
