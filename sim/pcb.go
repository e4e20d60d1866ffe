package sim

import "fmt"

// ResourceUse is a resource currently held by a process and the hold time it still needs.
type ResourceUse struct {
	Resource  ResourceID
	Remaining int64
}

// PCB is the runtime control block of an activated process. It is the only place
// that records which resources a process currently holds.
type PCB struct {
	Process        *Process
	Executed       int64
	Remaining      int64
	ActivePriority int // starts at Process.Priority; raised and restored by ICPP

	nextAccess int           // index of the next access window to request
	held       []ResourceUse // in acquisition order
}

func newPCB(p *Process) *PCB {
	return &PCB{
		Process:        p,
		Remaining:      p.ExecutionTime,
		ActivePriority: p.Priority,
	}
}

// ID returns the id of the underlying process.
func (c *PCB) ID() ProcessID {
	return c.Process.ID
}

// NextAccess returns the next access window the process will request, if any.
func (c *PCB) NextAccess() (AccessWindow, bool) {
	if c.nextAccess >= len(c.Process.accesses) {
		return AccessWindow{}, false
	}
	return c.Process.accesses[c.nextAccess], true
}

// Held returns a copy of the resources currently held.
func (c *PCB) Held() []ResourceUse {
	out := make([]ResourceUse, len(c.held))
	copy(out, c.held)
	return out
}

// requestCountdown is the executed time left before the next request, or -1.
func (c *PCB) requestCountdown() int64 {
	w, ok := c.NextAccess()
	if !ok {
		return -1
	}
	return w.RequestTime - c.Executed
}

// releaseCountdown is the executed time left before the first held resource is due, or -1.
func (c *PCB) releaseCountdown() int64 {
	next := int64(-1)
	for _, u := range c.held {
		if next < 0 || u.Remaining < next {
			next = u.Remaining
		}
	}
	return next
}

// acquire moves the pending access window onto the held stack.
func (c *PCB) acquire() AccessWindow {
	w, ok := c.NextAccess()
	if !ok {
		panic(fmt.Sprintf("acquire: process %d has no pending access", c.ID()))
	}
	c.nextAccess++
	c.held = append(c.held, ResourceUse{Resource: w.Resource, Remaining: w.Duration})
	return w
}

// popExpired removes the first held use whose hold time has run out.
func (c *PCB) popExpired() (ResourceUse, bool) {
	for i, u := range c.held {
		if u.Remaining == 0 {
			c.held = append(c.held[:i], c.held[i+1:]...)
			return u, true
		}
	}
	return ResourceUse{}, false
}

// releaseAll empties the held stack and returns what was held, most recent first.
func (c *PCB) releaseAll() []ResourceUse {
	out := make([]ResourceUse, 0, len(c.held))
	for i := len(c.held) - 1; i >= 0; i-- {
		out = append(out, c.held[i])
	}
	c.held = nil
	return out
}

// run accounts d units of CPU time.
func (c *PCB) run(d int64) {
	if d > c.Remaining {
		panic(fmt.Sprintf("run: process %d asked to run %d with %d remaining", c.ID(), d, c.Remaining))
	}
	c.Executed += d
	c.Remaining -= d
	for i := range c.held {
		c.held[i].Remaining -= d
		if c.held[i].Remaining < 0 {
			panic(fmt.Sprintf("run: process %d overran its hold on resource %d", c.ID(), c.held[i].Resource))
		}
	}
}

func (c PCB) String() string {
	return fmt.Sprintf("PCB: (ID: %d, Executed: %d, Remaining: %d, ActivePriority: %d, Held: %d)",
		c.ID(), c.Executed, c.Remaining, c.ActivePriority, len(c.held))
}
