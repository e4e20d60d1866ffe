package sim

import (
	"errors"
	"fmt"
)

// ErrDuplicateName rejects a second process or resource with a name already in use.
var ErrDuplicateName = errors.New("duplicate name")

// ErrNotFound is returned when a process or resource lookup fails.
var ErrNotFound = errors.New("not found")

// Default values applied by the scenario layer and the CLI.
const (
	DefaultTimeSlice      int64 = 2
	DefaultFeedbackLevels       = 8
)

// PolicyConfig groups scheduling and assignment policy selection.
type PolicyConfig struct {
	SchedulingPolicy string // one of SchedulingPolicyNames; unknown names fall back to FIFO
	AssignmentPolicy string // one of AssignmentPolicyNames; unknown names fall back to FIFO
	TimeSlice        int64  // quantum for time-sharing policies (must be > 0 for them)
	FeedbackLevels   int    // maximum level count for multilevel feedback policies
	ICPP             bool   // enable the Immediate Ceiling Priority Protocol
	Seed             int64  // seed for the Random assignment policy
}

// Configuration is the parsed input of a run: policies plus the static process and
// resource descriptions. It owns the process id counter used while it is being edited.
type Configuration struct {
	Policy PolicyConfig

	processes []*Process
	resources []*Resource
	ids       *IDAllocator
}

// NewConfiguration creates an empty configuration with the given policy selection.
func NewConfiguration(policy PolicyConfig) *Configuration {
	return &Configuration{
		Policy: policy,
		ids:    NewIDAllocator(),
	}
}

// AddProcess creates a process with the next free id.
func (c *Configuration) AddProcess(name string, activation, execution int64, priority int) (*Process, error) {
	if _, err := c.ProcessByName(name); err == nil {
		return nil, fmt.Errorf("process %q: %w", name, ErrDuplicateName)
	}
	p := &Process{
		ID:             c.ids.Next(),
		Name:           name,
		ActivationTime: activation,
		ExecutionTime:  execution,
		Priority:       priority,
	}
	c.processes = append(c.processes, p)
	return p, nil
}

// RemoveProcess deletes a process and reclaims its id when possible.
func (c *Configuration) RemoveProcess(id ProcessID) error {
	for i, p := range c.processes {
		if p.ID == id {
			c.processes = append(c.processes[:i], c.processes[i+1:]...)
			c.ids.Reclaim(id)
			return nil
		}
	}
	return fmt.Errorf("process %d: %w", id, ErrNotFound)
}

// AddResource registers a resource. The ceiling is ignored for preemptive resources.
func (c *Configuration) AddResource(name string, multiplicity int, preemptive bool, ceiling int) (*Resource, error) {
	if _, err := c.ResourceByName(name); err == nil {
		return nil, fmt.Errorf("resource %q: %w", name, ErrDuplicateName)
	}
	if multiplicity < 1 {
		return nil, fmt.Errorf("resource %q: multiplicity must be at least 1, got %d", name, multiplicity)
	}
	r := &Resource{
		ID:           ResourceID(len(c.resources)),
		Name:         name,
		Multiplicity: multiplicity,
		Preemptive:   preemptive,
	}
	if !preemptive {
		r.Ceiling = ceiling
	}
	c.resources = append(c.resources, r)
	return r, nil
}

// AddAccess adds an access window of the named resource to a process.
// See Process.AddAccess for the rejection rules.
func (c *Configuration) AddAccess(process, resource string, requestTime, duration int64) error {
	p, err := c.ProcessByName(process)
	if err != nil {
		return err
	}
	r, err := c.ResourceByName(resource)
	if err != nil {
		return err
	}
	return p.AddAccess(AccessWindow{Resource: r.ID, RequestTime: requestTime, Duration: duration})
}

// Processes returns the processes in insertion order.
func (c *Configuration) Processes() []*Process {
	return c.processes
}

// Resources returns the resources in id order.
func (c *Configuration) Resources() []*Resource {
	return c.resources
}

// Process looks a process up by id.
func (c *Configuration) Process(id ProcessID) (*Process, error) {
	for _, p := range c.processes {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("process %d: %w", id, ErrNotFound)
}

// ProcessByName looks a process up by name.
func (c *Configuration) ProcessByName(name string) (*Process, error) {
	for _, p := range c.processes {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("process %q: %w", name, ErrNotFound)
}

// Resource looks a resource up by id.
func (c *Configuration) Resource(id ResourceID) (*Resource, error) {
	if id < 0 || int(id) >= len(c.resources) {
		return nil, fmt.Errorf("resource %d: %w", id, ErrNotFound)
	}
	return c.resources[id], nil
}

// ResourceByName looks a resource up by name.
func (c *Configuration) ResourceByName(name string) (*Resource, error) {
	for _, r := range c.resources {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, fmt.Errorf("resource %q: %w", name, ErrNotFound)
}

// NextProcessID returns the id the next AddProcess call will assign.
func (c *Configuration) NextProcessID() ProcessID {
	return c.ids.Peek()
}
