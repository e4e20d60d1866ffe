package sim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inference-sim/sched-sim/sim/trace"
)

// fakeDispatcher drives a policy in isolation. Advance charges the running process
// and records the step length.
type fakeDispatcher struct {
	clock      int64
	pcbs       map[ProcessID]*PCB
	running    ProcessID
	hasRunning bool
	steps      []int64
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{pcbs: make(map[ProcessID]*PCB)}
}

func (f *fakeDispatcher) add(id ProcessID, activation, execution int64, priority int) *PCB {
	p := &Process{
		ID:             id,
		Name:           fmt.Sprintf("P%d", id),
		ActivationTime: activation,
		ExecutionTime:  execution,
		Priority:       priority,
	}
	pcb := newPCB(p)
	f.pcbs[id] = pcb
	return pcb
}

func (f *fakeDispatcher) Clock() int64 { return f.clock }

func (f *fakeDispatcher) PCB(id ProcessID) *PCB {
	pcb, ok := f.pcbs[id]
	if !ok {
		panic(fmt.Sprintf("fake: unknown process %d", id))
	}
	return pcb
}

func (f *fakeDispatcher) Running() (ProcessID, bool) { return f.running, f.hasRunning }

func (f *fakeDispatcher) Advance(d int64) trace.State {
	st := trace.State{Time: f.clock, Duration: d}
	f.steps = append(f.steps, d)
	f.clock += d
	if f.hasRunning {
		f.pcbs[f.running].run(d)
	}
	return st
}

func (f *fakeDispatcher) Preempt() (ProcessID, bool) {
	if !f.hasRunning {
		return 0, false
	}
	f.hasRunning = false
	return f.running, true
}

// dispatch extracts the next process from p and makes it the running one.
func (f *fakeDispatcher) dispatch(t *testing.T, p SchedulingPolicy) ProcessID {
	t.Helper()
	id, ok := p.Extract()
	require.True(t, ok, "dispatch: ready queue is empty")
	f.running, f.hasRunning = id, true
	return id
}

func newBoundPolicy(name string, timeSlice int64, levels int) (SchedulingPolicy, *fakeDispatcher) {
	d := newFakeDispatcher()
	p := NewSchedulingPolicy(name, timeSlice, levels)
	p.Bind(d)
	return p, d
}

func drain(p SchedulingPolicy) []ProcessID {
	var out []ProcessID
	for {
		id, ok := p.Extract()
		if !ok {
			return out
		}
		out = append(out, id)
	}
}

func newTestConfig(policy string, timeSlice int64) *Configuration {
	return NewConfiguration(PolicyConfig{
		SchedulingPolicy: policy,
		AssignmentPolicy: AssignmentNameFIFO,
		TimeSlice:        timeSlice,
		FeedbackLevels:   DefaultFeedbackLevels,
	})
}

func mustProcess(t *testing.T, c *Configuration, name string, activation, execution int64, priority int) *Process {
	t.Helper()
	p, err := c.AddProcess(name, activation, execution, priority)
	require.NoError(t, err)
	return p
}

func mustResource(t *testing.T, c *Configuration, name string, multiplicity int, preemptive bool, ceiling int) *Resource {
	t.Helper()
	r, err := c.AddResource(name, multiplicity, preemptive, ceiling)
	require.NoError(t, err)
	return r
}

func mustAccess(t *testing.T, c *Configuration, process, resource string, request, duration int64) {
	t.Helper()
	require.NoError(t, c.AddAccess(process, resource, request, duration))
}

// runningNames lists the running process of every step, "-" for idle steps.
// The final zero-duration state is not included.
func runningNames(tr *trace.SimulationTrace) []string {
	var out []string
	for _, s := range tr.States {
		if s.Duration == 0 {
			continue
		}
		if s.Running == nil {
			out = append(out, "-")
			continue
		}
		out = append(out, s.Running.Name)
	}
	return out
}

func stepTimes(tr *trace.SimulationTrace) []int64 {
	out := make([]int64, len(tr.States))
	for i, s := range tr.States {
		out[i] = s.Time
	}
	return out
}

func refNames(refs []trace.ProcessRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Name
	}
	return out
}
