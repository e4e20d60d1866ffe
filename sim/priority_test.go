package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHPF_ExtractsMostUrgentLevelFirst_FIFOWithinLevel(t *testing.T) {
	p, d := newBoundPolicy(PolicyNameHPF, 2, 4)
	prios := map[ProcessID]int{1: 1, 2: 5, 3: 3, 4: 5}
	for _, id := range []ProcessID{1, 2, 3, 4} {
		d.add(id, 0, 5, prios[id])
		p.Insert(id)
	}

	assert.Equal(t, []ReadySegment{
		{Queue: 5, Processes: []ProcessID{2, 4}},
		{Queue: 3, Processes: []ProcessID{3}},
		{Queue: 1, Processes: []ProcessID{1}},
	}, p.ReadyQueue())
	assert.Equal(t, []ProcessID{2, 4, 3, 1}, drain(p))
}

func TestHPF_NonPreemptive_DoesNotEvict(t *testing.T) {
	p, d := newBoundPolicy(PolicyNameHPF, 2, 4)
	d.add(1, 0, 5, 1)
	d.add(2, 0, 5, 9)
	p.Insert(1)
	d.dispatch(t, p)

	p.Insert(2)

	id, ok := d.Running()
	assert.True(t, ok)
	assert.Equal(t, ProcessID(1), id)
}

func TestPreemptiveHPF_MoreUrgentArrival_EvictsRunning(t *testing.T) {
	// GIVEN process 1 (priority 1) running and process 3 (priority 1) ready
	p, d := newBoundPolicy(PolicyNamePreemptiveHPF, 2, 4)
	d.add(1, 0, 5, 1)
	d.add(2, 0, 5, 6)
	d.add(3, 0, 5, 1)
	p.Insert(1)
	p.Insert(3)
	d.dispatch(t, p)

	// WHEN process 2 (priority 6) becomes ready
	p.Insert(2)

	// THEN 1 leaves the CPU and returns to the front of its level
	_, running := d.Running()
	assert.False(t, running)
	assert.Equal(t, []ProcessID{2, 1, 3}, drain(p))
}

func TestPreemptiveHPF_EqualPriority_DoesNotEvict(t *testing.T) {
	p, d := newBoundPolicy(PolicyNamePreemptiveHPF, 2, 4)
	d.add(1, 0, 5, 4)
	d.add(2, 0, 5, 4)
	p.Insert(1)
	d.dispatch(t, p)

	p.Insert(2)

	_, running := d.Running()
	assert.True(t, running)
}

func TestPreemptiveHPF_UsesActivePriority(t *testing.T) {
	// GIVEN a running process whose active priority was raised above its initial one
	p, d := newBoundPolicy(PolicyNamePreemptiveHPF, 2, 4)
	d.add(1, 0, 5, 1).ActivePriority = 8
	d.add(2, 0, 5, 6)
	p.Insert(1)
	d.dispatch(t, p)

	// WHEN a process more urgent than the initial but not the active priority arrives
	p.Insert(2)

	// THEN no eviction happens
	_, running := d.Running()
	assert.True(t, running)
}

func TestPriorityRoundRobin_QuantumScopedPerLevel(t *testing.T) {
	// GIVEN two processes at level 5 and one at level 2, quantum 2
	p, d := newBoundPolicy(PolicyNamePriorityRoundRobin, 2, 4)
	d.add(1, 0, 6, 5)
	d.add(2, 0, 6, 5)
	d.add(3, 0, 6, 2)
	for _, id := range []ProcessID{1, 2, 3} {
		p.Insert(id)
	}

	// WHEN process 1 exhausts its quantum
	d.dispatch(t, p)
	p.Execute(6)

	// THEN it goes to the tail of its own level, still ahead of level 2
	assert.Equal(t, []int64{2}, d.steps)
	assert.Equal(t, []ReadySegment{
		{Queue: 5, Processes: []ProcessID{2, 1}},
		{Queue: 2, Processes: []ProcessID{3}},
	}, p.ReadyQueue())
}

func TestPreemptivePriorityRoundRobin_EvictsToFrontOfOwnLevel(t *testing.T) {
	// GIVEN process 1 (priority 2) running and 3 (priority 2) ready
	p, d := newBoundPolicy(PolicyNamePreemptivePriorityRoundRobin, 2, 4)
	d.add(1, 0, 6, 2)
	d.add(2, 0, 6, 7)
	d.add(3, 0, 6, 2)
	d.add(4, 0, 6, 7)
	p.Insert(1)
	p.Insert(3)
	d.dispatch(t, p)

	// WHEN process 4 (priority 7) arrives
	p.Insert(4)

	// THEN 1 is evicted ahead of 3
	_, running := d.Running()
	assert.False(t, running)
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, ProcessID(4), d.dispatch(t, p))

	// WHEN process 2 (priority 7) arrives while 4 (priority 7) runs
	p.Insert(2)

	// THEN nothing is evicted and 2 queues at the tail of level 7
	_, running = d.Running()
	assert.True(t, running)
	assert.Equal(t, []ReadySegment{
		{Queue: 7, Processes: []ProcessID{2}},
		{Queue: 2, Processes: []ProcessID{1, 3}},
	}, p.ReadyQueue())
}

func TestPreemptivePriorityRoundRobin_NewcomerGoesToFrontOfItsLevel(t *testing.T) {
	// GIVEN process 1 (priority 2) running and 5 (priority 7) already queued
	p, d := newBoundPolicy(PolicyNamePreemptivePriorityRoundRobin, 2, 4)
	d.add(1, 0, 6, 2)
	d.add(5, 0, 6, 7)
	d.add(6, 0, 6, 7)
	p.Insert(5)
	d.running, d.hasRunning = 1, true

	// WHEN 6 (priority 7) arrives
	p.Insert(6)

	// THEN 6 is spliced ahead of 5 and 1 heads level 2
	assert.Equal(t, []ReadySegment{
		{Queue: 7, Processes: []ProcessID{6, 5}},
		{Queue: 2, Processes: []ProcessID{1}},
	}, p.ReadyQueue())
}
