package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundRobin_QuantumExhausted_RequeuesAtTail(t *testing.T) {
	// GIVEN quantum 2 and ready processes [1, 2]
	p, d := newBoundPolicy(PolicyNameRoundRobin, 2, 4)
	d.add(1, 0, 5, 0)
	d.add(2, 0, 3, 0)
	p.Insert(1)
	p.Insert(2)

	// WHEN 1 runs with a budget larger than the quantum
	d.dispatch(t, p)
	p.Execute(5)

	// THEN it runs exactly one quantum, leaves the CPU and goes behind 2
	assert.Equal(t, []int64{2}, d.steps)
	_, running := d.Running()
	assert.False(t, running)
	assert.Equal(t, []ReadySegment{{Queue: 0, Processes: []ProcessID{2, 1}}}, p.ReadyQueue())
}

func TestRoundRobin_NeverExceedsQuantumContiguously(t *testing.T) {
	// GIVEN a single long process under quantum 3, driven by small budgets
	p, d := newBoundPolicy(PolicyNameRoundRobin, 3, 4)
	d.add(1, 0, 20, 0)
	p.Insert(1)

	contiguous := int64(0)
	for d.PCB(1).Remaining > 0 {
		if _, ok := d.Running(); !ok {
			d.dispatch(t, p)
			contiguous = 0
		}
		before := len(d.steps)
		p.Execute(min(2, d.PCB(1).Remaining))
		contiguous += d.steps[before]

		// THEN no dispatch lasts longer than the quantum
		assert.LessOrEqual(t, contiguous, int64(3))
	}
	assert.Equal(t, int64(20), d.clock)
}

func TestRoundRobin_FinishingProcessIsNotRequeued(t *testing.T) {
	p, d := newBoundPolicy(PolicyNameRoundRobin, 2, 4)
	d.add(1, 0, 2, 0)
	p.Insert(1)
	d.dispatch(t, p)

	p.Execute(2)

	assert.Equal(t, 0, p.Len())
	_, running := d.Running()
	assert.True(t, running, "the control loop, not the policy, retires a finished process")
}
