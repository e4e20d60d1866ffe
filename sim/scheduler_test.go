package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchedulingPolicy_EveryNameMapsToItsKind(t *testing.T) {
	for i, name := range SchedulingPolicyNames {
		t.Run(name, func(t *testing.T) {
			p := NewSchedulingPolicy(name, 2, 4)
			require.NotNil(t, p)
			assert.Equal(t, PolicyKind(i), p.Kind())
			assert.Equal(t, name, p.Kind().String())
		})
	}
}

func TestNewSchedulingPolicy_UnknownName_FallsBackToFIFO(t *testing.T) {
	p := NewSchedulingPolicy("Lottery", 2, 4)
	assert.Equal(t, PolicyFIFO, p.Kind())
}

func TestParsePolicyKind(t *testing.T) {
	kind, ok := ParsePolicyKind(PolicyNameSRTF)
	assert.True(t, ok)
	assert.Equal(t, PolicySRTF, kind)

	_, ok = ParsePolicyKind("round robin")
	assert.False(t, ok, "names are case sensitive")
}

func TestPolicyKind_TimeSharing(t *testing.T) {
	assert.True(t, PolicyRoundRobin.TimeSharing())
	assert.True(t, PolicyPreemptiveMultilevelFeedbackDynamicQuantum.TimeSharing())
	assert.False(t, PolicyFIFO.TimeSharing())
	assert.False(t, PolicyHRRN.TimeSharing())
	assert.False(t, PolicySRTF.TimeSharing())
}

func TestFIFOPolicy_ExtractionOrderEqualsInsertionOrder(t *testing.T) {
	// GIVEN five processes inserted in a scrambled id order
	p, d := newBoundPolicy(PolicyNameFIFO, 2, 4)
	order := []ProcessID{4, 1, 5, 3, 2}
	for _, id := range order {
		d.add(id, 0, 5, int(id))
		p.Insert(id)
	}

	// WHEN all are extracted
	got := drain(p)

	// THEN they come out in insertion order, regardless of priority
	assert.Equal(t, order, got)
}

func TestFIFOPolicy_Execute_RunsTheWholeBudget(t *testing.T) {
	p, d := newBoundPolicy(PolicyNameFIFO, 2, 4)
	d.add(1, 0, 10, 0)
	p.Insert(1)
	d.dispatch(t, p)

	st := p.Execute(7)

	assert.Equal(t, int64(7), st.Duration)
	assert.Equal(t, int64(3), d.PCB(1).Remaining)
	id, ok := d.Running()
	assert.True(t, ok)
	assert.Equal(t, ProcessID(1), id)
}

func TestPolicy_Execute_WithoutRunningProcess_Panics(t *testing.T) {
	p, _ := newBoundPolicy(PolicyNameFIFO, 2, 4)
	assert.Panics(t, func() { p.Execute(1) })
}

func TestQuantumTracker_RestartsForANewProcess(t *testing.T) {
	var q quantumTracker
	assert.Equal(t, int64(3), q.slice(1, 3, 10))
	assert.False(t, q.consume(1, 3))
	assert.Equal(t, int64(2), q.slice(1, 3, 10), "same process continues its quantum")
	assert.Equal(t, int64(3), q.slice(2, 3, 10), "a different process starts afresh")
	assert.Equal(t, int64(1), q.slice(2, 3, 1), "budget bounds the slice")
	assert.True(t, q.consume(3, 3))
}
