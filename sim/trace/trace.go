// Package trace holds the output of a simulation run: one State per step plus the final state.
// This package has no dependencies on sim/; it stores pure data types.
package trace

import "github.com/google/uuid"

// TraceConfig records the policy selection a trace was produced with.
type TraceConfig struct {
	SchedulingPolicy string `json:"scheduling_policy" yaml:"scheduling_policy"`
	AssignmentPolicy string `json:"assignment_policy" yaml:"assignment_policy"`
	TimeSlice        int64  `json:"time_slice" yaml:"time_slice"`
	ICPP             bool   `json:"icpp" yaml:"icpp"`
}

// SimulationTrace collects the states emitted during a run, in emission order.
type SimulationTrace struct {
	RunID  string      `json:"run_id" yaml:"run_id"`
	Config TraceConfig `json:"config" yaml:"config"`
	States []State     `json:"states" yaml:"states"`
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		RunID:  uuid.New().String(),
		Config: config,
		States: make([]State, 0),
	}
}

// RecordState appends a state and stamps its index.
func (st *SimulationTrace) RecordState(s State) State {
	s.Index = len(st.States)
	st.States = append(st.States, s)
	return s
}

// Len returns the number of recorded states.
func (st *SimulationTrace) Len() int {
	return len(st.States)
}

// Final returns the last recorded state, or nil for an empty trace.
func (st *SimulationTrace) Final() *State {
	if st == nil || len(st.States) == 0 {
		return nil
	}
	return &st.States[len(st.States)-1]
}

// Deadlocked reports whether the run ended in deadlock.
func (st *SimulationTrace) Deadlocked() bool {
	final := st.Final()
	return final != nil && final.Deadlock
}

// At returns the state covering the given instant, or nil when the instant lies
// outside the simulated span.
func (st *SimulationTrace) At(t int64) *State {
	for i := range st.States {
		s := &st.States[i]
		if t >= s.Time && t < s.Time+s.Duration {
			return s
		}
	}
	return nil
}
