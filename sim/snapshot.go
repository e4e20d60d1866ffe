package sim

import (
	"sort"

	"github.com/inference-sim/sched-sim/sim/trace"
)

// ref resolves a process id to its snapshot reference. Terminated processes are
// resolved through the configuration since their PCB is gone.
func (s *Simulator) ref(id ProcessID) trace.ProcessRef {
	if pcb, ok := s.pcbs[id]; ok {
		return trace.ProcessRef{ID: int(id), Name: pcb.Process.Name}
	}
	if p, err := s.config.Process(id); err == nil {
		return trace.ProcessRef{ID: int(id), Name: p.Name}
	}
	return trace.ProcessRef{ID: int(id)}
}

func (s *Simulator) refs(ids []ProcessID) []trace.ProcessRef {
	out := make([]trace.ProcessRef, len(ids))
	for i, id := range ids {
		out[i] = s.ref(id)
	}
	return out
}

// record captures the current system state as the step [clock, clock+d) and appends
// it to the trace. Protocol flags raised since the previous step are consumed.
func (s *Simulator) record(d int64, deadlock bool) trace.State {
	st := trace.State{
		Time:              s.clock,
		Duration:          d,
		Deadlock:          deadlock,
		CeilingViolation:  s.flags.ceilingViolation,
		PriorityInversion: s.flags.priorityInversion,
		Terminated:        s.refs(s.terminated),
	}
	s.flags = stepFlags{}

	if s.hasRunning {
		r := s.ref(s.running)
		st.Running = &r
	}
	for _, seg := range s.policy.ReadyQueue() {
		st.Ready = append(st.Ready, trace.ReadySegment{Queue: seg.Queue, Processes: s.refs(seg.Processes)})
	}
	for i := 0; i < s.alloc.Len(); i++ {
		id := ResourceID(i)
		res := s.alloc.Resource(id)
		st.Resources = append(st.Resources, trace.ResourceHolders{
			Resource:     res.Name,
			Preemptive:   res.Preemptive,
			Multiplicity: res.Multiplicity,
			Holders:      s.refs(s.alloc.Holders(id)),
		})
		waiting := s.alloc.Waiting(id)
		if len(waiting) == 0 {
			continue
		}
		q := trace.BlockedQueue{Resource: res.Name}
		for _, r := range waiting {
			q.Requests = append(q.Requests, trace.BlockedRequest{Process: s.ref(r.Process), Priority: r.Priority})
		}
		st.Blocked = append(st.Blocked, q)
	}

	ids := make([]ProcessID, 0, len(s.pcbs))
	for id := range s.pcbs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		pcb := s.pcbs[id]
		view := trace.ProcessView{
			ProcessRef:     s.ref(id),
			Executed:       pcb.Executed,
			Remaining:      pcb.Remaining,
			ActivePriority: pcb.ActivePriority,
		}
		for _, u := range pcb.held {
			view.Held = append(view.Held, trace.HeldResource{
				Resource:  s.alloc.Resource(u.Resource).Name,
				Remaining: u.Remaining,
			})
		}
		st.Processes = append(st.Processes, view)
	}
	return s.Trace.RecordState(st)
}
