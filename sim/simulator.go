// sim/simulator.go
package sim

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/sched-sim/sim/trace"
)

// Simulator is the event-driven control loop. It owns the process table (the arena of
// PCBs, indexed by process id), the clock, and the two delegate strategies: the
// scheduling policy and the resource allocator. Every queue in the system stores
// process ids and resolves them through the process table.
type Simulator struct {
	config   *Configuration
	policy   SchedulingPolicy
	alloc    *Allocator
	protocol accessProtocol

	clock      int64
	pcbs       map[ProcessID]*PCB
	pending    []*Process // not yet activated, by activation time then id
	running    ProcessID
	hasRunning bool
	events     EventTable
	terminated []ProcessID
	flags      stepFlags

	// Trace accumulates one State per step plus the final state.
	Trace *trace.SimulationTrace
}

// NewSimulator prepares a run of cfg. The configuration is read, never modified.
func NewSimulator(cfg *Configuration) *Simulator {
	pc := cfg.Policy
	rng := NewStreams(pc.Seed)
	alloc := NewAllocator(cfg.Resources(), func() AssignmentPolicy {
		return NewAssignmentPolicy(pc.AssignmentPolicy, rng.Stream(StreamAssignment))
	})
	s := &Simulator{
		config: cfg,
		policy: NewSchedulingPolicy(pc.SchedulingPolicy, pc.TimeSlice, pc.FeedbackLevels),
		alloc:  alloc,
		pcbs:   make(map[ProcessID]*PCB),
	}
	if pc.ICPP {
		s.protocol = ceilingProtocol{alloc: alloc}
	} else {
		s.protocol = plainProtocol{}
	}
	s.pending = append(s.pending, cfg.Processes()...)
	sort.SliceStable(s.pending, func(i, j int) bool {
		if s.pending[i].ActivationTime != s.pending[j].ActivationTime {
			return s.pending[i].ActivationTime < s.pending[j].ActivationTime
		}
		return s.pending[i].ID < s.pending[j].ID
	})
	s.events.Clear()
	s.Trace = trace.NewSimulationTrace(trace.TraceConfig{
		SchedulingPolicy: s.policy.Kind().String(),
		AssignmentPolicy: pc.AssignmentPolicy,
		TimeSlice:        pc.TimeSlice,
		ICPP:             pc.ICPP,
	})
	s.policy.Bind(s)
	return s
}

// Clock returns the current simulated time.
func (s *Simulator) Clock() int64 {
	return s.clock
}

// PCB returns the control block of a live process.
func (s *Simulator) PCB(id ProcessID) *PCB {
	pcb, ok := s.pcbs[id]
	if !ok {
		panic(fmt.Sprintf("PCB: process %d is not live", id))
	}
	return pcb
}

// Running returns the process holding the CPU.
func (s *Simulator) Running() (ProcessID, bool) {
	return s.running, s.hasRunning
}

// Preempt takes the CPU away from the running process.
func (s *Simulator) Preempt() (ProcessID, bool) {
	if !s.hasRunning {
		return 0, false
	}
	s.hasRunning = false
	return s.running, true
}

// Policy returns the scheduling policy driving the run.
func (s *Simulator) Policy() SchedulingPolicy {
	return s.policy
}

// Advance records the state of the step [clock, clock+d) and then moves time forward,
// charging d ticks to the running process if there is one.
func (s *Simulator) Advance(d int64) trace.State {
	if d <= 0 {
		panic(fmt.Sprintf("Advance: non-positive step %d", d))
	}
	st := s.record(d, false)
	s.clock += d
	if s.hasRunning {
		s.pcbs[s.running].run(d)
	}
	return st
}

// Run executes the whole simulation and returns the trace. A run always completes:
// when processes are left that can neither run nor become ready, the final state is
// flagged as a deadlock.
func (s *Simulator) Run() *trace.SimulationTrace {
	logrus.Infof("[tick %07d] Starting %q with %d processes and %d resources",
		s.clock, s.policy.Kind(), len(s.pending), s.alloc.Len())
	for s.policy.Len() > 0 || s.activationPending() || s.hasRunning {
		s.activate()
		if !s.hasRunning {
			s.extract()
		}
		s.requestResources()

		ran, ok := s.Running()
		if !ok {
			s.Advance(1)
			continue
		}
		s.refreshEvents(s.pcbs[ran])
		s.policy.Execute(s.events.Next())

		pcb := s.pcbs[ran]
		if pcb.Remaining == 0 {
			s.terminate(pcb)
			continue
		}
		for pcb.releaseCountdown() == 0 {
			s.releaseOne(pcb)
		}
	}
	final := s.record(0, len(s.pcbs) > 0)
	if final.Deadlock {
		logrus.Warnf("[tick %07d] Deadlock: %d processes can never terminate", s.clock, len(s.pcbs))
	}
	logrus.Infof("[tick %07d] Simulation ended after %d steps", s.clock, s.Trace.Len())
	return s.Trace
}

func (s *Simulator) activationPending() bool {
	return len(s.pending) > 0
}

// activate jumps over an idle gap when nothing can run, then activates every
// process whose activation time has arrived.
func (s *Simulator) activate() {
	if s.policy.Len() == 0 && !s.hasRunning && s.activationPending() {
		if gap := s.pending[0].ActivationTime - s.clock; gap > 0 {
			s.Advance(gap)
		}
	}
	for s.activationPending() && s.pending[0].ActivationTime <= s.clock {
		p := s.pending[0]
		s.pending = s.pending[1:]
		if _, dup := s.pcbs[p.ID]; dup {
			panic(fmt.Sprintf("activate: process %d activated twice", p.ID))
		}
		s.pcbs[p.ID] = newPCB(p)
		logrus.Debugf("[tick %07d] Activate %s", s.clock, p.Name)
		s.policy.Insert(p.ID)
	}
}

// extract gives the CPU to the process the policy selects.
func (s *Simulator) extract() {
	id, ok := s.policy.Extract()
	if !ok {
		return
	}
	s.running, s.hasRunning = id, true
	logrus.Debugf("[tick %07d] Dispatch %s", s.clock, s.pcbs[id].Process.Name)
	s.reattribute(s.pcbs[id])
}

// reattribute gives back the preemptive resources a process holds but lost while it
// was off the CPU.
func (s *Simulator) reattribute(pcb *PCB) {
	for _, u := range pcb.held {
		if !s.alloc.Resource(u.Resource).Preemptive || s.alloc.Holds(u.Resource, pcb.ID()) {
			continue
		}
		a := s.alloc.Allocate(u.Resource, pcb.ID())
		if a.HasEvicted {
			logrus.Debugf("[tick %07d] %s takes %q back from process %d",
				s.clock, pcb.Process.Name, s.alloc.Resource(u.Resource).Name, a.Evicted)
		}
	}
}

// requestResources serves every request of the running process that is due now.
// A refused request blocks the process and frees the CPU.
func (s *Simulator) requestResources() {
	for s.hasRunning {
		pcb := s.pcbs[s.running]
		if pcb.requestCountdown() != 0 {
			return
		}
		w, _ := pcb.NextAccess()
		res := s.alloc.Resource(w.Resource)
		a := s.alloc.Allocate(w.Resource, pcb.ID())
		if !a.Granted {
			s.alloc.Enqueue(w.Resource, Request{Process: pcb.ID(), Priority: pcb.ActivePriority})
			s.hasRunning = false
			logrus.Debugf("[tick %07d] %s blocks on %q", s.clock, pcb.Process.Name, res.Name)
			return
		}
		if a.HasEvicted {
			logrus.Debugf("[tick %07d] %s takes %q from process %d", s.clock, pcb.Process.Name, res.Name, a.Evicted)
		}
		pcb.acquire()
		s.protocol.granted(pcb, res, &s.flags)
		logrus.Debugf("[tick %07d] %s acquires %q for %d", s.clock, pcb.Process.Name, res.Name, w.Duration)
		s.reattribute(pcb)
	}
}

// refreshEvents recomputes the countdown table for the running process.
func (s *Simulator) refreshEvents(pcb *PCB) {
	s.events.Clear()
	if s.activationPending() {
		s.events.Set(EventActivate, s.pending[0].ActivationTime-s.clock)
	}
	s.events.Set(EventRequestResource, pcb.requestCountdown())
	s.events.Set(EventReleaseResource, pcb.releaseCountdown())
	s.events.Set(EventTerminate, pcb.Remaining)
}

// release hands one held resource back and readies the next blocked requester.
func (s *Simulator) release(pcb *PCB, u ResourceUse) {
	res := s.alloc.Resource(u.Resource)
	next, ok := s.alloc.Release(u.Resource, pcb.ID())
	s.protocol.released(pcb, res)
	logrus.Debugf("[tick %07d] %s releases %q", s.clock, pcb.Process.Name, res.Name)
	if ok {
		logrus.Debugf("[tick %07d] Unblock %s", s.clock, s.pcbs[next.Process].Process.Name)
		s.policy.Insert(next.Process)
	}
}

// releaseOne releases the held resource whose hold time has just run out.
func (s *Simulator) releaseOne(pcb *PCB) {
	u, ok := pcb.popExpired()
	if !ok {
		panic(fmt.Sprintf("releaseOne: process %d has no expired resource", pcb.ID()))
	}
	s.release(pcb, u)
}

// terminate releases everything a finished process holds and removes its PCB.
func (s *Simulator) terminate(pcb *PCB) {
	id := pcb.ID()
	if s.hasRunning && s.running == id {
		s.hasRunning = false
	}
	for _, u := range pcb.releaseAll() {
		s.release(pcb, u)
	}
	delete(s.pcbs, id)
	s.terminated = append(s.terminated, id)
	s.policy.Forget(id)
	logrus.Debugf("[tick %07d] Terminate %s", s.clock, pcb.Process.Name)
}
