// Package sim provides the discrete-event engine of the CPU scheduling simulator.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - process.go: the static entity model (processes, access windows, resources)
//   - pcb.go: the runtime control block of an activated process
//   - simulator.go: the control loop that activates, dispatches, runs and terminates
//
// # Architecture
//
// The sim package owns the engine; supporting packages live beside it:
//   - sim/trace/: the step-by-step State snapshots and run summaries
//   - sim/scenario/: YAML and XML scenario files, validation, random generation
//   - sim/telemetry/: OpenTelemetry spans around runs
//
// A Configuration is built once (usually by sim/scenario) and read by NewSimulator.
// Queues everywhere hold process ids; the simulator's process table is the only owner
// of PCBs.
//
// # Key Interfaces
//
//   - SchedulingPolicy: ready-queue discipline, quantum and preemption rules (13 variants)
//   - AssignmentPolicy: ordering of requests blocked on a non-preemptive resource
//   - Dispatcher: the side of the control loop a policy drives (Advance, Preempt)
//
// Resource contention goes through the Allocator, and the Immediate Ceiling Priority
// Protocol is applied on every grant and release of a non-preemptive resource when
// enabled.
package sim
