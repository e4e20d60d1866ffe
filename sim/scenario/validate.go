package scenario

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/sched-sim/sim"
)

// ValidateOptions tunes Validate.
type ValidateOptions struct {
	// Lenient accepts unknown policy names; the engine then falls back to FIFO.
	Lenient bool
	// MaxDuration bounds Horizon(). Zero disables the check.
	MaxDuration int64
}

// Validate checks every admissibility rule the engine relies on. Errors name the
// offending field.
func (d *Document) Validate(opts ValidateOptions) error {
	if !sim.IsValidSchedulingPolicy(d.SchedulingPolicy) {
		if !opts.Lenient {
			return fmt.Errorf("unknown scheduling_policy %q; valid: %v", d.SchedulingPolicy, sim.SchedulingPolicyNames)
		}
		logrus.Warnf("unknown scheduling_policy %q accepted, the run uses %q", d.SchedulingPolicy, sim.PolicyNameFIFO)
	}
	if !sim.IsValidAssignmentPolicy(d.AssignmentPolicy) {
		if !opts.Lenient {
			return fmt.Errorf("unknown assignment_policy %q; valid: %v", d.AssignmentPolicy, sim.AssignmentPolicyNames)
		}
		logrus.Warnf("unknown assignment_policy %q accepted, the run uses %q", d.AssignmentPolicy, sim.AssignmentNameFIFO)
	}
	if d.TimeSlice <= 0 {
		return fmt.Errorf("time_slice must be positive, got %d", d.TimeSlice)
	}
	if d.FeedbackLevels < 1 {
		return fmt.Errorf("feedback_levels must be at least 1, got %d", d.FeedbackLevels)
	}
	if len(d.Processes) == 0 {
		return fmt.Errorf("at least one process required")
	}
	for i := range d.Processes {
		if err := validateProcess(&d.Processes[i], i); err != nil {
			return err
		}
	}
	for i := range d.Resources {
		if err := validateResource(&d.Resources[i], i); err != nil {
			return err
		}
	}
	if opts.MaxDuration > 0 && d.Horizon() > opts.MaxDuration {
		return fmt.Errorf("scenario needs up to %d time units, above max duration %d", d.Horizon(), opts.MaxDuration)
	}
	// Names, multiplicities and access windows are checked by building a throwaway configuration.
	if _, err := d.Build(); err != nil {
		return err
	}
	return nil
}

func validateProcess(p *ProcessSpec, idx int) error {
	prefix := fmt.Sprintf("process[%d]", idx)
	if p.Name == "" {
		return fmt.Errorf("%s: name required", prefix)
	}
	if p.ActivationTime < 0 {
		return fmt.Errorf("%s.activation_time must be non-negative, got %d", prefix, p.ActivationTime)
	}
	if p.ExecutionTime <= 0 {
		return fmt.Errorf("%s.execution_time must be positive, got %d", prefix, p.ExecutionTime)
	}
	return validatePriority(prefix+".priority", p.Priority)
}

func validateResource(r *ResourceSpec, idx int) error {
	prefix := fmt.Sprintf("resource[%d]", idx)
	if r.Name == "" {
		return fmt.Errorf("%s: name required", prefix)
	}
	if r.Multiplicity < 1 {
		return fmt.Errorf("%s.multiplicity must be at least 1, got %d", prefix, r.Multiplicity)
	}
	if r.Preemptive {
		if r.Ceiling != nil {
			return fmt.Errorf("%s.ceiling is not allowed on a preemptive resource", prefix)
		}
		return nil
	}
	if r.Ceiling == nil {
		return fmt.Errorf("%s.ceiling required for a non-preemptive resource", prefix)
	}
	return validatePriority(prefix+".ceiling", *r.Ceiling)
}

func validatePriority(name string, v int) error {
	if v < sim.MinPriority || v > sim.MaxPriority {
		return fmt.Errorf("%s must be in [%d, %d], got %d", name, sim.MinPriority, sim.MaxPriority, v)
	}
	return nil
}
