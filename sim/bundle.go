package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scheduling policy names as they appear in configurations.
const (
	PolicyNameFIFO                                = "First In First Out"
	PolicyNameHPF                                 = "Highest Priority First"
	PolicyNamePreemptiveHPF                       = "Preemptive Highest Priority First"
	PolicyNameHRRN                                = "Highest Response Ratio Next"
	PolicyNameRoundRobin                          = "Round Robin"
	PolicyNamePriorityRoundRobin                  = "Priority Round Robin"
	PolicyNamePreemptivePriorityRoundRobin        = "Preemptive Priority Round Robin"
	PolicyNameMultilevelFeedback                  = "Multilevel Feedback"
	PolicyNameMultilevelFeedbackDynamicQuantum    = "Multilevel Feedback Dynamic Quantum"
	PolicyNamePreemptiveMultilevelFeedback        = "Preemptive Multilevel Feedback"
	PolicyNamePreemptiveMultilevelFeedbackDynamic = "Preemptive Multilevel Feedback Dynamic Quantum"
	PolicyNameSJF                                 = "Shortest Job First"
	PolicyNameSRTF                                = "Shortest Remaining Time First"
)

// Assignment policy names as they appear in configurations.
const (
	AssignmentNameFIFO     = "First In First Out"
	AssignmentNameRandom   = "Random"
	AssignmentNamePriority = "Highest Priority First"
)

// SchedulingPolicyNames lists the recognized scheduling policies in PolicyKind order.
var SchedulingPolicyNames = []string{
	PolicyNameFIFO,
	PolicyNameHPF,
	PolicyNamePreemptiveHPF,
	PolicyNameHRRN,
	PolicyNameRoundRobin,
	PolicyNamePriorityRoundRobin,
	PolicyNamePreemptivePriorityRoundRobin,
	PolicyNameMultilevelFeedback,
	PolicyNameMultilevelFeedbackDynamicQuantum,
	PolicyNamePreemptiveMultilevelFeedback,
	PolicyNamePreemptiveMultilevelFeedbackDynamic,
	PolicyNameSJF,
	PolicyNameSRTF,
}

// AssignmentPolicyNames lists the recognized assignment policies.
var AssignmentPolicyNames = []string{AssignmentNameFIFO, AssignmentNameRandom, AssignmentNamePriority}

// ValidSchedulingPolicies is the set of recognized scheduling policy names.
// Shared by Validate() and NewSchedulingPolicy() to avoid duplication.
var ValidSchedulingPolicies = nameSet(SchedulingPolicyNames)

// ValidAssignmentPolicies is the set of recognized assignment policy names.
var ValidAssignmentPolicies = nameSet(AssignmentPolicyNames)

func nameSet(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// IsValidSchedulingPolicy returns true if name is a recognized scheduling policy.
func IsValidSchedulingPolicy(name string) bool {
	return ValidSchedulingPolicies[name]
}

// IsValidAssignmentPolicy returns true if name is a recognized assignment policy.
func IsValidAssignmentPolicy(name string) bool {
	return ValidAssignmentPolicies[name]
}

// PolicyBundle holds policy overrides, loadable from a YAML file.
// Nil pointer fields mean "not set in YAML" and do not override the scenario.
// String fields use empty string for "not set".
type PolicyBundle struct {
	SchedulingPolicy string `yaml:"scheduling_policy"`
	AssignmentPolicy string `yaml:"assignment_policy"`
	TimeSlice        *int64 `yaml:"time_slice"`
	FeedbackLevels   *int   `yaml:"feedback_levels"`
	ICPP             *bool  `yaml:"icpp"`
	Seed             *int64 `yaml:"seed"`
}

// LoadPolicyBundle reads and parses a YAML policy configuration file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadPolicyBundle(path string) (*PolicyBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy config: %w", err)
	}
	var bundle PolicyBundle
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("parsing policy config: %w", err)
	}
	return &bundle, nil
}

// Validate checks that all policy names and parameter ranges in the bundle are valid.
func (b *PolicyBundle) Validate() error {
	if b.SchedulingPolicy != "" && !IsValidSchedulingPolicy(b.SchedulingPolicy) {
		return fmt.Errorf("unknown scheduling policy %q", b.SchedulingPolicy)
	}
	if b.AssignmentPolicy != "" && !IsValidAssignmentPolicy(b.AssignmentPolicy) {
		return fmt.Errorf("unknown assignment policy %q", b.AssignmentPolicy)
	}
	if b.TimeSlice != nil && *b.TimeSlice <= 0 {
		return fmt.Errorf("time_slice must be positive, got %d", *b.TimeSlice)
	}
	if b.FeedbackLevels != nil && *b.FeedbackLevels < 1 {
		return fmt.Errorf("feedback_levels must be at least 1, got %d", *b.FeedbackLevels)
	}
	return nil
}

// Apply overrides the set fields of the bundle onto cfg.
func (b *PolicyBundle) Apply(cfg *PolicyConfig) {
	if b.SchedulingPolicy != "" {
		cfg.SchedulingPolicy = b.SchedulingPolicy
	}
	if b.AssignmentPolicy != "" {
		cfg.AssignmentPolicy = b.AssignmentPolicy
	}
	if b.TimeSlice != nil {
		cfg.TimeSlice = *b.TimeSlice
	}
	if b.FeedbackLevels != nil {
		cfg.FeedbackLevels = *b.FeedbackLevels
	}
	if b.ICPP != nil {
		cfg.ICPP = *b.ICPP
	}
	if b.Seed != nil {
		cfg.Seed = *b.Seed
	}
}
