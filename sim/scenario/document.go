// Package scenario is the boundary between scenario files and the simulation engine.
// It reads and writes scenario documents (YAML or the XML configuration schema),
// validates them, and builds the sim.Configuration the engine runs.
package scenario

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/sched-sim/sim"
)

// Document is a scenario as stored on disk.
type Document struct {
	SchedulingPolicy string         `yaml:"scheduling_policy"`
	AssignmentPolicy string         `yaml:"assignment_policy"`
	TimeSlice        int64          `yaml:"time_slice"`
	FeedbackLevels   int            `yaml:"feedback_levels,omitempty"`
	ICPP             bool           `yaml:"icpp"`
	Seed             int64          `yaml:"seed,omitempty"`
	Processes        []ProcessSpec  `yaml:"processes"`
	Resources        []ResourceSpec `yaml:"resources,omitempty"`
	Accesses         []AccessSpec   `yaml:"accesses,omitempty"`
}

// ProcessSpec describes one process.
type ProcessSpec struct {
	Name           string `yaml:"name"`
	ActivationTime int64  `yaml:"activation_time"`
	ExecutionTime  int64  `yaml:"execution_time"`
	Priority       int    `yaml:"priority"`
}

// ResourceSpec describes one resource. Ceiling is required for non-preemptive
// resources and must be absent for preemptive ones.
type ResourceSpec struct {
	Name         string `yaml:"name"`
	Preemptive   bool   `yaml:"preemptive"`
	Multiplicity int    `yaml:"multiplicity"`
	Ceiling      *int   `yaml:"ceiling,omitempty"`
}

// AccessSpec is an access window, naming its process and resource.
type AccessSpec struct {
	Process     string `yaml:"process"`
	Resource    string `yaml:"resource"`
	RequestTime int64  `yaml:"request_time"`
	Duration    int64  `yaml:"duration"`
}

// ApplyDefaults fills unset policy fields.
func (d *Document) ApplyDefaults() {
	if d.SchedulingPolicy == "" {
		d.SchedulingPolicy = sim.PolicyNameFIFO
	}
	if d.AssignmentPolicy == "" {
		d.AssignmentPolicy = sim.AssignmentNameFIFO
	}
	if d.TimeSlice == 0 {
		d.TimeSlice = sim.DefaultTimeSlice
	}
	if d.FeedbackLevels == 0 {
		d.FeedbackLevels = sim.DefaultFeedbackLevels
	}
}

// PolicyConfig returns the policy selection of the document.
func (d *Document) PolicyConfig() sim.PolicyConfig {
	return sim.PolicyConfig{
		SchedulingPolicy: d.SchedulingPolicy,
		AssignmentPolicy: d.AssignmentPolicy,
		TimeSlice:        d.TimeSlice,
		FeedbackLevels:   d.FeedbackLevels,
		ICPP:             d.ICPP,
		Seed:             d.Seed,
	}
}

// SetPolicyConfig overwrites the policy selection of the document.
func (d *Document) SetPolicyConfig(pc sim.PolicyConfig) {
	d.SchedulingPolicy = pc.SchedulingPolicy
	d.AssignmentPolicy = pc.AssignmentPolicy
	d.TimeSlice = pc.TimeSlice
	d.FeedbackLevels = pc.FeedbackLevels
	d.ICPP = pc.ICPP
	d.Seed = pc.Seed
}

// Horizon bounds the busy time of a run: the latest activation plus every execution time.
func (d *Document) Horizon() int64 {
	var latest, total int64
	for _, p := range d.Processes {
		latest = max(latest, p.ActivationTime)
		total += p.ExecutionTime
	}
	return latest + total
}

// Build turns the document into an engine configuration. Access windows that break the
// overlap or collision rules are reported with the index of the offending access.
func (d *Document) Build() (*sim.Configuration, error) {
	cfg := sim.NewConfiguration(d.PolicyConfig())
	for i, p := range d.Processes {
		if _, err := cfg.AddProcess(p.Name, p.ActivationTime, p.ExecutionTime, p.Priority); err != nil {
			return nil, fmt.Errorf("process[%d]: %w", i, err)
		}
	}
	for i, r := range d.Resources {
		ceiling := 0
		if r.Ceiling != nil {
			ceiling = *r.Ceiling
		}
		if _, err := cfg.AddResource(r.Name, r.Multiplicity, r.Preemptive, ceiling); err != nil {
			return nil, fmt.Errorf("resource[%d]: %w", i, err)
		}
	}
	for i, a := range d.Accesses {
		if err := cfg.AddAccess(a.Process, a.Resource, a.RequestTime, a.Duration); err != nil {
			return nil, fmt.Errorf("access[%d]: %w", i, err)
		}
	}
	return cfg, nil
}

// FromConfiguration describes an engine configuration as a document.
func FromConfiguration(cfg *sim.Configuration) *Document {
	d := &Document{}
	d.SetPolicyConfig(cfg.Policy)
	for _, p := range cfg.Processes() {
		d.Processes = append(d.Processes, ProcessSpec{
			Name:           p.Name,
			ActivationTime: p.ActivationTime,
			ExecutionTime:  p.ExecutionTime,
			Priority:       p.Priority,
		})
	}
	for _, r := range cfg.Resources() {
		spec := ResourceSpec{Name: r.Name, Preemptive: r.Preemptive, Multiplicity: r.Multiplicity}
		if ceiling, ok := r.CeilingPriority(); ok {
			spec.Ceiling = &ceiling
		}
		d.Resources = append(d.Resources, spec)
	}
	for _, p := range cfg.Processes() {
		for _, w := range p.Accesses() {
			r, err := cfg.Resource(w.Resource)
			if err != nil {
				panic(fmt.Sprintf("FromConfiguration: %v", err))
			}
			d.Accesses = append(d.Accesses, AccessSpec{
				Process:     p.Name,
				Resource:    r.Name,
				RequestTime: w.RequestTime,
				Duration:    w.Duration,
			})
		}
	}
	return d
}

func decodeYAML(data []byte) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &doc, nil
}

func encodeYAML(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding scenario: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("encoding scenario: %w", err)
	}
	return buf.Bytes(), nil
}
