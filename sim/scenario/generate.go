package scenario

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/sched-sim/sim"
)

// GenerateOptions parameterizes random scenario generation.
type GenerateOptions struct {
	Seed               int64
	Processes          int
	Resources          int
	AccessesPerProcess int   // attempted windows per process; rejected windows are dropped
	MaxActivation      int64 // activation times are drawn from [0, MaxActivation]
	MaxExecution       int64 // execution times are drawn from [1, MaxExecution]
	Policy             sim.PolicyConfig
}

// DefaultGenerateOptions returns a small FIFO scenario shape.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Processes:          5,
		Resources:          2,
		AccessesPerProcess: 2,
		MaxActivation:      10,
		MaxExecution:       10,
		Policy: sim.PolicyConfig{
			SchedulingPolicy: sim.PolicyNameFIFO,
			AssignmentPolicy: sim.AssignmentNameFIFO,
			TimeSlice:        sim.DefaultTimeSlice,
			FeedbackLevels:   sim.DefaultFeedbackLevels,
		},
	}
}

// Generate draws a random scenario. The same options always produce the same document,
// and the document always passes Validate.
func Generate(opts GenerateOptions) (*Document, error) {
	if opts.Processes < 1 {
		return nil, fmt.Errorf("processes must be at least 1, got %d", opts.Processes)
	}
	if opts.Resources < 0 {
		return nil, fmt.Errorf("resources must be non-negative, got %d", opts.Resources)
	}
	if opts.MaxExecution < 1 {
		return nil, fmt.Errorf("max execution must be at least 1, got %d", opts.MaxExecution)
	}
	if opts.MaxActivation < 0 {
		return nil, fmt.Errorf("max activation must be non-negative, got %d", opts.MaxActivation)
	}
	rng := sim.NewStreams(opts.Seed).Stream(sim.StreamScenario)
	priority := func() int { return sim.MinPriority + rng.Intn(sim.MaxPriority-sim.MinPriority+1) }

	pc := opts.Policy
	pc.Seed = opts.Seed
	cfg := sim.NewConfiguration(pc)
	for i := 0; i < opts.Processes; i++ {
		name := fmt.Sprintf("P%d", cfg.NextProcessID())
		if _, err := cfg.AddProcess(name, rng.Int63n(opts.MaxActivation+1), 1+rng.Int63n(opts.MaxExecution), priority()); err != nil {
			return nil, err
		}
	}
	for i := 0; i < opts.Resources; i++ {
		preemptive := rng.Intn(3) == 0
		if _, err := cfg.AddResource(fmt.Sprintf("R%d", i+1), 1+rng.Intn(2), preemptive, priority()); err != nil {
			return nil, err
		}
	}
	if opts.Resources > 0 {
		for _, p := range cfg.Processes() {
			for j := 0; j < opts.AccessesPerProcess; j++ {
				res := cfg.Resources()[rng.Intn(opts.Resources)]
				req := rng.Int63n(p.ExecutionTime)
				dur := 1 + rng.Int63n(p.ExecutionTime-req)
				if err := cfg.AddAccess(p.Name, res.Name, req, dur); err != nil {
					logrus.Debugf("generate: dropped access of %s to %s: %v", p.Name, res.Name, err)
				}
			}
		}
	}

	doc := FromConfiguration(cfg)
	doc.ApplyDefaults()
	if err := doc.Validate(ValidateOptions{}); err != nil {
		return nil, fmt.Errorf("generated scenario is invalid: %w", err)
	}
	return doc, nil
}
