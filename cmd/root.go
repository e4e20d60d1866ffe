package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/sched-sim/sim"
	"github.com/inference-sim/sched-sim/sim/scenario"
	"github.com/inference-sim/sched-sim/sim/telemetry"
	"github.com/inference-sim/sched-sim/sim/trace"
)

// version is stamped on exported spans.
var version = "dev"

// runOptions holds the flags of `sched-sim run`.
type runOptions struct {
	configURL        string // scenario document URL (.yaml or .xml)
	policyConfig     string // optional YAML policy bundle applied over the document
	logLevel         string // log verbosity level
	format           string // trace output format: table, json or yaml
	schedulingPolicy string
	assignmentPolicy string
	timeSlice        int64
	feedbackLevels   int
	icpp             bool
	seed             int64
	maxDuration      int64  // bound on the scenario horizon; 0 disables it
	traceOutput      string // OpenTelemetry span output file; empty disables tracing
	lenient          bool   // accept unknown policy names
}

var runOpts runOptions

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "sched-sim",
	Short: "Discrete-event simulator for CPU scheduling and resource contention",
}

// runCmd executes the simulation of one scenario document
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scheduling scenario and print its step trace",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel(runOpts.logLevel)
		if runOpts.configURL == "" {
			logrus.Fatalf("Scenario not provided. Use --config to point at a YAML or XML document.")
		}
		tr, err := runScenario(cmd.Context(), runOpts, cmd.Flags().Changed)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := writeTrace(stdout, tr, runOpts.format); err != nil {
			logrus.Fatalf("writing trace: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

func setLogLevel(name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", name)
	}
	logrus.SetLevel(level)
}

// loadDocument reads the scenario and layers the policy bundle and the explicitly set
// flags over it. changed reports whether a flag was given on the command line.
func loadDocument(ctx context.Context, opts runOptions, changed func(string) bool) (*scenario.Document, error) {
	doc, err := scenario.NewStore().Load(ctx, opts.configURL)
	if err != nil {
		return nil, err
	}
	if opts.policyConfig != "" {
		bundle, err := sim.LoadPolicyBundle(opts.policyConfig)
		if err != nil {
			return nil, err
		}
		if err := bundle.Validate(); err != nil {
			return nil, fmt.Errorf("policy config %s: %w", opts.policyConfig, err)
		}
		pc := doc.PolicyConfig()
		bundle.Apply(&pc)
		doc.SetPolicyConfig(pc)
	}
	applyOverrides(doc, opts, changed)
	doc.ApplyDefaults()
	return doc, nil
}

func applyOverrides(doc *scenario.Document, opts runOptions, changed func(string) bool) {
	if changed("scheduling-policy") {
		doc.SchedulingPolicy = opts.schedulingPolicy
	}
	if changed("assignment-policy") {
		doc.AssignmentPolicy = opts.assignmentPolicy
	}
	if changed("time-slice") {
		doc.TimeSlice = opts.timeSlice
	}
	if changed("feedback-levels") {
		doc.FeedbackLevels = opts.feedbackLevels
	}
	if changed("icpp") {
		doc.ICPP = opts.icpp
	}
	if changed("seed") {
		doc.Seed = opts.seed
	}
}

// runScenario loads, validates and simulates one scenario.
func runScenario(ctx context.Context, opts runOptions, changed func(string) bool) (*trace.SimulationTrace, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	doc, err := loadDocument(ctx, opts, changed)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(scenario.ValidateOptions{Lenient: opts.lenient, MaxDuration: opts.maxDuration}); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", opts.configURL, err)
	}
	cfg, err := doc.Build()
	if err != nil {
		return nil, err
	}

	tracer, closeTracer, err := openTracer(opts.traceOutput)
	if err != nil {
		return nil, err
	}
	defer closeTracer()

	logrus.Infof("Starting simulation of %s: %d processes, %d resources, %d accesses, policy=%q",
		opts.configURL, len(doc.Processes), len(doc.Resources), len(doc.Accesses), doc.SchedulingPolicy)
	s := sim.NewSimulator(cfg)
	_, span := tracer.StartRun(ctx, s.Trace)
	span.WithAttributes(map[string]string{"config.url": opts.configURL})
	tr := s.Run()
	span.Finish(tr, nil)
	if tr.Deadlocked() {
		logrus.Warnf("Run %s ended in deadlock at t=%d", tr.RunID, tr.Final().Time)
	}
	return tr, nil
}

// openTracer creates a span exporter writing to path. An empty path disables tracing.
func openTracer(path string) (*telemetry.Tracer, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating trace output: %w", err)
	}
	tracer, err := telemetry.New(version, f)
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("creating tracer: %w", err)
	}
	return tracer, func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			logrus.Warnf("flushing trace output: %v", err)
		}
		_ = f.Close()
	}, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// stdout is swapped by tests.
var stdout io.Writer = os.Stdout

// init sets up CLI flags and subcommands
func init() {
	f := runCmd.Flags()
	f.StringVar(&runOpts.configURL, "config", "", "Scenario document URL (.yaml or .xml)")
	f.StringVar(&runOpts.policyConfig, "policy-config", "", "YAML policy bundle applied over the scenario")
	f.StringVar(&runOpts.logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	f.StringVar(&runOpts.format, "format", formatTable, "Trace output format (table, json, yaml)")

	// Policy overrides; only flags given explicitly replace the document values
	f.StringVar(&runOpts.schedulingPolicy, "scheduling-policy", sim.PolicyNameFIFO, "Scheduling policy name (list them with: sched-sim policies)")
	f.StringVar(&runOpts.assignmentPolicy, "assignment-policy", sim.AssignmentNameFIFO, "Resource assignment policy name")
	f.Int64Var(&runOpts.timeSlice, "time-slice", sim.DefaultTimeSlice, "Quantum of time-sharing policies")
	f.IntVar(&runOpts.feedbackLevels, "feedback-levels", sim.DefaultFeedbackLevels, "Level count of multilevel feedback policies")
	f.BoolVar(&runOpts.icpp, "icpp", false, "Enable the Immediate Ceiling Priority Protocol")
	f.Int64Var(&runOpts.seed, "seed", 0, "Seed for the Random assignment policy")

	f.Int64Var(&runOpts.maxDuration, "max-duration", 0, "Reject scenarios whose horizon exceeds this many time units (0 = unlimited)")
	f.StringVar(&runOpts.traceOutput, "trace-output", "", "Write an OpenTelemetry span of the run to this file")
	f.BoolVar(&runOpts.lenient, "lenient", false, "Accept unknown policy names and fall back to First In First Out")

	rootCmd.AddCommand(runCmd)
}
