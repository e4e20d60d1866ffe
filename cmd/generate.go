package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/sched-sim/sim/scenario"
)

var (
	genOpts   = scenario.DefaultGenerateOptions()
	genOutput string
	genFormat string
)

// generateCmd draws a random valid scenario.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a random valid scenario",
	Long:  "Generate a seeded random scenario that passes validation. The document is written to --output, or to stdout when no output is given.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := generateScenario(cmd.Context(), genOpts, genOutput, genFormat, stdout); err != nil {
			logrus.Fatalf("Generation failed: %v", err)
		}
	},
}

// generateScenario writes a generated document to out, or to w when out is empty.
func generateScenario(ctx context.Context, opts scenario.GenerateOptions, out, format string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	doc, err := scenario.Generate(opts)
	if err != nil {
		return err
	}
	if out != "" {
		return scenario.NewStore().Save(ctx, out, doc)
	}
	f := scenario.Format(format)
	if f != scenario.FormatYAML && f != scenario.FormatXML {
		return fmt.Errorf("unknown scenario format %q (want %s or %s)", format, scenario.FormatYAML, scenario.FormatXML)
	}
	data, err := scenario.Encode(doc, f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func init() {
	f := generateCmd.Flags()
	f.Int64Var(&genOpts.Seed, "seed", 0, "Generator seed; also the scenario's assignment seed")
	f.IntVar(&genOpts.Processes, "processes", genOpts.Processes, "Number of processes")
	f.IntVar(&genOpts.Resources, "resources", genOpts.Resources, "Number of resources")
	f.IntVar(&genOpts.AccessesPerProcess, "accesses", genOpts.AccessesPerProcess, "Access windows attempted per process")
	f.Int64Var(&genOpts.MaxActivation, "max-activation", genOpts.MaxActivation, "Latest activation time")
	f.Int64Var(&genOpts.MaxExecution, "max-execution", genOpts.MaxExecution, "Longest execution time")
	f.StringVar(&genOpts.Policy.SchedulingPolicy, "scheduling-policy", genOpts.Policy.SchedulingPolicy, "Scheduling policy written into the scenario")
	f.StringVar(&genOpts.Policy.AssignmentPolicy, "assignment-policy", genOpts.Policy.AssignmentPolicy, "Assignment policy written into the scenario")
	f.Int64Var(&genOpts.Policy.TimeSlice, "time-slice", genOpts.Policy.TimeSlice, "Time slice written into the scenario")
	f.BoolVar(&genOpts.Policy.ICPP, "icpp", false, "Enable ICPP in the scenario")
	f.StringVar(&genOutput, "output", "", "Destination scenario URL; stdout when empty")
	f.StringVar(&genFormat, "format", string(scenario.FormatYAML), "Stdout format (yaml, xml)")
	rootCmd.AddCommand(generateCmd)
}
