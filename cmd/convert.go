package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/sched-sim/sim/scenario"
)

var (
	convertInput  string
	convertOutput string
)

// convertCmd rewrites a scenario document in the format of the output extension.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a scenario between YAML and XML",
	Long:  "Convert a scenario document between YAML and the XML configuration schema. The format of each side is picked from its extension (.xml is XML, anything else YAML).",
	Run: func(cmd *cobra.Command, args []string) {
		if err := convertScenario(cmd.Context(), convertInput, convertOutput); err != nil {
			logrus.Fatalf("Conversion failed: %v", err)
		}
	},
}

// convertScenario loads, validates and saves a document. The policy defaults are filled
// in so the output is complete.
func convertScenario(ctx context.Context, in, out string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if in == "" || out == "" {
		return fmt.Errorf("both --input and --output are required")
	}
	store := scenario.NewStore()
	doc, err := store.Load(ctx, in)
	if err != nil {
		return err
	}
	doc.ApplyDefaults()
	if err := doc.Validate(scenario.ValidateOptions{Lenient: true}); err != nil {
		return fmt.Errorf("invalid scenario %s: %w", in, err)
	}
	if err := store.Save(ctx, out, doc); err != nil {
		return err
	}
	logrus.Infof("Converted %s (%s) to %s (%s)", in, scenario.FormatFor(in), out, scenario.FormatFor(out))
	return nil
}

func init() {
	convertCmd.Flags().StringVar(&convertInput, "input", "", "Source scenario URL")
	convertCmd.Flags().StringVar(&convertOutput, "output", "", "Destination scenario URL")
	rootCmd.AddCommand(convertCmd)
}
