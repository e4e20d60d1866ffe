package cmd

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/inference-sim/sched-sim/sim"
)

// policiesCmd lists the accepted policy names.
var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List scheduling and assignment policies",
	Run: func(cmd *cobra.Command, args []string) {
		writePolicies(stdout)
	},
}

func writePolicies(w io.Writer) {
	rows := make([][]string, 0, len(sim.SchedulingPolicyNames)+len(sim.AssignmentPolicyNames))
	for _, name := range sim.SchedulingPolicyNames {
		kind, _ := sim.ParsePolicyKind(name)
		slice := "no"
		if kind.TimeSharing() {
			slice = "yes"
		}
		rows = append(rows, []string{"scheduling", name, slice})
	}
	for _, name := range sim.AssignmentPolicyNames {
		rows = append(rows, []string{"assignment", name, "-"})
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Kind", "Name", "Time Slice"})
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

func init() {
	rootCmd.AddCommand(policiesCmd)
}
