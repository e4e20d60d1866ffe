package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/sched-sim/sim/trace"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// traceOutput is the document written by the json and yaml formats.
type traceOutput struct {
	Trace   *trace.SimulationTrace `json:"trace" yaml:"trace"`
	Summary *trace.TraceSummary    `json:"summary" yaml:"summary"`
}

// writeTrace renders a finished run in the requested format.
func writeTrace(w io.Writer, tr *trace.SimulationTrace, format string) error {
	summary := trace.Summarize(tr)
	switch format {
	case formatTable:
		writeStepTable(w, tr)
		writeSummaryTable(w, summary)
		return nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(traceOutput{Trace: tr, Summary: summary})
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(traceOutput{Trace: tr, Summary: summary}); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want %s, %s or %s)", format, formatTable, formatJSON, formatYAML)
	}
}

func writeStepTable(w io.Writer, tr *trace.SimulationTrace) {
	fmt.Fprintf(w, "Run %s: %s, assignment %s, time slice %d, ICPP %t\n",
		tr.RunID, tr.Config.SchedulingPolicy, tr.Config.AssignmentPolicy, tr.Config.TimeSlice, tr.Config.ICPP)
	rows := make([][]string, 0, len(tr.States))
	for i := range tr.States {
		st := &tr.States[i]
		rows = append(rows, []string{
			strconv.Itoa(st.Index),
			strconv.FormatInt(st.Time, 10),
			strconv.FormatInt(st.Duration, 10),
			runningName(st),
			readyCell(st),
			holdersCell(st),
			blockedCell(st),
			flagsCell(st),
		})
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Step", "Time", "Len", "Running", "Ready", "Holders", "Blocked", "Flags"})
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

func writeSummaryTable(w io.Writer, s *trace.TraceSummary) {
	rows := make([][]string, 0, len(s.Processes))
	for _, p := range s.Processes {
		rows = append(rows, []string{
			p.Name,
			strconv.FormatInt(p.Arrival, 10),
			timeCell(p.FirstRun),
			timeCell(p.Finish),
			strconv.FormatInt(p.RunTime, 10),
			strconv.FormatInt(p.Turnaround, 10),
			strconv.FormatInt(p.Waiting, 10),
			strconv.FormatInt(p.Response, 10),
		})
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Process", "Arrival", "First Run", "Finish", "Run", "Turnaround", "Waiting", "Response"})
	table.AppendBulk(rows)
	table.SetFooter([]string{"", "", "", "", "Average",
		strconv.FormatFloat(s.MeanTurnaround, 'f', 2, 64),
		strconv.FormatFloat(s.MeanWaiting, 'f', 2, 64),
		"",
	})
	table.Render()
	fmt.Fprintf(w, "P90 turnaround %.2f, P90 waiting %.2f\n", s.P90Turnaround, s.P90Waiting)
	fmt.Fprintf(w, "Total time %d, busy %d, idle %d, utilization %.2f%%, context switches %d\n",
		s.TotalTime, s.BusyTime, s.IdleTime, 100*s.Utilization, s.ContextSwitches)
	if s.Deadlock {
		fmt.Fprintln(w, "Run ended in DEADLOCK")
	}
	if s.CeilingViolations > 0 || s.PriorityInversions > 0 {
		fmt.Fprintf(w, "Ceiling violations %d, priority inversions %d\n", s.CeilingViolations, s.PriorityInversions)
	}
}

func runningName(st *trace.State) string {
	if st.Running == nil {
		return "-"
	}
	return st.Running.Name
}

func readyCell(st *trace.State) string {
	segs := make([]string, 0, len(st.Ready))
	for _, seg := range st.Ready {
		if len(seg.Processes) == 0 {
			continue
		}
		segs = append(segs, fmt.Sprintf("%d:%s", seg.Queue, joinRefs(seg.Processes)))
	}
	return strings.Join(segs, " ")
}

func holdersCell(st *trace.State) string {
	parts := make([]string, 0, len(st.Resources))
	for _, r := range st.Resources {
		if len(r.Holders) == 0 {
			continue
		}
		parts = append(parts, r.Resource+"="+joinRefs(r.Holders))
	}
	return strings.Join(parts, " ")
}

func blockedCell(st *trace.State) string {
	parts := make([]string, 0, len(st.Blocked))
	for _, q := range st.Blocked {
		names := make([]string, 0, len(q.Requests))
		for _, r := range q.Requests {
			names = append(names, r.Process.Name)
		}
		parts = append(parts, q.Resource+"<"+strings.Join(names, ","))
	}
	return strings.Join(parts, " ")
}

func flagsCell(st *trace.State) string {
	var flags []string
	if st.Deadlock {
		flags = append(flags, "deadlock")
	}
	if st.CeilingViolation {
		flags = append(flags, "ceiling")
	}
	if st.PriorityInversion {
		flags = append(flags, "inversion")
	}
	return strings.Join(flags, ",")
}

func joinRefs(refs []trace.ProcessRef) string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.Name
	}
	return strings.Join(names, ",")
}

func timeCell(t int64) string {
	if t < 0 {
		return "-"
	}
	return strconv.FormatInt(t, 10)
}
