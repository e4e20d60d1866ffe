package trace

import "sort"

// ProcessSummary aggregates the timing of one process across a trace.
// Times for processes that never terminated are measured up to the end of the trace.
type ProcessSummary struct {
	ProcessRef `yaml:",inline"`
	Arrival    int64 `json:"arrival" yaml:"arrival"`
	FirstRun   int64 `json:"first_run" yaml:"first_run"` // -1 if the process never ran
	Finish     int64 `json:"finish" yaml:"finish"`       // -1 if the process never terminated
	RunTime    int64 `json:"run_time" yaml:"run_time"`
	Turnaround int64 `json:"turnaround" yaml:"turnaround"`
	Waiting    int64 `json:"waiting" yaml:"waiting"`
	Response   int64 `json:"response" yaml:"response"`
}

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	Steps              int              `json:"steps" yaml:"steps"`
	TotalTime          int64            `json:"total_time" yaml:"total_time"`
	BusyTime           int64            `json:"busy_time" yaml:"busy_time"`
	IdleTime           int64            `json:"idle_time" yaml:"idle_time"`
	Utilization        float64          `json:"utilization" yaml:"utilization"`
	ContextSwitches    int              `json:"context_switches" yaml:"context_switches"`
	Deadlock           bool             `json:"deadlock" yaml:"deadlock"`
	CeilingViolations  int              `json:"ceiling_violations" yaml:"ceiling_violations"`
	PriorityInversions int              `json:"priority_inversions" yaml:"priority_inversions"`
	MeanTurnaround     float64          `json:"mean_turnaround" yaml:"mean_turnaround"`
	MeanWaiting        float64          `json:"mean_waiting" yaml:"mean_waiting"`
	P90Turnaround      float64          `json:"p90_turnaround" yaml:"p90_turnaround"`
	P90Waiting         float64          `json:"p90_waiting" yaml:"p90_waiting"`
	Processes          []ProcessSummary `json:"processes" yaml:"processes"`
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{Processes: make([]ProcessSummary, 0)}
	if st == nil || len(st.States) == 0 {
		return summary
	}

	procs := make(map[int]*ProcessSummary)
	lastRunning := -1
	for i := range st.States {
		s := &st.States[i]
		if s.Duration > 0 {
			summary.Steps++
		}
		summary.TotalTime += s.Duration
		if s.CeilingViolation {
			summary.CeilingViolations++
		}
		if s.PriorityInversion {
			summary.PriorityInversions++
		}
		for _, p := range s.Processes {
			if _, ok := procs[p.ID]; !ok {
				procs[p.ID] = &ProcessSummary{ProcessRef: p.ProcessRef, Arrival: s.Time, FirstRun: -1, Finish: -1}
			}
		}
		for _, p := range s.Terminated {
			if ps, ok := procs[p.ID]; ok && ps.Finish < 0 {
				ps.Finish = s.Time
			}
		}
		if s.Running == nil {
			summary.IdleTime += s.Duration
			continue
		}
		summary.BusyTime += s.Duration
		ps := procs[s.Running.ID]
		if ps != nil {
			if ps.FirstRun < 0 {
				ps.FirstRun = s.Time
			}
			ps.RunTime += s.Duration
		}
		if s.Running.ID != lastRunning {
			if lastRunning >= 0 {
				summary.ContextSwitches++
			}
			lastRunning = s.Running.ID
		}
	}

	final := st.Final()
	summary.Deadlock = final.Deadlock
	end := final.Time + final.Duration
	if summary.TotalTime > 0 {
		summary.Utilization = float64(summary.BusyTime) / float64(summary.TotalTime)
	}

	turnarounds := make([]int64, 0, len(procs))
	waits := make([]int64, 0, len(procs))
	for _, ps := range procs {
		finish := ps.Finish
		if finish < 0 {
			finish = end
		}
		ps.Turnaround = finish - ps.Arrival
		ps.Waiting = ps.Turnaround - ps.RunTime
		if ps.FirstRun >= 0 {
			ps.Response = ps.FirstRun - ps.Arrival
		}
		turnarounds = append(turnarounds, ps.Turnaround)
		waits = append(waits, ps.Waiting)
		summary.Processes = append(summary.Processes, *ps)
	}
	sort.Slice(summary.Processes, func(i, j int) bool {
		return summary.Processes[i].ID < summary.Processes[j].ID
	})
	summary.MeanTurnaround = Mean(turnarounds)
	summary.MeanWaiting = Mean(waits)
	summary.P90Turnaround = Percentile(turnarounds, 90)
	summary.P90Waiting = Percentile(waits, 90)
	return summary
}
