package scenario

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/sched-sim/sim"
	"github.com/inference-sim/sched-sim/sim/internal/testutil"
	"github.com/inference-sim/sched-sim/sim/trace"
)

// TestGoldenDataset runs every scenario of testdata/goldendataset.json end to end,
// from the document on disk to the run summary.
func TestGoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	require.NotEmpty(t, dataset.Tests)
	const relTol = 1e-9

	for _, tc := range dataset.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			doc, err := NewStore().Load(context.Background(), testutil.ScenarioPath(t, tc.Scenario))
			require.NoError(t, err)
			doc.ApplyDefaults()
			require.NoError(t, doc.Validate(ValidateOptions{}))
			cfg, err := doc.Build()
			require.NoError(t, err)

			tr := sim.NewSimulator(cfg).Run()
			summary := trace.Summarize(tr)
			want := tc.Metrics

			running := make([]string, 0, len(tr.States))
			times := make([]int64, 0, len(tr.States))
			for i, s := range tr.States {
				times = append(times, s.Time)
				if i == len(tr.States)-1 {
					break
				}
				if s.Running == nil {
					running = append(running, "-")
				} else {
					running = append(running, s.Running.Name)
				}
			}
			assert.Equal(t, want.Running, running)
			assert.Equal(t, want.StepTimes, times)
			assert.Equal(t, want.TotalTime, summary.TotalTime)
			assert.Equal(t, want.BusyTime, summary.BusyTime)
			assert.Equal(t, want.ContextSwitches, summary.ContextSwitches)
			assert.Len(t, tr.Final().Terminated, want.Terminated)
			assert.Equal(t, want.Deadlock, summary.Deadlock)
			testutil.AssertFloat64Equal(t, "mean_turnaround", want.MeanTurnaround, summary.MeanTurnaround, relTol)
			testutil.AssertFloat64Equal(t, "mean_waiting", want.MeanWaiting, summary.MeanWaiting, relTol)
		})
	}
}
