package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/sched-sim/sim/trace"
)

func runTwoProcess(t *testing.T) *trace.SimulationTrace {
	t.Helper()
	tr, err := runScenario(context.Background(), baseOptions(writeFile(t, "scenario.yaml", twoProcessYAML)), flagsSet())
	require.NoError(t, err)
	return tr
}

func TestWriteTrace_Table(t *testing.T) {
	tr := runTwoProcess(t)
	var buf bytes.Buffer

	require.NoError(t, writeTrace(&buf, tr, formatTable))

	out := buf.String()
	assert.Contains(t, out, tr.RunID)
	assert.Contains(t, out, "RUNNING")
	assert.Contains(t, out, "TURNAROUND")
	assert.Contains(t, out, "R1=P1", "holder column lists the lock owner")
	assert.Contains(t, out, "Total time 3")
	assert.NotContains(t, out, "DEADLOCK")
}

func TestWriteTrace_JSON(t *testing.T) {
	tr := runTwoProcess(t)
	var buf bytes.Buffer

	require.NoError(t, writeTrace(&buf, tr, formatJSON))

	var got struct {
		Trace   trace.SimulationTrace `json:"trace"`
		Summary trace.TraceSummary    `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, tr.RunID, got.Trace.RunID)
	assert.Len(t, got.Trace.States, len(tr.States))
	assert.Equal(t, int64(3), got.Summary.TotalTime)
	assert.Len(t, got.Summary.Processes, 2)
}

func TestWriteTrace_YAML(t *testing.T) {
	tr := runTwoProcess(t)
	var buf bytes.Buffer

	require.NoError(t, writeTrace(&buf, tr, formatYAML))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Contains(t, got, "trace")
	assert.Contains(t, got, "summary")
	assert.True(t, strings.Contains(buf.String(), "run_id: "+tr.RunID))
}

func TestWriteTrace_UnknownFormat(t *testing.T) {
	err := writeTrace(&bytes.Buffer{}, runTwoProcess(t), "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv")
}

func TestCells(t *testing.T) {
	p1 := trace.ProcessRef{ID: 1, Name: "P1"}
	p2 := trace.ProcessRef{ID: 2, Name: "P2"}
	st := &trace.State{
		Ready: []trace.ReadySegment{{Queue: 0}, {Queue: 1, Processes: []trace.ProcessRef{p1, p2}}},
		Resources: []trace.ResourceHolders{
			{Resource: "R1", Holders: []trace.ProcessRef{p1}},
			{Resource: "R2"},
		},
		Blocked:           []trace.BlockedQueue{{Resource: "R1", Requests: []trace.BlockedRequest{{Process: p2, Priority: 3}}}},
		Deadlock:          true,
		PriorityInversion: true,
	}

	assert.Equal(t, "-", runningName(st))
	assert.Equal(t, "1:P1,P2", readyCell(st))
	assert.Equal(t, "R1=P1", holdersCell(st))
	assert.Equal(t, "R1<P2", blockedCell(st))
	assert.Equal(t, "deadlock,inversion", flagsCell(st))
	assert.Equal(t, "-", timeCell(-1))
	assert.Equal(t, "4", timeCell(4))
}
