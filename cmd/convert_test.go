package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/sched-sim/sim/scenario"
)

func TestConvertScenario_YAMLToXMLAndBack(t *testing.T) {
	ctx := context.Background()
	src := writeFile(t, "scenario.yaml", twoProcessYAML)
	dir := t.TempDir()
	xmlPath := filepath.Join(dir, "scenario.xml")
	backPath := filepath.Join(dir, "back.yaml")

	// WHEN a YAML scenario is converted to XML and back
	require.NoError(t, convertScenario(ctx, src, xmlPath))
	require.NoError(t, convertScenario(ctx, xmlPath, backPath))

	// THEN the XML file uses the configuration schema
	data, err := os.ReadFile(xmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<configuration>")
	assert.Contains(t, string(data), "<ceilingPriority>5</ceilingPriority>")

	// AND the round trip preserves the document
	store := scenario.NewStore()
	want, err := store.Load(ctx, src)
	require.NoError(t, err)
	want.ApplyDefaults()
	got, err := store.Load(ctx, backPath)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestConvertScenario_Errors(t *testing.T) {
	ctx := context.Background()
	out := filepath.Join(t.TempDir(), "out.xml")

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{name: "missing input flag", in: "", out: out},
		{name: "missing output flag", in: writeFile(t, "a.yaml", twoProcessYAML), out: ""},
		{name: "input does not exist", in: filepath.Join(t.TempDir(), "absent.yaml"), out: out},
		{name: "invalid input", in: writeFile(t, "bad.yaml", "processes: []\n"), out: out},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, convertScenario(ctx, tc.in, tc.out))
		})
	}
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err), "failed conversions write nothing")
}
