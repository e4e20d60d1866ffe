package scenario

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/sched-sim/sim"
)

func TestDecode_XML_ReadsConfigurationSchema(t *testing.T) {
	doc, err := Decode([]byte(configurationXML), FormatXML)
	require.NoError(t, err)

	assert.Equal(t, sim.PolicyNamePreemptiveHPF, doc.SchedulingPolicy)
	assert.Equal(t, sim.AssignmentNamePriority, doc.AssignmentPolicy)
	assert.Equal(t, int64(3), doc.TimeSlice)
	assert.True(t, doc.ICPP)
	assert.Equal(t, []ProcessSpec{
		{Name: "A", ActivationTime: 0, ExecutionTime: 6, Priority: 2},
		{Name: "B", ActivationTime: 2, ExecutionTime: 3, Priority: 9},
	}, doc.Processes)
	require.Len(t, doc.Resources, 2)
	require.NotNil(t, doc.Resources[0].Ceiling)
	assert.Equal(t, 9, *doc.Resources[0].Ceiling)
	assert.Nil(t, doc.Resources[1].Ceiling, "-- means no ceiling")
	assert.Equal(t, []AccessSpec{{Process: "A", Resource: "lock", RequestTime: 1, Duration: 3}}, doc.Accesses)
}

func TestDecode_XML_BadCeiling(t *testing.T) {
	bad := strings.Replace(configurationXML, "<ceilingPriority>9</ceilingPriority>", "<ceilingPriority>high</ceilingPriority>", 1)
	_, err := Decode([]byte(bad), FormatXML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resource[0].ceilingPriority")
}

func TestEncode_XML_PreemptiveCeilingIsDashes(t *testing.T) {
	ceiling := 4
	doc := &Document{
		SchedulingPolicy: sim.PolicyNameFIFO,
		AssignmentPolicy: sim.AssignmentNameFIFO,
		TimeSlice:        2,
		Processes:        []ProcessSpec{{Name: "A", ExecutionTime: 3, Priority: 1}},
		Resources: []ResourceSpec{
			{Name: "fpu", Preemptive: true, Multiplicity: 1},
			{Name: "lock", Multiplicity: 1, Ceiling: &ceiling},
		},
	}

	out, err := Encode(doc, FormatXML)
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, "<?xml"))
	assert.Contains(t, text, "<ceilingPriority>--</ceilingPriority>")
	assert.Contains(t, text, "<ceilingPriority>4</ceilingPriority>")
	assert.Contains(t, text, "<basePriority>1</basePriority>")

	back, err := Decode(out, FormatXML)
	require.NoError(t, err)
	assert.Equal(t, doc, back)
}

func TestXMLToYAML_PreservesDocument(t *testing.T) {
	doc, err := Decode([]byte(configurationXML), FormatXML)
	require.NoError(t, err)

	y, err := Encode(doc, FormatYAML)
	require.NoError(t, err)
	back, err := Decode(y, FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, doc, back)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatXML, FormatFor("/tmp/a.xml"))
	assert.Equal(t, FormatXML, FormatFor("file:///tmp/A.XML"))
	assert.Equal(t, FormatYAML, FormatFor("mem://localhost/a.yaml"))
	assert.Equal(t, FormatYAML, FormatFor("scenario"))
}

func TestDecode_UnknownFormat(t *testing.T) {
	_, err := Decode([]byte("x"), Format("toml"))
	assert.Error(t, err)
	_, err = Encode(&Document{}, Format("toml"))
	assert.Error(t, err)
}
