package scenario

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// noCeiling is the ceilingPriority text of a preemptive resource.
const noCeiling = "--"

type xmlConfiguration struct {
	XMLName          xml.Name      `xml:"configuration"`
	SchedulingPolicy string        `xml:"schedulingPolicy"`
	AssignmentPolicy string        `xml:"assignmentPolicy"`
	TimeSlice        int64         `xml:"timeSlice"`
	ICPP             bool          `xml:"icpp"`
	FeedbackLevels   int           `xml:"feedbackLevels,omitempty"`
	Seed             int64         `xml:"seed,omitempty"`
	Processes        []xmlProcess  `xml:"processes>process"`
	Resources        []xmlResource `xml:"resources>resource"`
	Accesses         []xmlAccess   `xml:"accesses>access"`
}

type xmlProcess struct {
	Name           string `xml:"name"`
	ActivationTime int64  `xml:"activationTime"`
	ExecutionTime  int64  `xml:"executionTime"`
	BasePriority   int    `xml:"basePriority"`
}

type xmlResource struct {
	Name            string `xml:"name"`
	Preemptive      bool   `xml:"preemptive"`
	Multiplicity    int    `xml:"multiplicity"`
	CeilingPriority string `xml:"ceilingPriority"`
}

type xmlAccess struct {
	ProcessName     string `xml:"processName"`
	ResourceName    string `xml:"resourceName"`
	RequestTime     int64  `xml:"requestTime"`
	RequestDuration int64  `xml:"requestDuration"`
}

func decodeXML(data []byte) (*Document, error) {
	var x xmlConfiguration
	if err := xml.Unmarshal(data, &x); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	doc := &Document{
		SchedulingPolicy: x.SchedulingPolicy,
		AssignmentPolicy: x.AssignmentPolicy,
		TimeSlice:        x.TimeSlice,
		ICPP:             x.ICPP,
		FeedbackLevels:   x.FeedbackLevels,
		Seed:             x.Seed,
	}
	for _, p := range x.Processes {
		doc.Processes = append(doc.Processes, ProcessSpec{
			Name:           p.Name,
			ActivationTime: p.ActivationTime,
			ExecutionTime:  p.ExecutionTime,
			Priority:       p.BasePriority,
		})
	}
	for i, r := range x.Resources {
		spec := ResourceSpec{Name: r.Name, Preemptive: r.Preemptive, Multiplicity: r.Multiplicity}
		text := strings.TrimSpace(r.CeilingPriority)
		if text != noCeiling && text != "" {
			ceiling, err := strconv.Atoi(text)
			if err != nil {
				return nil, fmt.Errorf("parsing scenario: resource[%d].ceilingPriority %q is not a number", i, text)
			}
			spec.Ceiling = &ceiling
		}
		doc.Resources = append(doc.Resources, spec)
	}
	for _, a := range x.Accesses {
		doc.Accesses = append(doc.Accesses, AccessSpec{
			Process:     a.ProcessName,
			Resource:    a.ResourceName,
			RequestTime: a.RequestTime,
			Duration:    a.RequestDuration,
		})
	}
	return doc, nil
}

func encodeXML(doc *Document) ([]byte, error) {
	x := xmlConfiguration{
		SchedulingPolicy: doc.SchedulingPolicy,
		AssignmentPolicy: doc.AssignmentPolicy,
		TimeSlice:        doc.TimeSlice,
		ICPP:             doc.ICPP,
		FeedbackLevels:   doc.FeedbackLevels,
		Seed:             doc.Seed,
	}
	for _, p := range doc.Processes {
		x.Processes = append(x.Processes, xmlProcess{
			Name:           p.Name,
			ActivationTime: p.ActivationTime,
			ExecutionTime:  p.ExecutionTime,
			BasePriority:   p.Priority,
		})
	}
	for _, r := range doc.Resources {
		ceiling := noCeiling
		if !r.Preemptive && r.Ceiling != nil {
			ceiling = strconv.Itoa(*r.Ceiling)
		}
		x.Resources = append(x.Resources, xmlResource{
			Name:            r.Name,
			Preemptive:      r.Preemptive,
			Multiplicity:    r.Multiplicity,
			CeilingPriority: ceiling,
		})
	}
	for _, a := range doc.Accesses {
		x.Accesses = append(x.Accesses, xmlAccess{
			ProcessName:     a.Process,
			ResourceName:    a.Resource,
			RequestTime:     a.RequestTime,
			RequestDuration: a.Duration,
		})
	}
	out, err := xml.MarshalIndent(x, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding scenario: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}
