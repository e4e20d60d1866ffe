// Package telemetry wraps OpenTelemetry so a simulation run can be exported as a span:
// run-level attributes on the span, one span event per step.
package telemetry

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/inference-sim/sched-sim/sim/trace"
)

// ServiceName is the service.name resource attribute of every exported span.
const ServiceName = "sched-sim"

const instrumentation = "github.com/inference-sim/sched-sim"

// Tracer owns a tracer provider. Create one per process and Shutdown it before exit
// so pending spans are flushed.
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer
}

// New creates a Tracer exporting spans as JSON to w.
func New(serviceVersion string, w io.Writer) (*Tracer, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, err
	}
	return NewWithExporter(serviceVersion, exporter)
}

// NewWithExporter creates a Tracer on any OpenTelemetry span exporter and installs its
// provider as the global one.
func NewWithExporter(serviceVersion string, exporter sdktrace.SpanExporter) (*Tracer, error) {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", ServiceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return &Tracer{provider: tp, tracer: tp.Tracer(instrumentation)}, nil
}

// Shutdown flushes and stops the provider.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// Span is the span of one simulation run.
type Span struct {
	span oteltrace.Span
}

// StartRun opens the span of a run about to produce tr. A nil Tracer yields a nil
// Span, and every Span method accepts a nil receiver.
func (t *Tracer) StartRun(ctx context.Context, tr *trace.SimulationTrace) (context.Context, *Span) {
	if t == nil {
		return ctx, nil
	}
	ctx, span := t.tracer.Start(ctx, "simulation.run", oteltrace.WithSpanKind(oteltrace.SpanKindInternal))
	span.SetAttributes(
		attribute.String("run.id", tr.RunID),
		attribute.String("policy.scheduling", tr.Config.SchedulingPolicy),
		attribute.String("policy.assignment", tr.Config.AssignmentPolicy),
		attribute.Int64("policy.time_slice", tr.Config.TimeSlice),
		attribute.Bool("policy.icpp", tr.Config.ICPP),
	)
	return ctx, &Span{span: span}
}

// WithAttributes attaches string attributes to the span.
func (s *Span) WithAttributes(attrs map[string]string) *Span {
	if s == nil || len(attrs) == 0 {
		return s
	}
	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		kvs = append(kvs, attribute.String(k, v))
	}
	s.span.SetAttributes(kvs...)
	return s
}

// Finish records one event per state of tr, the run summary, and ends the span.
// A non-nil err marks the span as failed.
func (s *Span) Finish(tr *trace.SimulationTrace, err error) {
	if s == nil {
		return
	}
	if tr != nil {
		for i := range tr.States {
			st := &tr.States[i]
			s.span.AddEvent("step", oteltrace.WithAttributes(stepAttributes(st)...))
		}
		sum := trace.Summarize(tr)
		s.span.SetAttributes(
			attribute.Int("run.steps", sum.Steps),
			attribute.Int64("run.total_time", sum.TotalTime),
			attribute.Float64("run.utilization", sum.Utilization),
			attribute.Int("run.context_switches", sum.ContextSwitches),
			attribute.Bool("run.deadlock", sum.Deadlock),
		)
	}
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}

func stepAttributes(st *trace.State) []attribute.KeyValue {
	running := ""
	if st.Running != nil {
		running = st.Running.Name
	}
	return []attribute.KeyValue{
		attribute.Int("step.index", st.Index),
		attribute.Int64("step.time", st.Time),
		attribute.Int64("step.duration", st.Duration),
		attribute.String("step.running", running),
		attribute.Int("step.ready", st.ReadyCount()),
		attribute.Int("step.terminated", len(st.Terminated)),
		attribute.Bool("step.deadlock", st.Deadlock),
		attribute.Bool("step.ceiling_violation", st.CeilingViolation),
		attribute.Bool("step.priority_inversion", st.PriorityInversion),
	}
}
