package agent

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"roomservice/session"
)

// InstrumentedOrchestrator wraps an Orchestrator with tracing and metrics.
type InstrumentedOrchestrator struct {
	inner  *Orchestrator
	tracer trace.Tracer
	meter  metric.Meter
}

// NewInstrumentedOrchestrator initializes a new instrumented orchestrator.
func NewInstrumentedOrchestrator(inner *Orchestrator, tracer trace.Tracer, meter metric.Meter) *InstrumentedOrchestrator {
	return &InstrumentedOrchestrator{
		inner:  inner,
		tracer: tracer,
		meter:  meter,
	}
}

// State exposes the underlying session state.
func (o *InstrumentedOrchestrator) State() *session.State {
	return o.inner.State()
}

// Turn runs one conversation turn with full instrumentation.
func (o *InstrumentedOrchestrator) Turn(ctx context.Context, userInput string) (string, error) {
	ctx, span := o.tracer.Start(ctx, "Orchestrator.Turn", trace.WithAttributes(
		attribute.String("session.id", o.inner.State().ID),
		attribute.Int("session.messages", len(o.inner.State().Messages)),
	))
	defer span.End()

	turnsCounter, _ := o.meter.Int64Counter("agent_turns_total",
		metric.WithDescription("Total number of conversation turns started"))
	turnsFailedCounter, _ := o.meter.Int64Counter("agent_turns_failed_total",
		metric.WithDescription("Total number of conversation turns that failed"))
	messagesGauge, _ := o.meter.Int64Gauge("agent_messages_in_session",
		metric.WithDescription("Number of messages in the current session"))
	consecErrorsGauge, _ := o.meter.Int64Gauge("agent_consecutive_tool_errors",
		metric.WithDescription("Current consecutive tool error count for the session"))

	turnsCounter.Add(ctx, 1)

	reply, err := o.inner.Turn(ctx, userInput)

	messagesGauge.Record(ctx, int64(len(o.inner.State().Messages)))
	consecErrorsGauge.Record(ctx, int64(o.inner.State().ConsecutiveToolErrors))

	if err != nil {
		turnsFailedCounter.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	span.SetAttributes(attribute.Int("reply.length", len(reply)))
	return reply, nil
}
