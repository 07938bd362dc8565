// Package telemetry wires spans around a turn, a tool call, a retry
// attempt, and a recovery decision, grounded on
// itsneelabh-gomind/telemetry/otel.go's OTelProvider (trimmed to span
// creation: no OTLP exporter wiring is in scope here, so the tracer
// provider uses the SDK's default no-op-exporting setup and callers attach
// their own span processor when they want spans shipped anywhere).
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/pawelhaladyj/opti-agents"

// Provider owns a TracerProvider and exposes the one Tracer the rest of the
// module needs.
type Provider struct {
	tp     *sdktrace.TracerProvider
	tracer trace.Tracer
}

// NewProvider builds a Provider. Pass additional sdktrace.TracerProviderOption
// values (e.g. a span processor wrapping a real exporter) to ship spans
// somewhere; with none, spans are created and ended but never exported.
func NewProvider(opts ...sdktrace.TracerProviderOption) *Provider {
	tp := sdktrace.NewTracerProvider(opts...)
	return &Provider{tp: tp, tracer: tp.Tracer(instrumentationName)}
}

// Shutdown flushes and stops the underlying TracerProvider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}

// StartTurn opens a "turn" span tagged with the correlation id.
// Orchestrator.Handle does not call it. A nil Provider is a valid no-op
// receiver — callers needn't guard every call site.
func (p *Provider) StartTurn(ctx context.Context, correlationID string) (context.Context, trace.Span) {
	if p == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return p.tracer.Start(ctx, "turn", trace.WithAttributes(
		attribute.String("correlation_id", correlationID),
	))
}

// StartToolCall opens a "tool_call" span for a tool name and actor.
// CallToolWithTrace does not call it.
func (p *Provider) StartToolCall(ctx context.Context, toolName, actor string) (context.Context, trace.Span) {
	if p == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return p.tracer.Start(ctx, "tool_call", trace.WithAttributes(
		attribute.String("tool.name", toolName),
		attribute.String("actor", actor),
	))
}

// StartRetryAttempt opens a span covering one Retry Engine attempt.
func (p *Provider) StartRetryAttempt(ctx context.Context, toolName string, attemptNo int) (context.Context, trace.Span) {
	if p == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return p.tracer.Start(ctx, "retry_attempt", trace.WithAttributes(
		attribute.String("tool.name", toolName),
		attribute.Int("attempt", attemptNo),
	))
}

// StartRecovery opens a span covering one RecoveryAgent.ProposeFix call.
func (p *Provider) StartRecovery(ctx context.Context, toolName string) (context.Context, trace.Span) {
	if p == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return p.tracer.Start(ctx, "recovery", trace.WithAttributes(
		attribute.String("tool.name", toolName),
	))
}

// RecordFixPlan annotates span with the recovery outcome.
func RecordFixPlan(span trace.Span, action, reason string) {
	span.SetAttributes(
		attribute.String("fixplan.action", action),
		attribute.String("fixplan.reason", reason),
	)
}

// Global returns the process-wide tracer registered via otel.SetTracerProvider,
// falling back to the package-level no-op tracer when nothing is registered.
func Global() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
