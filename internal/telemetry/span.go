package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// Span is a tracing span annotated with [Attr] attributes.
type Span struct {
	span     trace.Span
	recorder *Recorder
}

// StartSpan starts a new span and records the start of an operation.
//
// The operation is considered in-flight until the returned span ends.
func (r *Recorder) StartSpan(
	ctx context.Context,
	name string,
	attrs ...Attr,
) (context.Context, *Span) {
	ctx, s := r.tracer.Start(
		ctx,
		name,
		trace.WithAttributes(asAttrKeyValues(attrs)...),
	)

	r.operationCount(ctx, 1)
	r.operationsInFlightCount(ctx, 1)

	return ctx, &Span{s, r}
}

// SetAttributes sets attributes on the span.
func (s *Span) SetAttributes(attrs ...Attr) {
	s.span.SetAttributes(asAttrKeyValues(attrs)...)
}

// End completes the span and records the end of the operation.
func (s *Span) End() {
	s.recorder.operationsInFlightCount(context.Background(), -1)
	s.span.End()
}
