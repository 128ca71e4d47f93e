package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/scopekit/scope"
)

// startTimeKey carries the scope's entry time through the context so the
// exit callback can record a duration without shared per-scope state.
type startTimeKey struct{}

// spanName returns the deterministic span name for a scoped block.
// Format: scope.run.<name>
func spanName(name string) string {
	return "scope.run." + name
}

// ScopeEnter starts a span for the scoped block and returns the derived
// context, so nested scopes become child spans.
func (o *ScopeObserver) ScopeEnter(ctx context.Context, name string) context.Context {
	ctx = context.WithValue(ctx, startTimeKey{}, time.Now())
	ctx, _ = o.tracer.Start(ctx, spanName(name),
		trace.WithAttributes(attribute.String("scope.name", name)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	o.logger.Debug(ctx, "scope enter", Field{Key: "scope.name", Value: name})
	return ctx
}

// GuardFired records a guard firing as a span event and a counter bump,
// logging the action's error if it had one.
func (o *ScopeObserver) GuardFired(ctx context.Context, scopeName string, kind scope.Kind, err error) {
	span := trace.SpanFromContext(ctx)
	attrs := []attribute.KeyValue{
		attribute.String("scope.name", scopeName),
		attribute.String("guard.kind", kind.String()),
	}
	span.AddEvent("guard.fired", trace.WithAttributes(attrs...))
	if err != nil {
		span.RecordError(err)
		o.logger.Error(ctx, "guard action failed",
			Field{Key: "scope.name", Value: scopeName},
			Field{Key: "guard.kind", Value: kind.String()},
			Field{Key: "error", Value: err.Error()},
		)
	}
	if o.metrics != nil {
		o.metrics.recordGuard(ctx, scopeName, kind, err)
	}
}

// ScopeExit closes the block's span with the exit status and records exit
// metrics.
func (o *ScopeObserver) ScopeExit(ctx context.Context, name string, failed bool, err error) {
	span := trace.SpanFromContext(ctx)
	if failed {
		msg := "scope failed"
		if err != nil {
			msg = err.Error()
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, msg)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()

	var duration time.Duration
	if start, ok := ctx.Value(startTimeKey{}).(time.Time); ok {
		duration = time.Since(start)
	}
	if o.metrics != nil {
		o.metrics.recordExit(ctx, name, failed, duration)
	}

	fields := []Field{
		{Key: "scope.name", Value: name},
		{Key: "failed", Value: failed},
		{Key: "duration_ms", Value: duration.Milliseconds()},
	}
	if failed {
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
		}
		o.logger.Warn(ctx, "scope exit", fields...)
		return
	}
	o.logger.Debug(ctx, "scope exit", fields...)
}
