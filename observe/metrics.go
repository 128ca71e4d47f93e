package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/scopekit/scope"
)

// scopeMetrics records exit and guard metrics for scoped blocks.
type scopeMetrics struct {
	meter        metric.Meter
	exitTotal    metric.Int64Counter
	exitFailures metric.Int64Counter
	guardFired   metric.Int64Counter
	guardErrors  metric.Int64Counter
	durationHist metric.Float64Histogram
}

func newScopeMetrics(meter metric.Meter) (*scopeMetrics, error) {
	exitTotal, err := meter.Int64Counter(
		"scope.exit.total",
		metric.WithDescription("Total number of scoped block exits"),
		metric.WithUnit("{exit}"),
	)
	if err != nil {
		return nil, err
	}

	exitFailures, err := meter.Int64Counter(
		"scope.exit.failures",
		metric.WithDescription("Total number of failing scoped block exits"),
		metric.WithUnit("{exit}"),
	)
	if err != nil {
		return nil, err
	}

	guardFired, err := meter.Int64Counter(
		"scope.guard.fired",
		metric.WithDescription("Total number of guard actions that ran"),
		metric.WithUnit("{guard}"),
	)
	if err != nil {
		return nil, err
	}

	guardErrors, err := meter.Int64Counter(
		"scope.guard.errors",
		metric.WithDescription("Total number of guard actions that returned an error"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"scope.duration_ms",
		metric.WithDescription("Scoped block duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &scopeMetrics{
		meter:        meter,
		exitTotal:    exitTotal,
		exitFailures: exitFailures,
		guardFired:   guardFired,
		guardErrors:  guardErrors,
		durationHist: durationHist,
	}, nil
}

func (m *scopeMetrics) recordExit(ctx context.Context, name string, failed bool, duration time.Duration) {
	opt := metric.WithAttributes(attribute.String("scope.name", name))

	m.exitTotal.Add(ctx, 1, opt)
	if failed {
		m.exitFailures.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

func (m *scopeMetrics) recordGuard(ctx context.Context, name string, kind scope.Kind, err error) {
	opt := metric.WithAttributes(
		attribute.String("scope.name", name),
		attribute.String("guard.kind", kind.String()),
	)

	m.guardFired.Add(ctx, 1, opt)
	if err != nil {
		m.guardErrors.Add(ctx, 1, opt)
	}
}
