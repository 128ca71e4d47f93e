package observe

import (
	"context"
	"errors"
	"strings"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jonwraymond/scopekit/scope"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing service name",
			cfg:     Config{},
			wantErr: "service name",
		},
		{
			name: "valid minimal",
			cfg:  Config{ServiceName: "svc"},
		},
		{
			name: "unknown tracing exporter",
			cfg: Config{
				ServiceName: "svc",
				Tracing:     TracingConfig{Enabled: true, Exporter: "bogus"},
			},
			wantErr: "unknown tracing exporter",
		},
		{
			name: "sample percentage out of range",
			cfg: Config{
				ServiceName: "svc",
				Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.5},
			},
			wantErr: "sample percentage",
		},
		{
			name: "unknown metrics exporter",
			cfg: Config{
				ServiceName: "svc",
				Metrics:     MetricsConfig{Enabled: true, Exporter: "bogus"},
			},
			wantErr: "unknown metrics exporter",
		},
		{
			name: "unknown log level",
			cfg: Config{
				ServiceName: "svc",
				Logging:     LoggingConfig{Enabled: true, Level: "loud"},
			},
			wantErr: "unknown log level",
		},
		{
			name: "valid full",
			cfg: Config{
				ServiceName: "svc",
				Version:     "1.0.0",
				Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.0},
				Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
				Logging:     LoggingConfig{Enabled: true, Level: "debug"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestNew_AllDisabled(t *testing.T) {
	obs, err := New(context.Background(), Config{ServiceName: "svc"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if obs == nil {
		t.Fatal("New() returned nil observer")
	}

	// Observing with everything disabled must still be safe.
	runErr := scope.Run(func(s *scope.Scope) error {
		s.OnExit(func() error { return nil })
		return nil
	}, scope.WithObserver(obs))
	if runErr != nil {
		t.Errorf("Run() error = %v", runErr)
	}

	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if err == nil {
		t.Fatal("New() with empty config should fail validation")
	}
}

func TestScopeObserver_RecordsSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(context.Background())

	obs, err := NewWithTelemetry(tp.Tracer("test"), nil, nil)
	if err != nil {
		t.Fatalf("NewWithTelemetry() error = %v", err)
	}

	wantErr := errors.New("boom")
	_ = scope.Run(func(s *scope.Scope) error {
		s.OnFailure(func() error { return nil })
		return wantErr
	}, scope.WithName("job"), scope.WithObserver(obs))

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(spans))
	}

	span := spans[0]
	if got := span.Name(); got != "scope.run.job" {
		t.Errorf("span name = %q, want scope.run.job", got)
	}
	if span.Status().Code.String() != "Error" {
		t.Errorf("span status = %v, want Error", span.Status().Code)
	}

	var sawGuardEvent bool
	for _, ev := range span.Events() {
		if ev.Name == "guard.fired" {
			sawGuardEvent = true
		}
	}
	if !sawGuardEvent {
		t.Error("span has no guard.fired event")
	}
}

func TestScopeObserver_NestedSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(context.Background())

	obs, err := NewWithTelemetry(tp.Tracer("test"), nil, nil)
	if err != nil {
		t.Fatalf("NewWithTelemetry() error = %v", err)
	}

	_ = scope.Run(func(outer *scope.Scope) error {
		return outer.Run(func(inner *scope.Scope) error {
			return nil
		}, scope.WithName("inner"))
	}, scope.WithName("outer"), scope.WithObserver(obs))

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("recorded %d spans, want 2", len(spans))
	}

	// Inner span ends first and must be a child of the outer span.
	inner, outer := spans[0], spans[1]
	if inner.Name() != "scope.run.inner" || outer.Name() != "scope.run.outer" {
		t.Fatalf("span names = %q, %q", inner.Name(), outer.Name())
	}
	if inner.Parent().SpanID() != outer.SpanContext().SpanID() {
		t.Error("inner span is not a child of the outer span")
	}
}

func TestScopeObserver_RecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	obs, err := NewWithTelemetry(nil, mp.Meter("test"), nil)
	if err != nil {
		t.Fatalf("NewWithTelemetry() error = %v", err)
	}

	_ = scope.Run(func(s *scope.Scope) error {
		s.OnExit(func() error { return nil })
		return errors.New("boom")
	}, scope.WithName("job"), scope.WithObserver(obs))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			sums[m.Name] = total
		}
	}

	if sums["scope.exit.total"] != 1 {
		t.Errorf("scope.exit.total = %d, want 1", sums["scope.exit.total"])
	}
	if sums["scope.exit.failures"] != 1 {
		t.Errorf("scope.exit.failures = %d, want 1", sums["scope.exit.failures"])
	}
	if sums["scope.guard.fired"] != 1 {
		t.Errorf("scope.guard.fired = %d, want 1", sums["scope.guard.fired"])
	}
	if sums["scope.guard.errors"] != 0 {
		t.Errorf("scope.guard.errors = %d, want 0", sums["scope.guard.errors"])
	}
}
