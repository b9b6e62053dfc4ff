package instrumentation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Provider owns the OpenTelemetry meter and tracer providers for the
// process. A disabled Provider hands out no-op recorders so callers never
// have to branch on whether telemetry is on.
type Provider struct {
	config             Config
	meterProvider      *metric.MeterProvider
	tracerProvider     *sdktrace.TracerProvider
	metrics            *Metrics
	prometheusExporter *prometheus.Exporter
	enabled            bool
}

// NewProvider wires up exporters per config and installs the resulting
// providers as the process-wide OpenTelemetry defaults.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	if !config.Enabled {
		return &Provider{config: config, metrics: &Metrics{}}, nil
	}

	res, err := newResource(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("build telemetry resource: %w", err)
	}

	p := &Provider{config: config, enabled: true}

	reader, promExporter, err := newMetricReader(config.MetricsExporter)
	if err != nil {
		return nil, err
	}
	p.prometheusExporter = promExporter
	p.meterProvider = metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(reader),
	)

	p.tracerProvider, err = newTracerProvider(config, res)
	if err != nil {
		err = errors.Join(err, p.meterProvider.Shutdown(ctx))
		return nil, err
	}

	otel.SetMeterProvider(p.meterProvider)
	otel.SetTracerProvider(p.tracerProvider)

	meter := p.meterProvider.Meter(config.ServiceName)
	if p.metrics, err = NewMetrics(meter, config.DetailedLabels); err != nil {
		_ = p.Shutdown(ctx)
		return nil, fmt.Errorf("build metrics recorder: %w", err)
	}

	return p, nil
}

// newResource describes this service instance. The instance ID falls back
// to the hostname when not configured.
func newResource(ctx context.Context, config Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(config.ServiceVersion),
	}
	instanceID := config.ServiceInstanceID
	if instanceID == "" {
		instanceID, _ = os.Hostname()
	}
	if instanceID != "" {
		attrs = append(attrs, semconv.ServiceInstanceID(instanceID))
	}
	return resource.New(ctx, resource.WithAttributes(attrs...))
}

// newMetricReader builds the metric reader for the configured exporter.
// The prometheus exporter is returned separately because it registers
// collectors that the metrics HTTP endpoint serves.
func newMetricReader(exporter string) (metric.Reader, *prometheus.Exporter, error) {
	switch exporter {
	case ExporterPrometheus:
		promExporter, err := prometheus.New()
		if err != nil {
			return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
		}
		return promExporter, promExporter, nil

	case ExporterStdout:
		slog.Warn("stdout metrics exporter is for local debugging only",
			"component", "instrumentation")
		stdout, err := stdoutmetric.New()
		if err != nil {
			return nil, nil, fmt.Errorf("create stdout metrics exporter: %w", err)
		}
		return metric.NewPeriodicReader(stdout), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown metrics exporter %q", exporter)
	}
}

func newTracerProvider(config Config, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	if config.TracingExporter == ExporterNone {
		return sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sdktrace.NeverSample()),
		), nil
	}

	var exporter sdktrace.SpanExporter
	switch config.TracingExporter {
	case ExporterStdout:
		slog.Warn("stdout trace exporter is for local debugging only",
			"component", "instrumentation")
		stdout, err := stdouttrace.New()
		if err != nil {
			return nil, fmt.Errorf("create stdout trace exporter: %w", err)
		}
		exporter = stdout

	default:
		return nil, fmt.Errorf("unknown tracing exporter %q", config.TracingExporter)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(
			sdktrace.TraceIDRatioBased(config.TraceSamplingRate),
		)),
	), nil
}

// Metrics returns the metrics recorder. Never nil; a disabled provider
// returns a no-op recorder.
func (p *Provider) Metrics() *Metrics {
	return p.metrics
}

// Tracer returns a tracer for creating spans.
func (p *Provider) Tracer(name string) trace.Tracer {
	if !p.enabled || p.tracerProvider == nil {
		return noop.NewTracerProvider().Tracer(name)
	}
	return p.tracerProvider.Tracer(name)
}

// Shutdown flushes pending telemetry and releases exporter resources.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.enabled {
		return nil
	}

	var errs []error
	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown meter provider: %w", err))
		}
	}
	if p.tracerProvider != nil {
		if err := p.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer provider: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Enabled reports whether telemetry export is active.
func (p *Provider) Enabled() bool {
	return p.enabled
}
