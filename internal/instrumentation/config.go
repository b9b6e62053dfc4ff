package instrumentation

import (
	"fmt"
	"os"
	"strconv"
)

// Config controls telemetry export. All fields have environment-driven
// defaults; see DefaultConfig.
type Config struct {
	// ServiceName identifies this service in exported telemetry.
	ServiceName string

	// ServiceVersion is stamped onto the telemetry resource.
	ServiceVersion string

	// ServiceInstanceID distinguishes instances; empty means hostname.
	ServiceInstanceID string

	// Enabled turns all metrics and tracing on or off.
	Enabled bool

	// MetricsExporter selects "prometheus" or "stdout".
	MetricsExporter string

	// TracingExporter selects "stdout" or "none".
	TracingExporter string

	// TraceSamplingRate is the head sampling ratio, 0.0 to 1.0.
	TraceSamplingRate float64

	// PrometheusEndpoint is the metrics scrape path.
	PrometheusEndpoint string

	// DetailedLabels adds higher-cardinality labels such as sender
	// domains. Keep off in production.
	DetailedLabels bool
}

// DefaultConfig reads the environment and fills in defaults: prometheus
// metrics on /metrics, tracing off, 10% sampling when enabled.
func DefaultConfig() Config {
	return Config{
		ServiceName:        getEnvOrDefault("OTEL_SERVICE_NAME", "inboxsift"),
		ServiceVersion:     "unknown",
		ServiceInstanceID:  getEnvOrDefault("OTEL_SERVICE_INSTANCE_ID", ""),
		Enabled:            getEnvBoolOrDefault("INSTRUMENTATION_ENABLED", true),
		MetricsExporter:    getEnvOrDefault("METRICS_EXPORTER", ExporterPrometheus),
		TracingExporter:    getEnvOrDefault("TRACING_EXPORTER", ExporterNone),
		TraceSamplingRate:  getEnvFloatOrDefault("OTEL_TRACES_SAMPLER_ARG", 0.1),
		PrometheusEndpoint: getEnvOrDefault("PROMETHEUS_ENDPOINT", "/metrics"),
		DetailedLabels:     getEnvBoolOrDefault("METRICS_DETAILED_LABELS", false),
	}
}

// Validate rejects sampling rates outside [0, 1] and unknown exporters.
func (c *Config) Validate() error {
	if c.TraceSamplingRate < 0 || c.TraceSamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0.0 and 1.0, got %f", c.TraceSamplingRate)
	}

	switch c.MetricsExporter {
	case "", ExporterPrometheus, ExporterStdout:
	default:
		return fmt.Errorf("invalid metrics exporter %q, must be one of: prometheus, stdout", c.MetricsExporter)
	}

	switch c.TracingExporter {
	case "", ExporterStdout, ExporterNone:
	default:
		return fmt.Errorf("invalid tracing exporter %q, must be one of: stdout, none", c.TracingExporter)
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// Metric label values.
const (
	// Operation status
	StatusSuccess = "success"
	StatusError   = "error"

	// OAuth flow results
	OAuthResultSuccess = "success"
	OAuthResultFailure = "failure"

	// Exporter selectors
	ExporterPrometheus = "prometheus"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"
)
