// Package instrumentation provides OpenTelemetry instrumentation for the
// inboxsift service.
//
// # Metrics
//
// The package exposes the following metric categories:
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Gmail API Metrics:
//   - gmail_api_operations_total: Counter of Gmail API operations by operation, status
//   - gmail_api_operation_duration_seconds: Histogram of Gmail API operation durations
//
// Cleanup Metrics:
//   - cleanup_actions_total: Counter of executed actions by action and status
//   - cleanup_messages_affected_total: Counter of messages touched per action
//   - unsubscribe_requests_total: Counter of fired unsubscribe links by result
//
// OAuth Authentication Metrics:
//   - oauth_auth_total: Counter of OAuth authentication events by result
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Spans are created for HTTP request handling, MCP tool invocations
// (tool.<name>), and Gmail API calls (gmail.<operation>).
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (stdout, none, default: none)
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: inboxsift)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "inboxsift",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//		MetricsExporter: instrumentation.ExporterPrometheus,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordHTTPRequest(ctx, "GET", "/senders", 200, time.Since(start))
package instrumentation
