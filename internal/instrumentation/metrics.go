package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrAction    = "action"
	attrCategory  = "category"
	attrResult    = "result"
	attrTool      = "tool"
	attrDomain    = "sender_domain"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Gmail API metrics
	gmailOperationsTotal   metric.Int64Counter
	gmailOperationDuration metric.Float64Histogram

	// Cleanup action metrics
	actionsTotal          metric.Int64Counter
	actionMessagesTotal   metric.Int64Counter
	unsubscribeLinksTotal metric.Int64Counter

	// OAuth metrics
	oauthAuthTotal metric.Int64Counter

	// MCP tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.gmailOperationsTotal, err = meter.Int64Counter(
		"gmail_api_operations_total",
		metric.WithDescription("Total number of Gmail API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail_api_operations_total counter: %w", err)
	}

	m.gmailOperationDuration, err = meter.Float64Histogram(
		"gmail_api_operation_duration_seconds",
		metric.WithDescription("Gmail API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail_api_operation_duration_seconds histogram: %w", err)
	}

	m.actionsTotal, err = meter.Int64Counter(
		"cleanup_actions_total",
		metric.WithDescription("Total number of executed cleanup actions"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cleanup_actions_total counter: %w", err)
	}

	m.actionMessagesTotal, err = meter.Int64Counter(
		"cleanup_messages_affected_total",
		metric.WithDescription("Total number of messages affected by cleanup actions"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cleanup_messages_affected_total counter: %w", err)
	}

	m.unsubscribeLinksTotal, err = meter.Int64Counter(
		"unsubscribe_requests_total",
		metric.WithDescription("Total number of fired unsubscribe links"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create unsubscribe_requests_total counter: %w", err)
	}

	m.oauthAuthTotal, err = meter.Int64Counter(
		"oauth_auth_total",
		metric.WithDescription("Total number of OAuth authentication attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_auth_total counter: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordGmailOperation records a Gmail API operation.
//
// Parameters:
//   - operation: Operation type (list, get, trash, modify, profile, labels)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation
func (m *Metrics) RecordGmailOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m.gmailOperationsTotal == nil || m.gmailOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.gmailOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.gmailOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordCleanupAction records one executed cleanup action and its impact.
// The sender's domain is only attached when detailed labels are enabled;
// full addresses never reach the metrics pipeline.
func (m *Metrics) RecordCleanupAction(ctx context.Context, action, status, senderEmail string, affected int) {
	if m.actionsTotal == nil || m.actionMessagesTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrAction, action),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels && senderEmail != "" {
		attrs = append(attrs, attribute.String(attrDomain, ExtractUserDomain(senderEmail)))
	}

	m.actionsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	if affected > 0 {
		m.actionMessagesTotal.Add(ctx, int64(affected), metric.WithAttributes(
			attribute.String(attrAction, action)))
	}
}

// RecordCategoryWipe records a category wipe and its impact.
func (m *Metrics) RecordCategoryWipe(ctx context.Context, category, status string, affected int) {
	if m.actionsTotal == nil || m.actionMessagesTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrAction, "wipe"),
		attribute.String(attrCategory, category),
		attribute.String(attrStatus, status),
	}

	m.actionsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	if affected > 0 {
		m.actionMessagesTotal.Add(ctx, int64(affected), metric.WithAttributes(
			attribute.String(attrAction, "wipe")))
	}
}

// RecordUnsubscribeRequest records one fired unsubscribe link.
// Result should be one of: "success", "failure"
func (m *Metrics) RecordUnsubscribeRequest(ctx context.Context, result string) {
	if m.unsubscribeLinksTotal == nil {
		return // Instrumentation not initialized
	}

	m.unsubscribeLinksTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrResult, result)))
}

// RecordOAuthAuth records an OAuth authentication attempt with result.
// Result should be one of: "success", "failure"
func (m *Metrics) RecordOAuthAuth(ctx context.Context, result string) {
	if m.oauthAuthTotal == nil {
		return // Instrumentation not initialized
	}

	m.oauthAuthTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrResult, result)))
}

// RecordToolInvocation records an MCP tool invocation with tool name, status, and duration.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
