package instrumentation

import (
	"context"
	"testing"
	"time"
)

func testProvider(t *testing.T, detailedLabels bool) *Provider {
	t.Helper()
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
		DetailedLabels:  detailedLabels,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })
	return provider
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	ctx := context.Background()
	metrics := testProvider(t, false).Metrics()

	// Should not panic
	metrics.RecordHTTPRequest(ctx, "GET", "/senders", 200, 100*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "POST", "/plan/execute", 500, 50*time.Millisecond)
}

func TestMetrics_RecordGmailOperation(t *testing.T) {
	ctx := context.Background()
	metrics := testProvider(t, false).Metrics()

	metrics.RecordGmailOperation(ctx, OperationList, StatusSuccess, 200*time.Millisecond)
	metrics.RecordGmailOperation(ctx, OperationTrash, StatusError, 500*time.Millisecond)
}

func TestMetrics_RecordCleanupAction(t *testing.T) {
	ctx := context.Background()
	metrics := testProvider(t, false).Metrics()

	metrics.RecordCleanupAction(ctx, "unsubscribe", StatusSuccess, "deals@shop.example", 42)
	metrics.RecordCleanupAction(ctx, "delete", StatusError, "deals@shop.example", 0)
}

func TestMetrics_RecordCleanupAction_DetailedLabels(t *testing.T) {
	ctx := context.Background()
	metrics := testProvider(t, true).Metrics()

	metrics.RecordCleanupAction(ctx, "unsubscribe", StatusSuccess, "deals@shop.example", 10)
}

func TestMetrics_RecordCategoryWipe(t *testing.T) {
	ctx := context.Background()
	metrics := testProvider(t, false).Metrics()

	metrics.RecordCategoryWipe(ctx, "promotions", StatusSuccess, 300)
	metrics.RecordCategoryWipe(ctx, "updates", StatusSuccess, 0)
}

func TestMetrics_RecordUnsubscribeRequest(t *testing.T) {
	ctx := context.Background()
	metrics := testProvider(t, false).Metrics()

	metrics.RecordUnsubscribeRequest(ctx, StatusSuccess)
	metrics.RecordUnsubscribeRequest(ctx, StatusError)
}

func TestMetrics_RecordOAuthAuth(t *testing.T) {
	ctx := context.Background()
	metrics := testProvider(t, false).Metrics()

	metrics.RecordOAuthAuth(ctx, OAuthResultSuccess)
	metrics.RecordOAuthAuth(ctx, OAuthResultFailure)
}

func TestMetrics_RecordToolInvocation(t *testing.T) {
	ctx := context.Background()
	metrics := testProvider(t, false).Metrics()

	metrics.RecordToolInvocation(ctx, "list_senders", StatusSuccess, 100*time.Millisecond)
	metrics.RecordToolInvocation(ctx, "execute_action", StatusError, 2*time.Second)
}

func TestMetrics_NoOp_WhenDisabled(t *testing.T) {
	ctx := context.Background()
	metrics := &Metrics{} // uninitialized, all recorders nil

	// None of these may panic.
	metrics.RecordHTTPRequest(ctx, "GET", "/senders", 200, time.Millisecond)
	metrics.RecordGmailOperation(ctx, OperationList, StatusSuccess, time.Millisecond)
	metrics.RecordCleanupAction(ctx, "delete", StatusSuccess, "", 1)
	metrics.RecordCategoryWipe(ctx, "promotions", StatusSuccess, 1)
	metrics.RecordUnsubscribeRequest(ctx, StatusSuccess)
	metrics.RecordOAuthAuth(ctx, OAuthResultSuccess)
	metrics.RecordToolInvocation(ctx, "scan_summary", StatusSuccess, time.Millisecond)
}
