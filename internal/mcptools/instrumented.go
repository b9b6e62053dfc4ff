package mcptools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/inboxsift/inboxsift/internal/instrumentation"
)

// toolHandler aliases the library's handler signature so wrapped handlers
// stay assignable to MCPServer.AddTool.
type toolHandler = mcpserver.ToolHandlerFunc

// instrumented wraps a tool handler with invocation metrics and audit
// logging. A tool result flagged as an error counts as a failed
// invocation even when the handler returns nil.
func instrumented(toolName string, deps Deps, handler toolHandler) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		ctx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()

		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithUser(deps.OwnerEmail)

		// Mutating handlers annotate the invocation with the action,
		// target, and affected count through the context.
		ctx = instrumentation.ContextWithInvocation(ctx, invocation)

		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			invocation.Complete(false, nil)
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		if deps.Metrics != nil {
			deps.Metrics.RecordToolInvocation(ctx, toolName, status, duration)
		}
		if deps.Audit != nil {
			deps.Audit.LogToolInvocation(invocation)
		}

		return result, err
	}
}
