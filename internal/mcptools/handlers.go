package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/inboxsift/inboxsift/internal/instrumentation"
	"github.com/inboxsift/inboxsift/internal/logging"
	"github.com/inboxsift/inboxsift/internal/scanner"
	"github.com/inboxsift/inboxsift/internal/store"
)

func handleListSenders(deps Deps) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		opts := scanner.ListOptions{}
		if category, ok := args["category"].(string); ok {
			opts.Category = category
		}
		if pageToken, ok := args["pageToken"].(string); ok {
			opts.PageToken = pageToken
		}
		if raw, ok := args["maxResults"].(float64); ok {
			if raw <= 0 {
				return mcp.NewToolResultError("'maxResults' must be a positive number"), nil
			}
			opts.MaxResults = int(raw)
		}

		sc, _, err := ownerScanner(ctx, deps)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		page, err := sc.ListSenders(ctx, opts)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list senders: %v", err)), nil
		}

		if len(page.Senders) == 0 {
			return mcp.NewToolResultText("No senders found in the scanned range."), nil
		}

		var result strings.Builder
		result.WriteString(fmt.Sprintf("Found %d sender(s):\n\n", len(page.Senders)))
		for i, p := range page.Senders {
			result.WriteString(fmt.Sprintf("%d. %s <%s>\n", i+1, p.Name, p.Email))
			result.WriteString(fmt.Sprintf("   Total: %d, Unread: %d\n", p.TotalEmails, p.UnreadCount))
			result.WriteString(fmt.Sprintf("   Suggested action: %s\n", p.SuggestedAction))
			if p.ListUnsubscribe != "" {
				result.WriteString(fmt.Sprintf("   List-Unsubscribe: %s\n", p.ListUnsubscribe))
			}
			result.WriteString("\n")
		}
		if page.NextPageToken != "" {
			result.WriteString(fmt.Sprintf("More senders available; pass pageToken=%q to continue.\n", page.NextPageToken))
		}

		return mcp.NewToolResultText(result.String()), nil
	}
}

func handleScanSummary(deps Deps) toolHandler {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sc, _, err := ownerScanner(ctx, deps)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		summary, err := sc.Summary(ctx, scanner.UseFallback)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to compute summary: %v", err)), nil
		}

		var result strings.Builder
		result.WriteString("Mailbox summary:\n\n")
		result.WriteString(fmt.Sprintf("Total emails scanned: %d\n", summary.TotalEmailsScanned))
		result.WriteString(fmt.Sprintf("Total unread: %d\n", summary.TotalUnread))
		for category, count := range summary.UnreadByCategory {
			result.WriteString(fmt.Sprintf("Unread in %s: %d\n", category, count))
		}
		result.WriteString(fmt.Sprintf("Estimated cleanup potential: %d%%\n", summary.EstimatedCleanupPercent))

		return mcp.NewToolResultText(result.String()), nil
	}
}

func handleExecuteAction(deps Deps) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		targetEmail, ok := args["targetEmail"].(string)
		if !ok || targetEmail == "" {
			return mcp.NewToolResultError("'targetEmail' field is required"), nil
		}
		actionType, ok := args["actionType"].(string)
		if !ok || actionType == "" {
			return mcp.NewToolResultError("'actionType' field is required"), nil
		}
		switch scanner.Action(actionType) {
		case scanner.ActionKeep, scanner.ActionDelete, scanner.ActionUnsubscribe:
		default:
			return mcp.NewToolResultError(fmt.Sprintf("Unsupported actionType %q; use 'keep', 'delete', or 'unsubscribe'", actionType)), nil
		}
		listUnsubscribe, _ := args["listUnsubscribe"].(string)

		sc, user, err := ownerScanner(ctx, deps)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := sc.ExecuteSenderAction(ctx, targetEmail, scanner.Action(actionType), listUnsubscribe)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to execute action: %v", err)), nil
		}

		if ti := instrumentation.InvocationFromContext(ctx); ti != nil {
			ti.WithAction(actionType, targetEmail).WithAffected(result.MessagesAffected)
		}
		appendAudit(ctx, deps, store.AuditLog{
			UserID:   user.ID,
			Action:   actionType,
			Target:   targetEmail,
			Affected: result.MessagesAffected,
			Status:   result.Status,
		})

		return mcp.NewToolResultText(fmt.Sprintf("Executed %s against %s: %d message(s) affected.", actionType, targetEmail, result.MessagesAffected)), nil
	}
}

func handleWipeCategory(deps Deps) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		category, ok := args["category"].(string)
		if !ok || category == "" {
			return mcp.NewToolResultError("'category' field is required"), nil
		}

		sc, user, err := ownerScanner(ctx, deps)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := sc.ExecuteCategoryWipe(ctx, category)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to wipe category: %v", err)), nil
		}

		if ti := instrumentation.InvocationFromContext(ctx); ti != nil {
			ti.WithAction("wipe_category", category).WithAffected(result.MessagesAffected)
		}
		appendAudit(ctx, deps, store.AuditLog{
			UserID:   user.ID,
			Action:   "wipe_category",
			Target:   category,
			Affected: result.MessagesAffected,
			Status:   result.Status,
		})

		return mcp.NewToolResultText(fmt.Sprintf("Wiped category %s: %d message(s) trashed.", category, result.MessagesAffected)), nil
	}
}

// appendAudit records an executed mutation, logging instead of failing
// the tool call when the write does not land.
func appendAudit(ctx context.Context, deps Deps, entry store.AuditLog) {
	if _, err := deps.Store.AppendAudit(ctx, entry); err != nil {
		deps.Logger.Error("audit write failed",
			logging.Operation("mcptools.audit"),
			logging.Err(err))
	}
}
