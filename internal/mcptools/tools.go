package mcptools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/inboxsift/inboxsift/internal/google"
	"github.com/inboxsift/inboxsift/internal/instrumentation"
	"github.com/inboxsift/inboxsift/internal/scanner"
	"github.com/inboxsift/inboxsift/internal/store"
)

// ErrNotAuthenticated is returned when the owner has not completed the
// OAuth flow yet.
var ErrNotAuthenticated = errors.New("owner credential not found; complete the OAuth flow first")

// Store is the subset of the persistence layer the tools need.
type Store interface {
	GetUserByEmail(ctx context.Context, email string) (*store.User, error)
	AppendAudit(ctx context.Context, entry store.AuditLog) (*store.AuditLog, error)
}

// MailboxFactory builds a Mailbox for a stored credential.
type MailboxFactory func(ctx context.Context, cred google.Credential) (scanner.Mailbox, error)

// Deps carries the dependencies shared by all tools.
type Deps struct {
	OwnerEmail string
	Store      Store
	NewMailbox MailboxFactory
	Logger     *slog.Logger
	Metrics    *instrumentation.Metrics
	Audit      *instrumentation.AuditLogger
}

// Register registers all inbox tools with the MCP server.
func Register(s *mcpserver.MCPServer, deps Deps) error {
	if deps.Store == nil || deps.NewMailbox == nil {
		return errors.New("store and mailbox factory are required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = &instrumentation.Metrics{}
	}

	listSendersTool := mcp.NewTool("list_senders",
		mcp.WithDescription("Aggregate inbox messages by sender. Returns per-sender totals, unread counts, and a suggested cleanup action."),
		mcp.WithString("category",
			mcp.Description("Gmail category to scan (e.g. 'Promotions', 'Social'). Empty or 'Primary' scans promotions and updates."),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of messages to aggregate in one call."),
		),
		mcp.WithString("pageToken",
			mcp.Description("Opaque cursor from a previous call to fetch the next page."),
		),
	)
	s.AddTool(listSendersTool, instrumented("list_senders", deps, handleListSenders(deps)))

	scanSummaryTool := mcp.NewTool("scan_summary",
		mcp.WithDescription("Report coarse mailbox statistics: total messages, unread counts, and unread-by-category breakdown."),
	)
	s.AddTool(scanSummaryTool, instrumented("scan_summary", deps, handleScanSummary(deps)))

	executeActionTool := mcp.NewTool("execute_action",
		mcp.WithDescription("Execute a cleanup action against one sender: 'delete' trashes their messages, 'unsubscribe' fires unsubscribe links and archives, 'keep' is a no-op."),
		mcp.WithString("targetEmail",
			mcp.Required(),
			mcp.Description("The sender address to act on."),
		),
		mcp.WithString("actionType",
			mcp.Required(),
			mcp.Description("One of 'keep', 'delete', 'unsubscribe'."),
		),
		mcp.WithString("listUnsubscribe",
			mcp.Description("Raw List-Unsubscribe header value, used by the 'unsubscribe' action."),
		),
	)
	s.AddTool(executeActionTool, instrumented("execute_action", deps, handleExecuteAction(deps)))

	wipeCategoryTool := mcp.NewTool("wipe_category",
		mcp.WithDescription("Trash every message in a Gmail category (e.g. 'promotions', 'social'). Bounded to a fixed number of pages per call."),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("The category to wipe."),
		),
	)
	s.AddTool(wipeCategoryTool, instrumented("wipe_category", deps, handleWipeCategory(deps)))

	return nil
}

// ownerScanner resolves the owner's stored credential into a ready Scanner.
func ownerScanner(ctx context.Context, deps Deps) (*scanner.Scanner, *store.User, error) {
	user, err := deps.Store.GetUserByEmail(ctx, deps.OwnerEmail)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, ErrNotAuthenticated
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load owner credential: %w", err)
	}
	if user.AccessToken == "" && user.RefreshToken == "" {
		return nil, nil, ErrNotAuthenticated
	}

	mailbox, err := deps.NewMailbox(ctx, google.Credential{
		AccessToken:  user.AccessToken,
		RefreshToken: user.RefreshToken,
		TokenURL:     user.TokenURL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build mailbox client: %w", err)
	}

	sc := scanner.New(mailbox, deps.Logger)
	if deps.Metrics != nil {
		sc = sc.WithMetrics(deps.Metrics)
	}
	return sc, user, nil
}
