package mcptools

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inboxsift/inboxsift/internal/batch"
	"github.com/inboxsift/inboxsift/internal/google"
	"github.com/inboxsift/inboxsift/internal/instrumentation"
	"github.com/inboxsift/inboxsift/internal/scanner"
	"github.com/inboxsift/inboxsift/internal/store"
)

type fakeStore struct {
	users  map[string]*store.User
	audits []store.AuditLog
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*store.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) AppendAudit(_ context.Context, entry store.AuditLog) (*store.AuditLog, error) {
	entry.ID = fmt.Sprintf("audit-%d", len(f.audits)+1)
	entry.CreatedAt = time.Now().UTC()
	f.audits = append(f.audits, entry)
	return &entry, nil
}

type stubMailbox struct {
	messages map[string]*scanner.MessageMeta
}

func (m *stubMailbox) ListMessages(_ context.Context, _ string, _ int64, _ string) ([]string, string, error) {
	ids := make([]string, 0, len(m.messages))
	for id := range m.messages {
		ids = append(ids, id)
	}
	return ids, "", nil
}

func (m *stubMailbox) FetchMetadata(_ context.Context, ids []string, _ []string) ([]scanner.MetadataResult, error) {
	results := make([]scanner.MetadataResult, len(ids))
	for i, id := range ids {
		results[i] = scanner.MetadataResult{ID: id, Meta: m.messages[id]}
	}
	return results, nil
}

func (m *stubMailbox) BatchTrash(_ context.Context, ids []string) ([]batch.Outcome, error) {
	outcomes := make([]batch.Outcome, len(ids))
	for i, id := range ids {
		outcomes[i] = batch.Outcome{ID: id}
	}
	return outcomes, nil
}

func (m *stubMailbox) BatchRemoveLabels(_ context.Context, ids []string, _ []string) ([]batch.Outcome, error) {
	outcomes := make([]batch.Outcome, len(ids))
	for i, id := range ids {
		outcomes[i] = batch.Outcome{ID: id}
	}
	return outcomes, nil
}

func (m *stubMailbox) Profile(_ context.Context) (*scanner.MailboxProfile, error) {
	return &scanner.MailboxProfile{EmailAddress: "owner@example.com", MessagesTotal: 100}, nil
}

func (m *stubMailbox) LabelCounts(_ context.Context, _ string) (*scanner.LabelCounts, error) {
	return &scanner.LabelCounts{MessagesTotal: 50, MessagesUnread: 5}, nil
}

func testDeps(mailbox scanner.Mailbox, seeded bool) (Deps, *fakeStore) {
	st := &fakeStore{users: make(map[string]*store.User)}
	if seeded {
		st.users["owner@example.com"] = &store.User{
			ID:           "user-1",
			Email:        "owner@example.com",
			AccessToken:  "access",
			RefreshToken: "refresh",
		}
	}
	deps := Deps{
		OwnerEmail: "owner@example.com",
		Store:      st,
		NewMailbox: func(context.Context, google.Credential) (scanner.Mailbox, error) {
			return mailbox, nil
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return deps, st
}

func request(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: args},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestRegister(t *testing.T) {
	deps, _ := testDeps(&stubMailbox{}, true)
	s := mcpserver.NewMCPServer("test", "0.0.1")

	require.NoError(t, Register(s, deps))

	assert.Error(t, Register(s, Deps{}))
}

func TestListSendersTool(t *testing.T) {
	deps, _ := testDeps(&stubMailbox{messages: map[string]*scanner.MessageMeta{
		"m1": {
			ID:      "m1",
			Headers: map[string]string{"From": "Deals <deals@shop.example>"},
			Labels:  []string{"INBOX", "UNREAD", "CATEGORY_PROMOTIONS"},
		},
	}}, true)

	result, err := handleListSenders(deps)(context.Background(), request(map[string]any{}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "deals@shop.example")
	assert.Contains(t, text, "Suggested action: unsubscribe")
}

func TestListSendersToolRejectsBadMaxResults(t *testing.T) {
	deps, _ := testDeps(&stubMailbox{}, true)

	result, err := handleListSenders(deps)(context.Background(), request(map[string]any{"maxResults": float64(-5)}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestToolsRequireStoredCredential(t *testing.T) {
	deps, _ := testDeps(&stubMailbox{}, false)

	result, err := handleScanSummary(deps)(context.Background(), request(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "OAuth")
}

func TestScanSummaryTool(t *testing.T) {
	deps, _ := testDeps(&stubMailbox{}, true)

	result, err := handleScanSummary(deps)(context.Background(), request(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, "Total emails scanned: 100")
	assert.Contains(t, text, "Total unread:")
}

func TestExecuteActionToolValidation(t *testing.T) {
	deps, st := testDeps(&stubMailbox{}, true)

	cases := []struct {
		name string
		args map[string]any
	}{
		{"missing target", map[string]any{"actionType": "delete"}},
		{"missing action", map[string]any{"targetEmail": "a@b.example"}},
		{"unknown action", map[string]any{"targetEmail": "a@b.example", "actionType": "purge"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := handleExecuteAction(deps)(context.Background(), request(tc.args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
		})
	}
	assert.Empty(t, st.audits)
}

func TestExecuteActionToolDelete(t *testing.T) {
	deps, st := testDeps(&stubMailbox{messages: map[string]*scanner.MessageMeta{
		"m1": {
			ID:      "m1",
			Headers: map[string]string{"From": "deals@shop.example"},
			Labels:  []string{"INBOX", "CATEGORY_PROMOTIONS"},
		},
	}}, true)

	result, err := handleExecuteAction(deps)(context.Background(), request(map[string]any{
		"targetEmail": "deals@shop.example",
		"actionType":  "delete",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "1 message(s) affected")

	require.Len(t, st.audits, 1)
	assert.Equal(t, "user-1", st.audits[0].UserID)
	assert.Equal(t, "delete", st.audits[0].Action)
	assert.Equal(t, 1, st.audits[0].Affected)
}

func TestWipeCategoryTool(t *testing.T) {
	deps, st := testDeps(&stubMailbox{messages: map[string]*scanner.MessageMeta{
		"m1": {ID: "m1", Headers: map[string]string{"From": "a@b.example"}, Labels: []string{"INBOX"}},
		"m2": {ID: "m2", Headers: map[string]string{"From": "c@d.example"}, Labels: []string{"INBOX"}},
	}}, true)

	result, err := handleWipeCategory(deps)(context.Background(), request(map[string]any{"category": "promotions"}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "2 message(s) trashed")

	require.Len(t, st.audits, 1)
	assert.Equal(t, "wipe_category", st.audits[0].Action)
}

func TestWipeCategoryToolRequiresCategory(t *testing.T) {
	deps, _ := testDeps(&stubMailbox{}, true)

	result, err := handleWipeCategory(deps)(context.Background(), request(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestExecuteActionToolAnnotatesInvocation(t *testing.T) {
	deps, _ := testDeps(&stubMailbox{messages: map[string]*scanner.MessageMeta{
		"m1": {ID: "m1", Headers: map[string]string{"From": "deals@shop.example"}, Labels: []string{"INBOX"}},
	}}, true)

	ti := instrumentation.NewToolInvocation("execute_action")
	ctx := instrumentation.ContextWithInvocation(context.Background(), ti)

	result, err := handleExecuteAction(deps)(ctx, request(map[string]any{
		"targetEmail": "deals@shop.example",
		"actionType":  "delete",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Equal(t, "delete", ti.Action)
	assert.Equal(t, "deals@shop.example", ti.Target)
	assert.Equal(t, 1, ti.Affected)
}

func TestWipeCategoryToolAnnotatesInvocation(t *testing.T) {
	deps, _ := testDeps(&stubMailbox{messages: map[string]*scanner.MessageMeta{
		"m1": {ID: "m1", Headers: map[string]string{"From": "a@b.example"}, Labels: []string{"INBOX"}},
	}}, true)

	ti := instrumentation.NewToolInvocation("wipe_category")
	ctx := instrumentation.ContextWithInvocation(context.Background(), ti)

	result, err := handleWipeCategory(deps)(ctx, request(map[string]any{"category": "promotions"}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Equal(t, "wipe_category", ti.Action)
	assert.Equal(t, "promotions", ti.Target)
	assert.Equal(t, 1, ti.Affected)
}

func TestInstrumentedPassesThrough(t *testing.T) {
	deps, _ := testDeps(&stubMailbox{}, true)

	called := false
	handler := instrumented("scan_summary", deps, func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		assert.NotNil(t, instrumentation.InvocationFromContext(ctx))
		return mcp.NewToolResultText("ok"), nil
	})

	result, err := handler(context.Background(), request(nil))
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "ok", resultText(t, result))
}
