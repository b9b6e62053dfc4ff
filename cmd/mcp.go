package cmd

import (
	"context"
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/inboxsift/inboxsift/internal/instrumentation"
	"github.com/inboxsift/inboxsift/internal/mcptools"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server on stdio",
		Long: `Start an MCP (Model Context Protocol) server on stdio, exposing the
inbox assistant's operations as tools for AI assistants: list_senders,
scan_summary, execute_action, and wipe_category.

Tools operate on the stored owner credential; run 'inboxsift serve' and
complete the OAuth flow first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP()
		},
	}
}

func runMCP() error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer func() { _ = application.Close() }()

	instrConfig := instrumentation.DefaultConfig()
	provider, err := instrumentation.NewProvider(context.Background(), instrConfig)
	if err != nil {
		return fmt.Errorf("initialize instrumentation: %w", err)
	}
	defer func() { _ = provider.Shutdown(context.Background()) }()
	application.metrics = provider.Metrics()

	mcpSrv := mcpserver.NewMCPServer("inboxsift", version)

	err = mcptools.Register(mcpSrv, mcptools.Deps{
		OwnerEmail: application.settings.OwnerEmail,
		Store:      application.store,
		NewMailbox: application.newMailbox,
		Logger:     application.logger,
		Metrics:    provider.Metrics(),
		Audit:      instrumentation.NewAuditLogger(application.logger),
	})
	if err != nil {
		return fmt.Errorf("register tools: %w", err)
	}

	return mcpserver.ServeStdio(mcpSrv)
}
