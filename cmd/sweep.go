package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inboxsift/inboxsift/internal/scanner"
	"github.com/inboxsift/inboxsift/internal/store"
)

func newSweepCmd() *cobra.Command {
	var (
		sender          string
		action          string
		listUnsubscribe string
		category        string
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Execute a cleanup action against a sender or category",
		Long: `Execute a bulk cleanup action and record it in the audit log.

Against a sender (--sender with --action):
  delete       trash the sender's messages
  unsubscribe  fire unsubscribe links and archive the messages
  keep         no-op

Against a whole category (--category): trash every message in it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, sender, action, listUnsubscribe, category)
		},
	}

	cmd.Flags().StringVar(&sender, "sender", "", "Sender address to act on")
	cmd.Flags().StringVar(&action, "action", "delete", "Action to execute: keep, delete, or unsubscribe")
	cmd.Flags().StringVar(&listUnsubscribe, "list-unsubscribe", "", "Raw List-Unsubscribe header value for the unsubscribe action")
	cmd.Flags().StringVar(&category, "category", "", "Wipe this Gmail category instead of acting on a sender")

	return cmd
}

func runSweep(cmd *cobra.Command, sender, action, listUnsubscribe, category string) error {
	if (sender == "") == (category == "") {
		return errors.New("exactly one of --sender or --category is required")
	}

	application, err := newApp()
	if err != nil {
		return err
	}
	defer func() { _ = application.Close() }()

	ctx := context.Background()
	sc, user, err := application.ownerScanner(ctx)
	if err != nil {
		return err
	}

	var (
		result     *scanner.ActionResult
		auditEntry store.AuditLog
	)
	if category != "" {
		result, err = sc.ExecuteCategoryWipe(ctx, category)
		if err != nil {
			return fmt.Errorf("wipe category: %w", err)
		}
		auditEntry = store.AuditLog{
			UserID: user.ID,
			Action: "wipe_category",
			Target: category,
		}
	} else {
		switch scanner.Action(action) {
		case scanner.ActionKeep, scanner.ActionDelete, scanner.ActionUnsubscribe:
		default:
			return fmt.Errorf("unsupported action %q; use keep, delete, or unsubscribe", action)
		}

		result, err = sc.ExecuteSenderAction(ctx, sender, scanner.Action(action), listUnsubscribe)
		if err != nil {
			return fmt.Errorf("execute action: %w", err)
		}
		auditEntry = store.AuditLog{
			UserID: user.ID,
			Action: action,
			Target: sender,
		}
	}

	auditEntry.Affected = result.MessagesAffected
	auditEntry.Status = result.Status
	if _, err := application.store.AppendAudit(ctx, auditEntry); err != nil {
		application.logger.Error("audit write failed", "error", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d message(s) affected\n",
		auditEntry.Action, auditEntry.Target, result.MessagesAffected)
	return nil
}
