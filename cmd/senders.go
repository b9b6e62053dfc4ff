package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inboxsift/inboxsift/internal/scanner"
)

func newSendersCmd() *cobra.Command {
	var (
		category   string
		maxResults int
		pageToken  string
	)

	cmd := &cobra.Command{
		Use:   "senders",
		Short: "List inbox senders with suggested cleanup actions",
		Long: `Aggregate inbox messages by sender and print per-sender totals,
unread counts, and the suggested cleanup action.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSenders(cmd, category, maxResults, pageToken)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Gmail category to scan (e.g. 'Promotions', 'Social')")
	cmd.Flags().IntVar(&maxResults, "max-results", 0, "Maximum number of messages to aggregate")
	cmd.Flags().StringVar(&pageToken, "page-token", "", "Cursor from a previous run to fetch the next page")

	return cmd
}

func runSenders(cmd *cobra.Command, category string, maxResults int, pageToken string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer func() { _ = application.Close() }()

	ctx := context.Background()
	sc, _, err := application.ownerScanner(ctx)
	if err != nil {
		return err
	}

	page, err := sc.ListSenders(ctx, scanner.ListOptions{
		Category:   category,
		MaxResults: maxResults,
		PageToken:  pageToken,
	})
	if err != nil {
		return fmt.Errorf("list senders: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(page.Senders) == 0 {
		fmt.Fprintln(out, "No senders found in the scanned range.")
		return nil
	}

	for _, p := range page.Senders {
		fmt.Fprintf(out, "%-40s total=%-4d unread=%-4d suggested=%s\n",
			p.Email, p.TotalEmails, p.UnreadCount, p.SuggestedAction)
	}
	if page.NextPageToken != "" {
		fmt.Fprintf(out, "\nMore senders available; pass --page-token=%s to continue.\n", page.NextPageToken)
	}

	return nil
}
