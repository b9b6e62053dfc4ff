package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/inboxsift/inboxsift/internal/batch"
	"github.com/inboxsift/inboxsift/internal/logging"
)

// ListOptions controls one sender aggregation call.
type ListOptions struct {
	// MaxResults caps the number of sampled messages; defaults to
	// DefaultMaxResults.
	MaxResults int
	// Category restricts sampling to one mailbox category. Empty or
	// "primary" falls back to the default noisy-mail filter
	// (inbox promotions/updates).
	Category string
	// PageToken is the opaque cursor from a previous page.
	PageToken string
}

// ListSenders samples recent messages matching the category filter and
// folds them into deduplicated sender profiles, keyed by lowercased
// address. Result order is first-seen order. Messages whose metadata fetch
// fails are silently skipped; they count toward neither totals nor errors.
func (s *Scanner) ListSenders(ctx context.Context, opts ListOptions) (*SenderPage, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultMaxResults
	}

	query := senderQuery(opts.Category)
	ids, next, err := s.mailbox.ListMessages(ctx, query, int64(opts.MaxResults), opts.PageToken)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if len(ids) == 0 {
		return &SenderPage{Senders: []*SenderProfile{}}, nil
	}

	profiles := make(map[string]*SenderProfile)
	var order []string
	now := time.Now().UTC()

	for _, chunk := range batch.Chunk(ids, BatchLimit) {
		results, err := s.mailbox.FetchMetadata(ctx, chunk, []string{headerFrom, headerListUnsubscribe})
		if err != nil {
			return nil, fmt.Errorf("fetch metadata: %w", err)
		}
		for _, r := range results {
			if r.Err != nil || r.Meta == nil {
				continue
			}
			foldMessage(profiles, &order, r.Meta, now)
		}
	}

	s.logger.Debug("senders aggregated",
		logging.Operation("scanner.list_senders"),
		slog.Int("messages", len(ids)),
		slog.Int("senders", len(order)))

	page := &SenderPage{
		Senders:       make([]*SenderProfile, 0, len(order)),
		NextPageToken: next,
	}
	for _, email := range order {
		page.Senders = append(page.Senders, profiles[email])
	}
	return page, nil
}

// foldMessage merges one message into the running profile map. The
// suggested action is decided when a sender is first seen and is not
// re-evaluated as later messages arrive; an initially non-promotional
// sender keeps its "keep" suggestion even if promotional mail follows.
func foldMessage(profiles map[string]*SenderProfile, order *[]string, meta *MessageMeta, now time.Time) {
	raw := meta.Headers[headerFrom]
	if raw == "" {
		return
	}

	email := ExtractSenderEmail(raw)
	unread := hasLabel(meta.Labels, labelUnread)

	if p, ok := profiles[email]; ok {
		p.TotalEmails++
		if unread {
			p.UnreadCount++
		}
		return
	}

	promotional := hasLabel(meta.Labels, labelCategoryPromotions) ||
		hasLabel(meta.Labels, labelCategoryUpdates)

	p := &SenderProfile{
		ID:              SenderID(email),
		Email:           email,
		Name:            ParseSenderDisplayName(raw),
		TotalEmails:     1,
		FirstSeenDate:   now,
		Labels:          []string{},
		SuggestedAction: ActionKeep,
		ListUnsubscribe: meta.Headers[headerListUnsubscribe],
	}
	if unread {
		p.UnreadCount = 1
	} else {
		opened := now
		p.LastOpenedDate = &opened
	}
	if promotional {
		p.Labels = []string{"Newsletter"}
		p.SuggestedAction = ActionUnsubscribe
	}

	profiles[email] = p
	*order = append(*order, email)
}

// senderQuery builds the mailbox search query for an aggregation call.
func senderQuery(category string) string {
	if category != "" && !strings.EqualFold(category, "primary") {
		return "category:" + strings.ToLower(category)
	}
	return "{in:inbox category:promotions category:updates}"
}
