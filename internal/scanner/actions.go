package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/inboxsift/inboxsift/internal/batch"
	"github.com/inboxsift/inboxsift/internal/instrumentation"
	"github.com/inboxsift/inboxsift/internal/logging"
)

// categoryLabels maps friendly category names to the provider's internal
// category label IDs. Unrecognized names fall back to a generic category
// query.
var categoryLabels = map[string]string{
	"promotions": "CATEGORY_PROMOTIONS",
	"updates":    "CATEGORY_UPDATES",
	"social":     "CATEGORY_SOCIAL",
	"forums":     "CATEGORY_FORUMS",
}

// ExecuteSenderAction applies a bulk action to every recent message from
// one sender. Unsubscribe actions first fire any HTTP links found in the
// List-Unsubscribe header as a best-effort side channel, then soft-archive
// the messages (remove INBOX); delete moves them to trash. Mutations are
// applied in chunks of BatchLimit, counting only per-message successes;
// individual failures are excluded from the count without aborting the
// rest. Keep is a no-op that reports zero affected messages.
func (s *Scanner) ExecuteSenderAction(ctx context.Context, senderEmail string, action Action, listUnsubscribe string) (*ActionResult, error) {
	switch action {
	case ActionDelete, ActionUnsubscribe:
	case ActionKeep:
		return &ActionResult{Status: StatusSuccess, Action: action, Target: senderEmail}, nil
	default:
		return nil, fmt.Errorf("unsupported action %q", action)
	}

	ctx, span := instrumentation.StartSpan(ctx, "scanner.execute_action",
		attribute.String(instrumentation.SpanAttrAction, string(action)))
	defer span.End()

	if action == ActionUnsubscribe && listUnsubscribe != "" {
		s.fireUnsubscribeLinks(ctx, listUnsubscribe)
	}

	ids, _, err := s.mailbox.ListMessages(ctx, "from:"+senderEmail, maxActionMessages, "")
	if err != nil {
		err = fmt.Errorf("resolve sender messages: %w", err)
		instrumentation.SetSpanError(span, err)
		return nil, err
	}

	summary, err := s.mutate(ctx, ids, action)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, err
	}
	instrumentation.SetSpanSuccess(span)

	s.logger.Info("sender action executed",
		logging.Action(string(action)),
		logging.Sender(senderEmail),
		logging.Domain(senderEmail),
		logging.Affected(summary.Successful))

	return &ActionResult{
		Status:           StatusSuccess,
		Action:           action,
		Target:           senderEmail,
		MessagesAffected: summary.Successful,
	}, nil
}

// ExecuteCategoryWipe trashes every message in a mailbox category, bounded
// to wipeMaxPages pages of wipePageSize messages. A category with no
// matching messages yields a zero-affected success without issuing any
// mutation call.
func (s *Scanner) ExecuteCategoryWipe(ctx context.Context, category string) (*ActionResult, error) {
	ctx, span := instrumentation.StartSpan(ctx, "scanner.wipe_category",
		attribute.String(instrumentation.SpanAttrCategory, category))
	defer span.End()

	query := wipeQuery(category)

	var ids []string
	pageToken := ""
	for page := 0; page < wipeMaxPages; page++ {
		pageIDs, next, err := s.mailbox.ListMessages(ctx, query, wipePageSize, pageToken)
		if err != nil {
			err = fmt.Errorf("list category messages: %w", err)
			instrumentation.SetSpanError(span, err)
			return nil, err
		}
		ids = append(ids, pageIDs...)
		if next == "" {
			break
		}
		pageToken = next
	}

	result := &ActionResult{Status: StatusSuccess, Action: ActionDelete, Target: category}
	if len(ids) == 0 {
		instrumentation.SetSpanSuccess(span)
		return result, nil
	}

	summary, err := s.mutate(ctx, ids, ActionDelete)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, err
	}
	instrumentation.SetSpanSuccess(span)
	result.MessagesAffected = summary.Successful

	s.logger.Info("category wiped",
		logging.Category(category),
		logging.Affected(result.MessagesAffected))

	return result, nil
}

// mutate applies the mutation for action to ids in chunks of BatchLimit,
// folding per-message outcomes into a summary. A failed round trip aborts;
// failed individual messages do not.
func (s *Scanner) mutate(ctx context.Context, ids []string, action Action) (batch.Summary, error) {
	var summary batch.Summary
	for _, chunk := range batch.Chunk(ids, BatchLimit) {
		var (
			outcomes []batch.Outcome
			err      error
		)
		switch action {
		case ActionDelete:
			outcomes, err = s.mailbox.BatchTrash(ctx, chunk)
		case ActionUnsubscribe:
			outcomes, err = s.mailbox.BatchRemoveLabels(ctx, chunk, []string{labelInbox})
		}
		if err != nil {
			return summary, fmt.Errorf("apply %s batch: %w", action, err)
		}
		if succeeded := batch.Succeeded(outcomes); len(succeeded) < len(chunk) {
			s.logger.Debug("partial batch",
				logging.Action(string(action)),
				slog.Int("requested", len(chunk)),
				slog.Int("succeeded", len(succeeded)))
		}
		summary.Add(outcomes)
	}
	return summary, nil
}

func wipeQuery(category string) string {
	if label, ok := categoryLabels[strings.ToLower(category)]; ok {
		return "label:" + label
	}
	return "category:" + strings.ToLower(category)
}
