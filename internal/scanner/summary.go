package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/inboxsift/inboxsift/internal/logging"
)

// summaryCategories are the fixed categories inspected for per-category
// unread counts. Primary maps to the provider's personal category label.
var summaryCategories = []struct {
	Name    string
	LabelID string
}{
	{"Promotions", "CATEGORY_PROMOTIONS"},
	{"Updates", "CATEGORY_UPDATES"},
	{"Social", "CATEGORY_SOCIAL"},
	{"Forums", "CATEGORY_FORUMS"},
	{"Primary", "CATEGORY_PERSONAL"},
}

// Placeholder analytics for the live path, pending real engagement
// tracking. Do not derive these from mailbox data.
const (
	liveNeverReadCount = 0
	liveCleanupPercent = 15
)

// FallbackSummary is the fixed demo payload returned when the remote
// service fails under the UseFallback policy. Only LastScanAt varies.
func FallbackSummary(now time.Time) *ScanSummary {
	return &ScanSummary{
		TotalEmailsScanned:      15420,
		TotalUnread:             2105,
		NeverReadSendersCount:   42,
		EstimatedCleanupPercent: 35,
		LastScanAt:              now,
	}
}

// Summary computes coarse mailbox statistics. Under UseFallback any remote
// failure is masked behind the fixed demo payload so the caller always
// gets some numbers; under Propagate the error surfaces. Partial data is
// never returned: the fallback is all-or-nothing.
func (s *Scanner) Summary(ctx context.Context, policy RemoteErrorPolicy) (*ScanSummary, error) {
	summary, err := s.liveSummary(ctx)
	if err != nil {
		if policy == UseFallback {
			s.logger.Warn("scan summary falling back to static payload",
				logging.Operation("scanner.summary"),
				logging.Err(err))
			return FallbackSummary(time.Now().UTC()), nil
		}
		return nil, err
	}
	return summary, nil
}

func (s *Scanner) liveSummary(ctx context.Context) (*ScanSummary, error) {
	profile, err := s.mailbox.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	unread, err := s.mailbox.LabelCounts(ctx, labelUnread)
	if err != nil {
		return nil, fmt.Errorf("get unread counts: %w", err)
	}

	byCategory := make(map[string]int64)
	for _, c := range summaryCategories {
		counts, err := s.mailbox.LabelCounts(ctx, c.LabelID)
		if err != nil {
			// Not every account exposes every category label.
			continue
		}
		if counts.MessagesUnread > 0 {
			byCategory[c.Name] = counts.MessagesUnread
		}
	}

	return &ScanSummary{
		TotalEmailsScanned:      profile.MessagesTotal,
		TotalUnread:             unread.MessagesUnread,
		UnreadByCategory:        byCategory,
		NeverReadSendersCount:   liveNeverReadCount,
		EstimatedCleanupPercent: liveCleanupPercent,
		LastScanAt:              time.Now().UTC(),
	}, nil
}
