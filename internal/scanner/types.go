package scanner

import "time"

// Action is a cleanup action applied to (or suggested for) a sender.
type Action string

const (
	ActionUnsubscribe Action = "unsubscribe"
	ActionKeep        Action = "keep"
	ActionDelete      Action = "delete"
)

// StatusSuccess is the status reported by completed action executions.
const StatusSuccess = "success"

// Gmail system label IDs the scanner interprets.
const (
	labelInbox              = "INBOX"
	labelUnread             = "UNREAD"
	labelCategoryPromotions = "CATEGORY_PROMOTIONS"
	labelCategoryUpdates    = "CATEGORY_UPDATES"
)

// Headers requested from the metadata fetch.
const (
	headerFrom            = "From"
	headerListUnsubscribe = "List-Unsubscribe"
)

// SenderProfile is the aggregated engagement record for one mailbox
// address. Profiles are built fresh on every aggregation call and are
// never persisted.
type SenderProfile struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	TotalEmails     int        `json:"total_emails"`
	UnreadCount     int        `json:"unread_count"`
	FirstSeenDate   time.Time  `json:"first_seen_date"`
	LastOpenedDate  *time.Time `json:"last_opened_date"`
	Labels          []string   `json:"labels"`
	SuggestedAction Action     `json:"suggested_action"`
	ListUnsubscribe string     `json:"list_unsubscribe,omitempty"`
}

// SenderPage is one page of aggregated sender profiles. NextPageToken is
// the remote cursor, passed through opaque; empty means no more pages.
type SenderPage struct {
	Senders       []*SenderProfile `json:"senders"`
	NextPageToken string           `json:"next_page_token,omitempty"`
}

// ActionResult reports the outcome of one bulk action execution.
// MessagesAffected counts only mutations that completed without error.
type ActionResult struct {
	Status           string `json:"status"`
	Action           Action `json:"action"`
	Target           string `json:"target"`
	MessagesAffected int    `json:"messages_affected"`
}

// ScanSummary holds coarse account-level mailbox statistics.
//
// NeverReadSendersCount and EstimatedCleanupPercent are static placeholders
// pending real engagement analysis; they are not computed from mailbox data.
type ScanSummary struct {
	TotalEmailsScanned      int64            `json:"total_emails_scanned"`
	TotalUnread             int64            `json:"total_unread"`
	UnreadByCategory        map[string]int64 `json:"unread_by_category,omitempty"`
	NeverReadSendersCount   int              `json:"never_read_senders_count"`
	EstimatedCleanupPercent int              `json:"estimated_cleanup_potential_percent"`
	LastScanAt              time.Time        `json:"last_scan_at"`
}

// RemoteErrorPolicy selects how a read-only operation reacts to a remote
// service failure.
type RemoteErrorPolicy int

const (
	// Propagate surfaces the remote error to the caller.
	Propagate RemoteErrorPolicy = iota
	// UseFallback masks the error behind a fixed demo payload. Only the
	// summary path may use this; mutation outcomes are never faked.
	UseFallback
)
