package scanner

import (
	"context"

	"github.com/inboxsift/inboxsift/internal/batch"
)

// MessageMeta is the metadata slice of one message: the requested headers
// plus the label IDs the service attached to it.
type MessageMeta struct {
	ID      string
	Headers map[string]string
	Labels  []string
}

// MetadataResult carries the outcome of fetching one message's metadata
// within a batch round trip. A non-nil Err means the individual fetch
// failed; the rest of the batch is unaffected.
type MetadataResult struct {
	ID   string
	Meta *MessageMeta
	Err  error
}

// MailboxProfile is the account-level message count snapshot.
type MailboxProfile struct {
	EmailAddress  string
	MessagesTotal int64
}

// LabelCounts reports per-label message totals.
type LabelCounts struct {
	MessagesTotal  int64
	MessagesUnread int64
}

// Mailbox is the narrow mail-service surface the scanner requires.
//
// Batch methods accept at most BatchLimit IDs and perform one remote round
// trip; the returned slice has one entry per input ID in input order. The
// error return is reserved for failures of the round trip itself,
// individual sub-request failures are reported per entry.
type Mailbox interface {
	ListMessages(ctx context.Context, query string, maxResults int64, pageToken string) (ids []string, nextPageToken string, err error)
	FetchMetadata(ctx context.Context, ids []string, headers []string) ([]MetadataResult, error)
	BatchTrash(ctx context.Context, ids []string) ([]batch.Outcome, error)
	BatchRemoveLabels(ctx context.Context, ids []string, labelIDs []string) ([]batch.Outcome, error)
	Profile(ctx context.Context) (*MailboxProfile, error)
	LabelCounts(ctx context.Context, labelID string) (*LabelCounts, error)
}
