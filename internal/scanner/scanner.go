package scanner

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/inboxsift/inboxsift/internal/instrumentation"
)

const (
	// BatchLimit is the remote API's batch sub-request ceiling.
	BatchLimit = 100

	// DefaultMaxResults caps a sender aggregation page when the caller
	// does not ask for a specific size.
	DefaultMaxResults = 50

	// maxActionMessages bounds the message set resolved for one sender
	// action.
	maxActionMessages = 500

	// wipePageSize and wipeMaxPages bound a category wipe to ~1000
	// messages per invocation to cap worst-case call volume.
	wipePageSize = 500
	wipeMaxPages = 2

	// unsubscribeTimeout bounds each opportunistic unsubscribe HTTP call.
	unsubscribeTimeout = 5 * time.Second

	userAgent = "inboxsift/1.0"
)

// Scanner runs aggregation, mutation and summary operations against one
// authenticated mailbox. It holds no mutable state; a Scanner is safe for
// concurrent use, though concurrent mutations of the same sender can race
// (accepted for the single-owner usage model).
type Scanner struct {
	mailbox   Mailbox
	logger    *slog.Logger
	metrics   *instrumentation.Metrics
	unsubHTTP *http.Client
}

// New builds a Scanner over the given mailbox. A nil logger falls back to
// slog.Default.
func New(mailbox Mailbox, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		mailbox:   mailbox,
		logger:    logger,
		unsubHTTP: &http.Client{Timeout: unsubscribeTimeout},
	}
}

// WithMetrics attaches an instrumentation sink for unsubscribe outcomes.
func (s *Scanner) WithMetrics(m *instrumentation.Metrics) *Scanner {
	s.metrics = m
	return s
}
