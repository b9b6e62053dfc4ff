package gmail

import (
	"context"
	"fmt"
	"net/http"
	"net/textproto"
	"sync"
	"time"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/inboxsift/inboxsift/internal/batch"
	"github.com/inboxsift/inboxsift/internal/instrumentation"
	"github.com/inboxsift/inboxsift/internal/scanner"
)

// user is the Gmail API alias for the authenticated account.
const user = "me"

// defaultConcurrency bounds the worker pool used by the fan-out methods.
// Gmail's per-user rate limit tolerates around this many in-flight calls.
const defaultConcurrency = 10

// Client talks to one user's mailbox through the Gmail API.
type Client struct {
	svc         *gmail.UsersService
	metrics     *instrumentation.Metrics
	concurrency int
}

var _ scanner.Mailbox = (*Client)(nil)

// NewClient builds a Client over an HTTP client that already carries the
// user's OAuth credentials, e.g. from google.Config.HTTPClient.
func NewClient(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return &Client{
		svc:         svc.Users,
		concurrency: defaultConcurrency,
	}, nil
}

// WithMetrics attaches an instrumentation sink for API operation metrics.
func (c *Client) WithMetrics(m *instrumentation.Metrics) *Client {
	c.metrics = m
	return c
}

// observe opens a span for one API operation and returns the completion
// hook. For fan-out methods the span covers the whole wave.
func (c *Client) observe(ctx context.Context, op string) (context.Context, func(err error)) {
	start := time.Now()
	ctx, span := instrumentation.StartGmailSpan(ctx, op)
	return ctx, func(err error) {
		status := instrumentation.StatusSuccess
		if err != nil {
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err)
		} else {
			instrumentation.SetSpanSuccess(span)
		}
		if c.metrics != nil {
			c.metrics.RecordGmailOperation(ctx, op, status, time.Since(start))
		}
		span.End()
	}
}

// ListMessages returns one page of message IDs matching a Gmail search
// query, newest first, plus the token for the next page.
func (c *Client) ListMessages(ctx context.Context, query string, maxResults int64, pageToken string) (_ []string, _ string, err error) {
	ctx, done := c.observe(ctx, instrumentation.OperationList)
	defer func() { done(err) }()

	req := c.svc.Messages.List(user).Q(query).MaxResults(maxResults).Context(ctx)
	if pageToken != "" {
		req = req.PageToken(pageToken)
	}

	res, err := req.Do()
	if err != nil {
		return nil, "", fmt.Errorf("list messages: %w", err)
	}

	ids := make([]string, 0, len(res.Messages))
	for _, m := range res.Messages {
		ids = append(ids, m.Id)
	}
	return ids, res.NextPageToken, nil
}

// FetchMetadata retrieves the requested headers and label IDs for each
// message. Results come back in input order, one per ID, with per-message
// failures recorded in the result rather than aborting the batch.
func (c *Client) FetchMetadata(ctx context.Context, ids []string, headers []string) ([]scanner.MetadataResult, error) {
	ctx, done := c.observe(ctx, instrumentation.OperationGet)
	results := make([]scanner.MetadataResult, len(ids))

	c.forEach(ctx, ids, func(i int, id string) {
		results[i] = scanner.MetadataResult{ID: id}

		req := c.svc.Messages.Get(user, id).Format("metadata").Context(ctx)
		if len(headers) > 0 {
			req = req.MetadataHeaders(headers...)
		}
		msg, err := req.Do()
		if err != nil {
			results[i].Err = err
			return
		}
		results[i].Meta = toMeta(msg)
	})

	done(ctx.Err())
	return results, ctx.Err()
}

// BatchTrash moves each message to trash, reporting a per-message outcome.
func (c *Client) BatchTrash(ctx context.Context, ids []string) ([]batch.Outcome, error) {
	ctx, done := c.observe(ctx, instrumentation.OperationTrash)
	outcomes := make([]batch.Outcome, len(ids))

	c.forEach(ctx, ids, func(i int, id string) {
		_, err := c.svc.Messages.Trash(user, id).Context(ctx).Do()
		outcomes[i] = batch.Outcome{ID: id, Err: err}
	})

	done(ctx.Err())
	return outcomes, ctx.Err()
}

// BatchRemoveLabels strips labelIDs from each message, reporting a
// per-message outcome. Removing INBOX archives the message.
func (c *Client) BatchRemoveLabels(ctx context.Context, ids []string, labelIDs []string) ([]batch.Outcome, error) {
	ctx, done := c.observe(ctx, instrumentation.OperationModify)
	outcomes := make([]batch.Outcome, len(ids))

	c.forEach(ctx, ids, func(i int, id string) {
		_, err := c.svc.Messages.Modify(user, id, &gmail.ModifyMessageRequest{
			RemoveLabelIds: labelIDs,
		}).Context(ctx).Do()
		outcomes[i] = batch.Outcome{ID: id, Err: err}
	})

	done(ctx.Err())
	return outcomes, ctx.Err()
}

// Profile returns the account's address and total message count.
func (c *Client) Profile(ctx context.Context) (_ *scanner.MailboxProfile, err error) {
	ctx, done := c.observe(ctx, instrumentation.OperationProfile)
	defer func() { done(err) }()

	profile, err := c.svc.GetProfile(user).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &scanner.MailboxProfile{
		EmailAddress:  profile.EmailAddress,
		MessagesTotal: profile.MessagesTotal,
	}, nil
}

// LabelCounts returns the total and unread message counts for a label.
func (c *Client) LabelCounts(ctx context.Context, labelID string) (_ *scanner.LabelCounts, err error) {
	ctx, done := c.observe(ctx, instrumentation.OperationLabels)
	defer func() { done(err) }()

	label, err := c.svc.Labels.Get(user, labelID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get label %s: %w", labelID, err)
	}
	return &scanner.LabelCounts{
		MessagesTotal:  label.MessagesTotal,
		MessagesUnread: label.MessagesUnread,
	}, nil
}

// forEach runs fn for every ID over a bounded worker pool and waits for
// completion. fn writes into index i, so callers get stable ordering
// without locking. Once the context is cancelled the remaining IDs are
// skipped; callers surface ctx.Err alongside whatever completed.
func (c *Client) forEach(ctx context.Context, ids []string, fn func(i int, id string)) {
	sem := make(chan struct{}, c.concurrency)
	var wg sync.WaitGroup

	for i, id := range ids {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, id string) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(i, id)
		}(i, id)
	}
	wg.Wait()
}

// toMeta flattens the API message into the scanner's metadata shape.
// Header names are canonicalized so lookups are case-insensitive.
func toMeta(msg *gmail.Message) *scanner.MessageMeta {
	meta := &scanner.MessageMeta{
		ID:      msg.Id,
		Headers: map[string]string{},
		Labels:  msg.LabelIds,
	}
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			meta.Headers[textproto.CanonicalMIMEHeaderKey(h.Name)] = h.Value
		}
	}
	return meta
}
