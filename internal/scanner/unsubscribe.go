package scanner

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"

	"github.com/inboxsift/inboxsift/internal/instrumentation"
	"github.com/inboxsift/inboxsift/internal/logging"
)

var httpUnsubLink = regexp.MustCompile(`<(https?://[^>]+)>`)

// ExtractHTTPLinks returns every HTTP(S) URL found inside angle brackets
// in a List-Unsubscribe header value, in header order. Mailto entries are
// ignored.
func ExtractHTTPLinks(header string) []string {
	matches := httpUnsubLink.FindAllStringSubmatch(header, -1)
	if len(matches) == 0 {
		return nil
	}
	links := make([]string, 0, len(matches))
	for _, m := range matches {
		links = append(links, m[1])
	}
	return links
}

// fireUnsubscribeLinks attempts the one-click unsubscribe links from a
// List-Unsubscribe header. It stops at the first link that answers at the
// transport level, whatever the status code. Failures are logged at debug
// and never surfaced; this side channel must not block the main flow.
func (s *Scanner) fireUnsubscribeLinks(ctx context.Context, header string) {
	for _, link := range ExtractHTTPLinks(header) {
		if err := s.requestUnsubscribe(ctx, link); err != nil {
			s.logger.Debug("unsubscribe link failed",
				logging.Operation("scanner.unsubscribe_link"),
				"host", hostOf(link),
				logging.Err(err))
			if s.metrics != nil {
				s.metrics.RecordUnsubscribeRequest(ctx, instrumentation.StatusError)
			}
			continue
		}
		if s.metrics != nil {
			s.metrics.RecordUnsubscribeRequest(ctx, instrumentation.StatusSuccess)
		}
		break
	}
}

// requestUnsubscribe fires one unsubscribe link: POST first, falling back
// to GET when the endpoint rejects POST with a client/server error status.
// Only transport-level failures return an error.
func (s *Scanner) requestUnsubscribe(ctx context.Context, link string) error {
	status, err := s.doUnsubscribe(ctx, http.MethodPost, link)
	if err != nil {
		return err
	}
	if status >= http.StatusBadRequest {
		if _, err := s.doUnsubscribe(ctx, http.MethodGet, link); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scanner) doUnsubscribe(ctx context.Context, method, link string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, link, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.unsubHTTP.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return u.Host
}
