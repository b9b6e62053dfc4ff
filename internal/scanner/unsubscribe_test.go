package scanner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHTTPLinks(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected []string
	}{
		{
			name:     "single http link",
			header:   "<https://example.com/unsub?id=1>",
			expected: []string{"https://example.com/unsub?id=1"},
		},
		{
			name:     "mailto ignored",
			header:   "<mailto:unsub@example.com>, <https://example.com/unsub>",
			expected: []string{"https://example.com/unsub"},
		},
		{
			name:     "multiple links in header order",
			header:   "<https://a.example/u>, <http://b.example/u>",
			expected: []string{"https://a.example/u", "http://b.example/u"},
		},
		{
			name:   "mailto only",
			header: "<mailto:unsub@example.com>",
		},
		{
			name: "empty header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractHTTPLinks(tt.header))
		})
	}
}

func TestRequestUnsubscribePost(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := New(newFakeMailbox(), nil)

	err := s.requestUnsubscribe(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{http.MethodPost}, methods)
}

func TestRequestUnsubscribeFallsBackToGet(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := New(newFakeMailbox(), nil)

	err := s.requestUnsubscribe(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{http.MethodPost, http.MethodGet}, methods)
}

func TestRequestUnsubscribeIgnoresStatusErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer srv.Close()

	s := New(newFakeMailbox(), nil)

	// Both POST and the GET fallback answer with an error status, but the
	// endpoint did answer: no transport failure to report.
	assert.NoError(t, s.requestUnsubscribe(context.Background(), srv.URL))
}

func TestRequestUnsubscribeTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	s := New(newFakeMailbox(), nil)

	assert.Error(t, s.requestUnsubscribe(context.Background(), srv.URL))
}

func TestFireUnsubscribeLinksStopsAtFirstReachable(t *testing.T) {
	var hits int
	reachable := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusAccepted)
	}))
	defer reachable.Close()

	dead := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	dead.Close()

	s := New(newFakeMailbox(), nil)

	header := "<" + dead.URL + ">, <" + reachable.URL + ">, <" + reachable.URL + "/second>"
	s.fireUnsubscribeLinks(context.Background(), header)

	// The dead link is skipped, the first reachable one ends the walk.
	assert.Equal(t, 1, hits)
}
