package gmail

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/inboxsift/inboxsift/internal/batch"
)

// newTestClient points a Client at a local fake of the Gmail REST surface.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := gmail.NewService(context.Background(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL))
	require.NoError(t, err)

	return &Client{svc: svc.Users, concurrency: 4}
}

func TestListMessages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /gmail/v1/users/me/messages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "category:promotions", r.URL.Query().Get("q"))
		assert.Equal(t, "25", r.URL.Query().Get("maxResults"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"m1"},{"id":"m2"}],"nextPageToken":"tok-2"}`))
	})

	c := newTestClient(t, mux)

	ids, next, err := c.ListMessages(context.Background(), "category:promotions", 25, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, ids)
	assert.Equal(t, "tok-2", next)
}

func TestFetchMetadataPreservesOrderAndRecordsFailures(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /gmail/v1/users/me/messages/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "m2" {
			http.Error(w, `{"error":{"code":404}}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"` + id + `","labelIds":["INBOX","UNREAD"],` +
			`"payload":{"headers":[{"name":"from","value":"Shop <deals@shop.example>"}]}}`))
	})

	c := newTestClient(t, mux)

	results, err := c.FetchMetadata(context.Background(), []string{"m1", "m2", "m3"}, []string{"From"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "m1", results[0].ID)
	require.NotNil(t, results[0].Meta)
	// Header names are canonicalized regardless of the API's casing.
	assert.Equal(t, "Shop <deals@shop.example>", results[0].Meta.Headers["From"])
	assert.Equal(t, []string{"INBOX", "UNREAD"}, results[0].Meta.Labels)

	assert.Equal(t, "m2", results[1].ID)
	assert.Error(t, results[1].Err)
	assert.Nil(t, results[1].Meta)

	assert.Equal(t, "m3", results[2].ID)
	assert.NoError(t, results[2].Err)
}

func TestBatchTrashOutcomes(t *testing.T) {
	var mu sync.Mutex
	trashed := map[string]bool{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /gmail/v1/users/me/messages/{id}/trash", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "gone" {
			http.Error(w, `{"error":{"code":404}}`, http.StatusNotFound)
			return
		}
		mu.Lock()
		trashed[id] = true
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"` + id + `"}`))
	})

	c := newTestClient(t, mux)

	outcomes, err := c.BatchTrash(context.Background(), []string{"m1", "gone", "m3"})
	require.NoError(t, err)
	require.Len(t, outcomes, 3)

	var summary batch.Summary
	summary.Add(outcomes)
	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	assert.True(t, trashed["m1"])
	assert.True(t, trashed["m3"])
}

func TestBatchRemoveLabels(t *testing.T) {
	var mu sync.Mutex
	var bodies []string

	mux := http.NewServeMux()
	mux.HandleFunc("POST /gmail/v1/users/me/messages/{id}/modify", func(w http.ResponseWriter, r *http.Request) {
		body := make([]byte, r.ContentLength)
		_, _ = io.ReadFull(r.Body, body)
		mu.Lock()
		bodies = append(bodies, string(body))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"` + r.PathValue("id") + `"}`))
	})

	c := newTestClient(t, mux)

	outcomes, err := c.BatchRemoveLabels(context.Background(), []string{"m1", "m2"}, []string{"INBOX"})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	for _, o := range outcomes {
		assert.True(t, o.Succeeded())
	}
	require.Len(t, bodies, 2)
	for _, body := range bodies {
		assert.Contains(t, body, `"removeLabelIds":["INBOX"]`)
	}
}

func TestProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /gmail/v1/users/me/profile", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"emailAddress":"me@example.com","messagesTotal":4321}`))
	})

	c := newTestClient(t, mux)

	profile, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", profile.EmailAddress)
	assert.Equal(t, int64(4321), profile.MessagesTotal)
}

func TestLabelCounts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /gmail/v1/users/me/labels/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "UNREAD", r.PathValue("id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"UNREAD","messagesTotal":900,"messagesUnread":45}`))
	})

	c := newTestClient(t, mux)

	counts, err := c.LabelCounts(context.Background(), "UNREAD")
	require.NoError(t, err)
	assert.Equal(t, int64(900), counts.MessagesTotal)
	assert.Equal(t, int64(45), counts.MessagesUnread)
}

func TestToMetaNilPayload(t *testing.T) {
	meta := toMeta(&gmail.Message{Id: "m1", LabelIds: []string{"INBOX"}})
	assert.Equal(t, "m1", meta.ID)
	assert.Empty(t, meta.Headers)
	assert.Equal(t, []string{"INBOX"}, meta.Labels)
}
