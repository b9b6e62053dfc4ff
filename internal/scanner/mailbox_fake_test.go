package scanner

import (
	"context"
	"errors"
	"fmt"

	"github.com/inboxsift/inboxsift/internal/batch"
)

// fakeMailbox is an in-memory Mailbox for exercising the scanner without a
// live service. Messages are served in insertion order.
type fakeMailbox struct {
	messages []*MessageMeta

	listErr    error
	fetchFails map[string]error
	trashFails map[string]error

	profile       *MailboxProfile
	profileErr    error
	labelCounts   map[string]*LabelCounts
	labelErrs     map[string]error

	// call recording
	listQueries    []string
	fetchCalls     [][]string
	trashCalls     [][]string
	modifyCalls    [][]string
	modifiedLabels [][]string
}

func newFakeMailbox(messages ...*MessageMeta) *fakeMailbox {
	return &fakeMailbox{
		messages:    messages,
		fetchFails:  map[string]error{},
		trashFails:  map[string]error{},
		labelCounts: map[string]*LabelCounts{},
		labelErrs:   map[string]error{},
	}
}

func (f *fakeMailbox) ListMessages(_ context.Context, query string, maxResults int64, pageToken string) ([]string, string, error) {
	f.listQueries = append(f.listQueries, query)
	if f.listErr != nil {
		return nil, "", f.listErr
	}

	start := 0
	if pageToken != "" {
		if _, err := fmt.Sscanf(pageToken, "page-%d", &start); err != nil {
			return nil, "", errors.New("bad page token")
		}
	}
	if start >= len(f.messages) {
		return nil, "", nil
	}

	end := start + int(maxResults)
	if end > len(f.messages) {
		end = len(f.messages)
	}
	ids := make([]string, 0, end-start)
	for _, m := range f.messages[start:end] {
		ids = append(ids, m.ID)
	}

	next := ""
	if end < len(f.messages) {
		next = fmt.Sprintf("page-%d", end)
	}
	return ids, next, nil
}

func (f *fakeMailbox) FetchMetadata(_ context.Context, ids []string, _ []string) ([]MetadataResult, error) {
	f.fetchCalls = append(f.fetchCalls, ids)
	results := make([]MetadataResult, 0, len(ids))
	for _, id := range ids {
		if err, ok := f.fetchFails[id]; ok {
			results = append(results, MetadataResult{ID: id, Err: err})
			continue
		}
		results = append(results, MetadataResult{ID: id, Meta: f.find(id)})
	}
	return results, nil
}

func (f *fakeMailbox) BatchTrash(_ context.Context, ids []string) ([]batch.Outcome, error) {
	f.trashCalls = append(f.trashCalls, ids)
	return f.outcomes(ids), nil
}

func (f *fakeMailbox) BatchRemoveLabels(_ context.Context, ids []string, labelIDs []string) ([]batch.Outcome, error) {
	f.modifyCalls = append(f.modifyCalls, ids)
	f.modifiedLabels = append(f.modifiedLabels, labelIDs)
	return f.outcomes(ids), nil
}

func (f *fakeMailbox) Profile(_ context.Context) (*MailboxProfile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if f.profile == nil {
		return &MailboxProfile{}, nil
	}
	return f.profile, nil
}

func (f *fakeMailbox) LabelCounts(_ context.Context, labelID string) (*LabelCounts, error) {
	if err, ok := f.labelErrs[labelID]; ok {
		return nil, err
	}
	if c, ok := f.labelCounts[labelID]; ok {
		return c, nil
	}
	return &LabelCounts{}, nil
}

func (f *fakeMailbox) outcomes(ids []string) []batch.Outcome {
	outcomes := make([]batch.Outcome, 0, len(ids))
	for _, id := range ids {
		outcomes = append(outcomes, batch.Outcome{ID: id, Err: f.trashFails[id]})
	}
	return outcomes
}

func (f *fakeMailbox) find(id string) *MessageMeta {
	for _, m := range f.messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func msg(id, from string, labels ...string) *MessageMeta {
	return &MessageMeta{
		ID:      id,
		Headers: map[string]string{headerFrom: from},
		Labels:  labels,
	}
}
