package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inboxsift/inboxsift/internal/scanner"
)

func TestGenerate(t *testing.T) {
	senders := []*scanner.SenderProfile{
		{Email: "deals@shop.example", TotalEmails: 40, SuggestedAction: scanner.ActionUnsubscribe},
		{Email: "alice@people.example", TotalEmails: 5, SuggestedAction: scanner.ActionKeep},
		{Email: "news@daily.example", TotalEmails: 12, SuggestedAction: scanner.ActionUnsubscribe},
	}

	p := Generate(senders)

	assert.NotEmpty(t, p.ID)
	assert.WithinDuration(t, time.Now().UTC(), p.CreatedAt, time.Minute)
	require.Len(t, p.Senders, 2)

	assert.Equal(t, "deals@shop.example", p.Senders[0].Sender)
	assert.Equal(t, 40, p.Senders[0].EmailsAffected)
	assert.Equal(t, scanner.ActionUnsubscribe, p.Senders[0].RecommendedAction)
	assert.Equal(t, 0.95, p.Senders[0].Confidence)
	assert.Equal(t, 0.05, p.Senders[0].RiskScore)

	assert.Equal(t, 52, p.Summary.TotalEmails)
	assert.Equal(t, 12, p.Summary.EstimatedCleanupPercent)
}

func TestGenerateEmptyUsesDemoEntry(t *testing.T) {
	p := Generate([]*scanner.SenderProfile{
		{Email: "alice@people.example", TotalEmails: 3, SuggestedAction: scanner.ActionKeep},
	})

	require.Len(t, p.Senders, 1)
	entry := p.Senders[0]
	assert.Equal(t, demoSender, entry.Sender)
	assert.Equal(t, scanner.ActionKeep, entry.RecommendedAction)
	assert.Zero(t, entry.EmailsAffected)
	assert.Equal(t, 1.0, entry.Confidence)
	assert.Equal(t, 0.0, entry.RiskScore)
	assert.Zero(t, p.Summary.TotalEmails)
}

func TestGenerateFreshIDs(t *testing.T) {
	a := Generate(nil)
	b := Generate(nil)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestUnsubscribeCandidates(t *testing.T) {
	senders := []*scanner.SenderProfile{
		{Email: "deals@shop.example", SuggestedAction: scanner.ActionUnsubscribe},
		{Email: "alice@people.example", SuggestedAction: scanner.ActionKeep},
	}

	candidates := UnsubscribeCandidates(senders)
	require.Len(t, candidates, 1)
	assert.Equal(t, "deals@shop.example", candidates[0].Email)

	assert.Empty(t, UnsubscribeCandidates(nil))
}
