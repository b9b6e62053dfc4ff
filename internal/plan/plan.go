// Package plan turns the current sender profiles into a reviewable
// cleanup plan.
package plan

import (
	"time"

	"github.com/google/uuid"

	"github.com/inboxsift/inboxsift/internal/scanner"
)

// Fixed scoring constants. Real confidence and risk models are out of
// scope; these placeholders keep the plan shape stable for clients.
const (
	unsubscribeConfidence = 0.95
	unsubscribeRisk       = 0.05
	demoConfidence        = 1.0
	demoRisk              = 0.0

	estimatedCleanupPercent = 12
)

// demoSender pads an empty plan so clients always have a row to render.
const demoSender = "clean-inbox-demo@example.com"

// Entry is one sender's recommendation within a plan.
type Entry struct {
	Sender            string         `json:"sender"`
	EmailsAffected    int            `json:"emails_affected"`
	RecommendedAction scanner.Action `json:"recommended_action"`
	Confidence        float64        `json:"confidence"`
	RiskScore         float64        `json:"risk_score"`
}

// Summary aggregates a plan's expected impact.
type Summary struct {
	TotalEmails             int `json:"total_emails"`
	EstimatedCleanupPercent int `json:"estimated_cleanup_percent"`
}

// Plan is a point-in-time cleanup recommendation. Plans are not
// persisted; fetching one by ID regenerates it from the live senders.
type Plan struct {
	ID        string    `json:"plan_id"`
	CreatedAt time.Time `json:"created_at"`
	Senders   []Entry   `json:"senders"`
	Summary   Summary   `json:"summary"`
}

// Generate builds a plan from the senders' suggested actions. Only
// unsubscribe suggestions make the plan; when none qualify, a zero-impact
// demo entry stands in.
func Generate(senders []*scanner.SenderProfile) *Plan {
	var entries []Entry
	totalAffected := 0
	for _, s := range senders {
		if s.SuggestedAction != scanner.ActionUnsubscribe {
			continue
		}
		totalAffected += s.TotalEmails
		entries = append(entries, Entry{
			Sender:            s.Email,
			EmailsAffected:    s.TotalEmails,
			RecommendedAction: scanner.ActionUnsubscribe,
			Confidence:        unsubscribeConfidence,
			RiskScore:         unsubscribeRisk,
		})
	}

	if len(entries) == 0 {
		entries = append(entries, Entry{
			Sender:            demoSender,
			RecommendedAction: scanner.ActionKeep,
			Confidence:        demoConfidence,
			RiskScore:         demoRisk,
		})
	}

	return &Plan{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Senders:   entries,
		Summary: Summary{
			TotalEmails:             totalAffected,
			EstimatedCleanupPercent: estimatedCleanupPercent,
		},
	}
}

// UnsubscribeCandidates filters the senders down to those the scan
// suggests unsubscribing from.
func UnsubscribeCandidates(senders []*scanner.SenderProfile) []*scanner.SenderProfile {
	candidates := make([]*scanner.SenderProfile, 0)
	for _, s := range senders {
		if s.SuggestedAction == scanner.ActionUnsubscribe {
			candidates = append(candidates, s)
		}
	}
	return candidates
}
