package instrumentation

import "strings"

// Metric labels must stay low-cardinality: a label per sender address
// would grow the series count without bound. Identity-bearing values are
// reduced to their domain before they reach a label.

// ExtractUserDomain reduces an email address to its domain for use as a
// metric label. Anything that does not look like an address collapses to
// "unknown".
func ExtractUserDomain(email string) string {
	if strings.Count(email, "@") != 1 {
		return "unknown"
	}
	domain := email[strings.Index(email, "@")+1:]
	if domain == "" {
		return "unknown"
	}
	return domain
}

// Gmail API operation labels. Status values live in config.go.
const (
	OperationList    = "list"
	OperationGet     = "get"
	OperationTrash   = "trash"
	OperationModify  = "modify"
	OperationProfile = "profile"
	OperationLabels  = "labels"
)
