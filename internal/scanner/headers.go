package scanner

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"
)

var bracketedAddr = regexp.MustCompile(`<([^>]+)>`)

// ExtractSenderEmail extracts a clean address from header values like
// `Company <news@company.com>`. Without brackets the whole string is
// returned lowercased as a best-effort address; no RFC 5322 validation is
// performed, malformed input passes through.
func ExtractSenderEmail(sender string) string {
	if m := bracketedAddr.FindStringSubmatch(sender); m != nil {
		return strings.ToLower(m[1])
	}
	return strings.ToLower(sender)
}

// ParseSenderDisplayName derives a human-readable name from a From header.
// With brackets, the text before the bracket is used with quotes stripped;
// otherwise the local part of the address is title-cased. This is a
// heuristic, not a guarantee.
func ParseSenderDisplayName(sender string) string {
	if idx := strings.Index(sender, "<"); idx >= 0 {
		return strings.TrimSpace(strings.ReplaceAll(sender[:idx], `"`, ""))
	}
	local, _, _ := strings.Cut(sender, "@")
	return titleCase(local)
}

// SenderID returns the short stable identifier for a sender address.
func SenderID(email string) string {
	sum := md5.Sum([]byte(email))
	return hex.EncodeToString(sum[:])[:8]
}

// titleCase uppercases the first letter of every alphabetic run and
// lowercases the rest, so "john.doe" becomes "John.Doe".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	startOfWord := true
	for _, r := range s {
		if !unicode.IsLetter(r) {
			startOfWord = true
			b.WriteRune(r)
			continue
		}
		if startOfWord {
			b.WriteRune(unicode.ToUpper(r))
			startOfWord = false
		} else {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func hasLabel(labels []string, id string) bool {
	for _, l := range labels {
		if l == id {
			return true
		}
	}
	return false
}
