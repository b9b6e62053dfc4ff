package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"strings"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation = "operation"
	KeyCategory  = "category"
	KeyAction    = "action"
	KeySender    = "sender_hash"
	KeyStatus    = "status"
	KeyError     = "error"
	KeyAffected  = "messages_affected"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Setup builds the process logger. format is "json" or "text"; level is one
// of debug, info, warn, error (defaults to info). The logger is also
// installed as the slog default.
func Setup(level, format string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if strings.ToLower(format) == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Action returns a slog attribute for an executed action kind.
func Action(kind string) slog.Attr {
	return slog.String(KeyAction, kind)
}

// Category returns a slog attribute for a mailbox category.
func Category(category string) slog.Attr {
	return slog.String(KeyCategory, category)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Affected returns a slog attribute for the number of mutated messages.
func Affected(n int) slog.Attr {
	return slog.Int(KeyAffected, n)
}

// Err returns a slog attribute for an error. A nil err yields an empty
// group that slog omits from output, so Err(maybeNil) is always safe.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeEmail returns a hashed representation of an email for logging.
// This allows correlation of log entries without exposing PII.
func AnonymizeEmail(email string) string {
	if email == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(email))
	return "sender:" + hex.EncodeToString(hash[:8])
}

// Sender returns a slog attribute with the anonymized sender address.
func Sender(email string) slog.Attr {
	return slog.String(KeySender, AnonymizeEmail(email))
}

// ExtractDomain extracts the domain part from an email address. Useful for
// lower-cardinality logging where the full address would create too many
// unique values.
func ExtractDomain(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}

// Domain returns a slog attribute for the email domain.
func Domain(email string) slog.Attr {
	return slog.String("sender_domain", ExtractDomain(email))
}
