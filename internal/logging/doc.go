// Package logging provides structured logging utilities for inboxsift.
//
// It centralizes slog attribute construction so log entries use consistent
// key names, and sanitizes PII: sender addresses are hashed before logging
// so entries can be correlated without exposing the address itself.
//
//	logger := logging.WithOperation(slog.Default(), "scanner.list_senders")
//	logger.Info("senders aggregated", logging.Status(logging.StatusSuccess))
package logging
