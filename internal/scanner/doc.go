// Package scanner implements the inbox assistant core: sampling recent
// messages into per-sender engagement profiles, executing bulk cleanup
// actions (trash, inbox removal, one-click unsubscribe) in bounded batches,
// and computing coarse mailbox statistics.
//
// The scanner talks to the mail service through the narrow Mailbox
// interface so the aggregation and mutation logic can be exercised against
// fakes. Every operation is synchronous and builds its own in-memory state;
// nothing is shared between concurrent invocations.
package scanner
