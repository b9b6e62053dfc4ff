// Package batch provides chunking and per-message outcome accounting for
// bulk Gmail mutations. Remote batch calls are bounded to a fixed number of
// sub-requests; callers chunk message IDs, apply each chunk in one round
// trip and fold the resulting outcomes into a Summary.
package batch
