// Package store persists authorized users and the append-only audit trail
// of executed cleanup actions in a local SQLite database.
package store
