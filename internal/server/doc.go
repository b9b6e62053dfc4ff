// Package server provides the HTTP API for the inbox assistant.
//
// The API is single-user: every data route resolves the configured owner's
// stored Google credential and operates on that mailbox. Routes cover the
// scan summary, sender aggregation, cleanup plan generation and execution,
// category wipes, audit history, and the Google OAuth web flow that seeds
// the credential store.
//
// A separate MetricsServer exposes Prometheus metrics on its own port so
// operational data never shares a listener with the API, and HealthChecker
// serves the liveness and readiness probes.
package server
