// Package cmd implements the command-line interface for inboxsift.
//
// This package provides the following commands:
//   - serve: Start the HTTP API server with a separate metrics listener
//   - mcp: Start the MCP server on stdio for AI assistants
//   - senders: List inbox senders with suggested cleanup actions
//   - sweep: Execute a cleanup action against a sender or category
//   - version: Display version information
package cmd
