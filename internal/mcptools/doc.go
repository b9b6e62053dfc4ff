// Package mcptools exposes the inbox assistant's core operations as MCP
// tools: sender aggregation, the scan summary, bulk action execution, and
// category wipes. All tools operate on the configured owner's stored
// credential; mutating tools append audit entries to the store.
package mcptools
