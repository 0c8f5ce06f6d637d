// Package mcp exposes the game as MCP tools for AI agents.
//
// The client is intentionally thin: every tool call proxies to the
// REST API, so agents see exactly the same behavior as HTTP clients,
// including stage restrictions on the post-victory feedback flow.
package mcp
