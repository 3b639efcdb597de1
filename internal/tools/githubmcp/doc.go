// Package githubmcp implements the remote execution backend. It speaks the
// Model Context Protocol to the GitHub MCP server (spawned over stdio via
// npx), discovers the remote tool catalog at session start, and executes
// remote tool calls through one persistent session.
//
// Remote failures never escape as Go errors for individual calls; they are
// classified into error kinds (auth, rate_limited, not_found, network) and
// folded into ToolResults so the LLM can distinguish "re-authenticate" from
// "retry may help".
package githubmcp
