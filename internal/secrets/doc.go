// Package secrets detects and redacts credentials in tool output. Every
// tool result passes through a Scrubber before it is appended to the
// conversation, so a leaked token in git output or a GitHub API payload
// never reaches the LLM provider or the session log.
package secrets
