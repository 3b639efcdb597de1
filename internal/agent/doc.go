// Package agent runs the reasoning loop at the heart of a chat session. Each
// user turn cycles the session through reasoning (one LLM round-trip),
// dispatching (sequential tool execution with confirmation gating), and
// responding, with a bounded number of reasoning rounds per turn. Tool
// failures are folded into the conversation as results so the model can
// correct course instead of aborting the turn.
package agent
