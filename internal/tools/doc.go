// Package tools defines the tool catalog shared by the agent loop, the
// confirmation gate, and the execution backends.
//
// A ToolSpec declares a single callable capability: its name, parameter
// schema, whether it mutates repository state (Destructive), and which
// backend executes it. The Registry holds specs in registration order so the
// catalog presented to the LLM is stable across turns. ToolCall and
// ToolResult are the wire-level pair the agent loop correlates by call ID.
//
// All backend failures are expressed as a ToolResult carrying a ToolError
// with a Kind the LLM can reason about (auth, rate_limited, execution, ...);
// backends never return Go errors past their boundary for per-call failures.
package tools
