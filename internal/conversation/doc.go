// Package conversation holds the append-only message log for one chat
// session. The log is owned by the session that created it: messages are
// only ever appended, never rewritten in place, and the whole log is
// discarded when the session ends. Ordering is the contract the LLM relies
// on — a tool result always appears after the assistant message that
// requested it, correlated by call ID.
package conversation
