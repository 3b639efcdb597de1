package conversation

import (
	"fmt"

	"github.com/fyrsmithlabs/gitbot/internal/tools"
)

// Role identifies the author of a message.
type Role string

const (
	// RoleUser is text typed by the human.
	RoleUser Role = "user"
	// RoleAssistant is LLM output: a final answer or tool-call requests.
	RoleAssistant Role = "assistant"
	// RoleTool is the result of one executed tool call.
	RoleTool Role = "tool"
)

// Message is one entry in the log.
type Message struct {
	Role Role `json:"role"`

	// Content is the text payload. For assistant messages with tool calls
	// it may be empty or carry interleaved commentary.
	Content string `json:"content,omitempty"`

	// ToolCalls is set on assistant messages requesting tool execution.
	ToolCalls []tools.ToolCall `json:"tool_calls,omitempty"`

	// ToolResult is set on tool messages and references its call by ID.
	ToolResult *tools.ToolResult `json:"tool_result,omitempty"`
}

// Log is the append-only conversation. Not safe for concurrent use; one
// session processes one turn at a time by design.
type Log struct {
	messages []Message
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

// AppendUser appends a user message.
func (l *Log) AppendUser(text string) {
	l.messages = append(l.messages, Message{Role: RoleUser, Content: text})
}

// AppendAssistant appends a final-answer assistant message.
func (l *Log) AppendAssistant(text string) {
	l.messages = append(l.messages, Message{Role: RoleAssistant, Content: text})
}

// AppendToolCalls appends an assistant message requesting tool execution.
func (l *Log) AppendToolCalls(text string, calls []tools.ToolCall) {
	l.messages = append(l.messages, Message{Role: RoleAssistant, Content: text, ToolCalls: calls})
}

// AppendToolResult appends the result of one executed call.
func (l *Log) AppendToolResult(result tools.ToolResult) {
	l.messages = append(l.messages, Message{Role: RoleTool, ToolResult: &result})
}

// Messages returns a copy of the log; mutations on the copy cannot corrupt
// session state.
func (l *Log) Messages() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of messages.
func (l *Log) Len() int {
	return len(l.messages)
}

// Last returns the most recent message, or false when the log is empty.
func (l *Log) Last() (Message, bool) {
	if len(l.messages) == 0 {
		return Message{}, false
	}
	return l.messages[len(l.messages)-1], true
}

// Validate checks the causal-ordering invariants: every tool result matches
// exactly one earlier tool call, and no call receives two results.
func (l *Log) Validate() error {
	pending := map[string]bool{}
	answered := map[string]bool{}

	for i, msg := range l.messages {
		switch msg.Role {
		case RoleAssistant:
			for _, call := range msg.ToolCalls {
				if pending[call.ID] || answered[call.ID] {
					return fmt.Errorf("message %d: duplicate tool call id %q", i, call.ID)
				}
				pending[call.ID] = true
			}
		case RoleTool:
			if msg.ToolResult == nil {
				return fmt.Errorf("message %d: tool message without result", i)
			}
			id := msg.ToolResult.CallID
			if !pending[id] {
				return fmt.Errorf("message %d: result for unknown or already answered call %q", i, id)
			}
			delete(pending, id)
			answered[id] = true
		}
	}
	return nil
}

// DanglingCalls returns the IDs of tool calls that have no result yet, in
// emission order. A completed turn must report none.
func (l *Log) DanglingCalls() []string {
	answered := map[string]bool{}
	for _, msg := range l.messages {
		if msg.Role == RoleTool && msg.ToolResult != nil {
			answered[msg.ToolResult.CallID] = true
		}
	}

	var dangling []string
	for _, msg := range l.messages {
		if msg.Role != RoleAssistant {
			continue
		}
		for _, call := range msg.ToolCalls {
			if !answered[call.ID] {
				dangling = append(dangling, call.ID)
			}
		}
	}
	return dangling
}
