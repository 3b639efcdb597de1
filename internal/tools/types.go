package tools

import "context"

// Backend identifies which execution backend serves a tool.
type Backend string

const (
	// BackendLocal executes against the local working tree via the git binary.
	BackendLocal Backend = "local"
	// BackendRemote executes through the GitHub MCP server session.
	BackendRemote Backend = "remote"
)

// Parameter describes a single tool argument.
type Parameter struct {
	// Name is the argument name as presented to the LLM.
	Name string `json:"name"`

	// Type is the JSON schema type ("string", "number", "integer",
	// "boolean", "array", "object").
	Type string `json:"type"`

	// Description is consumed by the LLM when choosing arguments.
	Description string `json:"description,omitempty"`

	// Required marks arguments that must be present.
	Required bool `json:"required"`
}

// ToolSpec declares a callable capability. Immutable once registered.
type ToolSpec struct {
	// Name is unique within the registry.
	Name string `json:"name"`

	// Description is consumed by the LLM for tool selection.
	Description string `json:"description"`

	// Parameters is the declared argument schema, in presentation order.
	Parameters []Parameter `json:"parameters,omitempty"`

	// RawSchema is the full JSON schema for tools discovered remotely.
	// When set it takes precedence over Parameters in Schema().
	RawSchema map[string]any `json:"raw_schema,omitempty"`

	// Destructive flags operations that mutate repository state in a way
	// that is not trivially reversible. Destructive calls must pass the
	// confirmation gate before dispatch.
	Destructive bool `json:"destructive"`

	// Backend selects the execution backend.
	Backend Backend `json:"backend"`
}

// Schema returns the JSON schema object describing the tool's arguments,
// suitable for the LLM tool-calling API.
func (s ToolSpec) Schema() map[string]any {
	if s.RawSchema != nil {
		return s.RawSchema
	}

	properties := make(map[string]any, len(s.Parameters))
	var required []string
	for _, p := range s.Parameters {
		prop := map[string]any{"type": p.Type}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// ToolCall is a single structured request emitted by the LLM.
type ToolCall struct {
	// ID correlates the eventual ToolResult back into the conversation.
	ID string `json:"id"`

	// Name references a ToolSpec by name.
	Name string `json:"name"`

	// Arguments maps argument name to value.
	Arguments map[string]any `json:"arguments"`
}

// ToolResult is the outcome of one ToolCall.
type ToolResult struct {
	// CallID is the originating ToolCall ID.
	CallID string `json:"call_id"`

	// Content is the textual payload on success, empty on failure.
	Content string `json:"content,omitempty"`

	// Err is nil on success.
	Err *ToolError `json:"error,omitempty"`
}

// OK reports whether the call succeeded.
func (r ToolResult) OK() bool {
	return r.Err == nil
}

// Text returns the payload the LLM should see: the content on success, the
// error description on failure.
func (r ToolResult) Text() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return r.Content
}

// Success builds a successful ToolResult.
func Success(callID, content string) ToolResult {
	return ToolResult{CallID: callID, Content: content}
}

// Failure builds a failed ToolResult with the given error kind.
func Failure(callID string, kind Kind, message string) ToolResult {
	return ToolResult{CallID: callID, Err: &ToolError{Kind: kind, Message: message}}
}

// Executor is implemented by the local and remote execution backends.
// Execute never returns a Go error for per-call failures; every failure is
// folded into the ToolResult so the agent loop can feed it back to the LLM.
type Executor interface {
	Execute(ctx context.Context, call ToolCall, spec ToolSpec) ToolResult
}
