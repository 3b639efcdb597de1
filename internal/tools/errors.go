package tools

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateTool is returned by Register when a tool with the same
	// name already exists.
	ErrDuplicateTool = errors.New("tool already registered")

	// ErrUnknownTool is returned by Resolve when no tool has the given name.
	ErrUnknownTool = errors.New("unknown tool")
)

// Kind classifies a tool-level failure so the agent loop and the LLM can
// distinguish recoverable conditions ("retry with valid arguments") from
// ones that need the user ("re-authenticate").
type Kind string

const (
	// KindUnknownTool means the LLM referenced a tool not in the registry.
	KindUnknownTool Kind = "unknown_tool"

	// KindInvalidArguments means the arguments failed schema validation.
	KindInvalidArguments Kind = "invalid_arguments"

	// KindExecution means the backend ran the call and it failed
	// (non-zero git exit, remote tool error).
	KindExecution Kind = "execution"

	// KindConfirmationDenied means the user declined a destructive call.
	KindConfirmationDenied Kind = "confirmation_denied"

	// KindAuth means the remote rejected the credential; re-authentication
	// is needed before a retry can succeed.
	KindAuth Kind = "auth"

	// KindRateLimited means the remote throttled the call; transient.
	KindRateLimited Kind = "rate_limited"

	// KindNotFound means the remote entity does not exist.
	KindNotFound Kind = "not_found"

	// KindNetwork means the call never reached the remote; transient.
	KindNetwork Kind = "network"

	// KindCancelled means the user cancelled the turn mid-dispatch.
	KindCancelled Kind = "cancelled"
)

// ToolError is the typed failure carried inside a ToolResult.
type ToolError struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Retryable reports whether a retry of the same call could plausibly
// succeed without user intervention.
func (e *ToolError) Retryable() bool {
	switch e.Kind {
	case KindRateLimited, KindNetwork:
		return true
	default:
		return false
	}
}
