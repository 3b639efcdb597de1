package githubmcp

import (
	"context"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gitbot/internal/tools"
)

// maxResultBytes bounds remote payloads fed back into the conversation.
const maxResultBytes = 4000

// remoteCaller abstracts Session for tests.
type remoteCaller interface {
	Call(ctx context.Context, name string, args map[string]any) (string, bool, error)
}

// Backend executes remote tool calls through the MCP session.
type Backend struct {
	caller remoteCaller
	logger *zap.Logger
}

// NewBackend creates a Backend around an established session.
func NewBackend(session *Session, logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{caller: session, logger: logger}
}

// Execute implements tools.Executor. Argument shape is validated locally
// before anything goes over the wire, so a malformed request fails fast
// without a round-trip.
func (b *Backend) Execute(ctx context.Context, call tools.ToolCall, spec tools.ToolSpec) tools.ToolResult {
	if err := tools.ValidateArgs(spec, call.Arguments); err != nil {
		return tools.Failure(call.ID, tools.KindInvalidArguments, err.Error())
	}

	b.logger.Debug("executing remote GitHub tool",
		zap.String("tool", call.Name),
		zap.String("call_id", call.ID))

	text, isErr, err := b.caller.Call(ctx, call.Name, call.Arguments)
	if err != nil {
		if ctx.Err() != nil {
			return tools.Failure(call.ID, tools.KindCancelled, "operation cancelled by user")
		}
		return tools.Failure(call.ID, classifyError(err), err.Error())
	}
	if isErr {
		return tools.Failure(call.ID, classifyText(text), truncate(text))
	}
	return tools.Success(call.ID, truncate(text))
}

func truncate(s string) string {
	if len(s) <= maxResultBytes {
		return s
	}
	cut := maxResultBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "\n... (truncated)"
}
