package githubmcp

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/fyrsmithlabs/gitbot/internal/tools"
)

// classifyError maps a transport-level failure to an error kind the LLM can
// reason about. The GitHub MCP server reports HTTP-level failures as text,
// so classification is substring-based by necessity.
func classifyError(err error) tools.Kind {
	if errors.Is(err, context.Canceled) {
		return tools.KindCancelled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return tools.KindNetwork
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return tools.KindNetwork
	}
	return classifyText(err.Error())
}

// classifyText classifies a failure reported inside a tool result payload.
func classifyText(message string) tools.Kind {
	lowered := strings.ToLower(message)

	switch {
	case strings.Contains(lowered, "bad credentials"),
		strings.Contains(lowered, "401"),
		strings.Contains(lowered, "unauthorized"),
		strings.Contains(lowered, "requires authentication"),
		// Full phrases only: a bare "token" match would misfile model-side
		// messages like "token limit exceeded" as auth failures.
		strings.Contains(lowered, "invalid token"),
		strings.Contains(lowered, "token expired"),
		strings.Contains(lowered, "token revoked"):
		return tools.KindAuth
	case strings.Contains(lowered, "rate limit"),
		strings.Contains(lowered, "429"),
		strings.Contains(lowered, "abuse detection"):
		return tools.KindRateLimited
	case strings.Contains(lowered, "not found"),
		strings.Contains(lowered, "404"):
		return tools.KindNotFound
	case strings.Contains(lowered, "connection refused"),
		strings.Contains(lowered, "no such host"),
		strings.Contains(lowered, "timeout"),
		strings.Contains(lowered, "broken pipe"),
		strings.Contains(lowered, "eof"):
		return tools.KindNetwork
	default:
		return tools.KindExecution
	}
}
