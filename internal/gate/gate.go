// Package gate implements the confirmation gate that stands between the
// agent loop and every destructive tool call. Nothing that mutates local or
// remote repository state executes without an explicit approval from here.
package gate

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gitbot/internal/tools"
)

// Decision is the transient outcome of one confirmation check. It is never
// persisted or cached across calls.
type Decision string

const (
	// Approved allows the call to reach its backend.
	Approved Decision = "approved"
	// Denied blocks the call; the agent loop synthesizes a failure result.
	Denied Decision = "denied"
)

// Prompter presents a pending destructive action to the user and blocks
// until an explicit answer arrives.
type Prompter interface {
	// Confirm returns true only on an explicit affirmative response.
	Confirm(ctx context.Context, call tools.ToolCall, spec tools.ToolSpec) (bool, error)
}

// Gate consults the Prompter for destructive specs and passes everything
// else through untouched.
type Gate struct {
	prompter Prompter
	timeout  time.Duration
	logger   *zap.Logger
}

// Option configures a Gate.
type Option func(*Gate)

// WithTimeout bounds how long the gate waits for the user. Expiry maps to
// Denied. Zero (the default) means wait indefinitely.
func WithTimeout(d time.Duration) Option {
	return func(g *Gate) {
		g.timeout = d
	}
}

// WithLogger sets the logger. Defaults to zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// New creates a Gate around the given prompter.
func New(prompter Prompter, opts ...Option) *Gate {
	g := &Gate{
		prompter: prompter,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check produces a Decision for one ToolCall. Non-destructive specs are
// approved immediately with no user interaction. Destructive specs block on
// the prompter; any non-affirmative answer, prompter error, timeout, or
// context cancellation yields Denied. The gate is consulted exactly once
// per call — identical arguments approved earlier carry no weight here.
func (g *Gate) Check(ctx context.Context, call tools.ToolCall, spec tools.ToolSpec) Decision {
	if !spec.Destructive {
		return Approved
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	approved, err := g.prompter.Confirm(ctx, call, spec)
	if err != nil {
		g.logger.Warn("confirmation prompt failed, denying",
			zap.String("tool", spec.Name),
			zap.String("call_id", call.ID),
			zap.Error(err))
		return Denied
	}
	if !approved {
		g.logger.Info("user denied destructive call",
			zap.String("tool", spec.Name),
			zap.String("call_id", call.ID))
		return Denied
	}

	g.logger.Info("user approved destructive call",
		zap.String("tool", spec.Name),
		zap.String("call_id", call.ID))
	return Approved
}
