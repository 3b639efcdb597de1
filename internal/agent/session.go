package agent

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/gitbot/internal/conversation"
	"github.com/fyrsmithlabs/gitbot/internal/gate"
	"github.com/fyrsmithlabs/gitbot/internal/llm"
	"github.com/fyrsmithlabs/gitbot/internal/tools"
)

// defaultTurnLimit bounds the reasoning rounds per user turn. Each round is
// one LLM round-trip plus the dispatch of whatever calls it requested.
const defaultTurnLimit = 10

// maxResultBytes caps how much of one tool result reaches the model. Long
// git logs or API payloads past this point add cost without adding signal.
const maxResultBytes = 4000

// ErrTurnLimit means the model kept requesting tools past the per-turn
// round budget without producing a final answer.
var ErrTurnLimit = errors.New("turn limit reached without a final answer")

// State is the session's position in the turn cycle.
type State string

const (
	// StateIdle means no turn is in flight.
	StateIdle State = "idle"
	// StateReasoning means a request is out to the LLM.
	StateReasoning State = "reasoning"
	// StateDispatching means tool calls from the last reply are executing.
	StateDispatching State = "dispatching"
)

// chatClient is the slice of llm.Client the session needs.
type chatClient interface {
	Chat(ctx context.Context, system string, log *conversation.Log, catalog []tools.ToolSpec) (llm.Response, error)
}

// confirmationGate is the slice of gate.Gate the session needs.
type confirmationGate interface {
	Check(ctx context.Context, call tools.ToolCall, spec tools.ToolSpec) gate.Decision
}

// Observer receives session events for display. All methods are called from
// the turn's goroutine, in conversation order.
type Observer interface {
	// OnAssistantText is interleaved commentary emitted alongside tool calls.
	OnAssistantText(text string)
	// OnToolCall fires before a call is gated and dispatched.
	OnToolCall(call tools.ToolCall, spec tools.ToolSpec)
	// OnToolResult fires once per call, success or failure.
	OnToolResult(call tools.ToolCall, result tools.ToolResult)
}

type nopObserver struct{}

func (nopObserver) OnAssistantText(string)                 {}
func (nopObserver) OnToolCall(tools.ToolCall, tools.ToolSpec) {}
func (nopObserver) OnToolResult(tools.ToolCall, tools.ToolResult) {}

// Session owns one conversation: the log, the catalog, and the loop that
// advances them. Not safe for concurrent use; one turn runs at a time.
type Session struct {
	client    chatClient
	registry  *tools.Registry
	gate      confirmationGate
	executors map[tools.Backend]tools.Executor
	system    string

	log      *conversation.Log
	state    State
	observer Observer
	scrub    func(string) string
	logger   *zap.Logger

	turnLimit int
}

// Option configures a Session.
type Option func(*Session)

// WithTurnLimit overrides the per-turn reasoning round budget.
func WithTurnLimit(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.turnLimit = n
		}
	}
}

// WithObserver attaches a display observer.
func WithObserver(obs Observer) Option {
	return func(s *Session) {
		if obs != nil {
			s.observer = obs
		}
	}
}

// WithScrubber sets a redaction pass applied to every tool result before it
// enters the conversation.
func WithScrubber(scrub func(string) string) Option {
	return func(s *Session) {
		if scrub != nil {
			s.scrub = scrub
		}
	}
}

// WithLogger sets the logger. Defaults to zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New assembles a session. The executors map binds each backend named by a
// registered spec to its implementation.
func New(client chatClient, registry *tools.Registry, g confirmationGate, executors map[tools.Backend]tools.Executor, system string, opts ...Option) *Session {
	s := &Session{
		client:    client,
		registry:  registry,
		gate:      g,
		executors: executors,
		system:    system,
		log:       conversation.NewLog(),
		state:     StateIdle,
		observer:  nopObserver{},
		scrub:     func(text string) string { return text },
		logger:    zap.NewNop(),
		turnLimit: defaultTurnLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the session's current state.
func (s *Session) State() State {
	return s.state
}

// Log exposes the conversation for inspection.
func (s *Session) Log() *conversation.Log {
	return s.log
}

// Turn processes one user message and returns the final answer. Tool-level
// failures never surface here; they are fed back to the model as results.
// The error return is reserved for session-level conditions: an unreachable
// or misbehaving LLM, the turn budget, or cancellation.
func (s *Session) Turn(ctx context.Context, userText string) (string, error) {
	if s.state != StateIdle {
		return "", fmt.Errorf("turn already in progress (state %s)", s.state)
	}

	s.log.AppendUser(userText)
	catalog := s.registry.List()

	defer func() { s.state = StateIdle }()

	for round := 1; round <= s.turnLimit; round++ {
		s.state = StateReasoning
		s.logger.Debug("reasoning round", zap.Int("round", round))

		resp, err := s.client.Chat(ctx, s.system, s.log, catalog)
		if err != nil {
			return "", fmt.Errorf("llm request failed: %w", err)
		}

		if resp.Final() {
			s.log.AppendAssistant(resp.Text)
			return resp.Text, nil
		}

		s.log.AppendToolCalls(resp.Text, resp.ToolCalls)
		if resp.Text != "" {
			s.observer.OnAssistantText(resp.Text)
		}

		s.state = StateDispatching
		if err := s.dispatchBatch(ctx, resp.ToolCalls); err != nil {
			return "", err
		}
	}

	s.logger.Warn("turn budget exhausted", zap.Int("limit", s.turnLimit))
	return "", fmt.Errorf("%w (limit %d)", ErrTurnLimit, s.turnLimit)
}

// dispatchBatch executes calls strictly in emission order. Every call gets
// exactly one result appended to the log, including after cancellation: the
// remaining calls are settled with cancelled failures so no call dangles.
func (s *Session) dispatchBatch(ctx context.Context, calls []tools.ToolCall) error {
	cancelled := false
	for _, call := range calls {
		var result tools.ToolResult
		if cancelled || ctx.Err() != nil {
			cancelled = true
			result = tools.Failure(call.ID, tools.KindCancelled, "turn cancelled before this call ran")
		} else {
			result = s.dispatch(ctx, call)
			if result.Err != nil && result.Err.Kind == tools.KindCancelled {
				cancelled = true
			}
		}
		s.appendResult(call, result)
	}

	if cancelled || ctx.Err() != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		return context.Canceled
	}
	return nil
}

// dispatch runs one call through resolution, gating, and its backend.
func (s *Session) dispatch(ctx context.Context, call tools.ToolCall) tools.ToolResult {
	spec, err := s.registry.Resolve(call.Name)
	if err != nil {
		s.logger.Warn("model requested unknown tool", zap.String("tool", call.Name))
		s.observer.OnToolCall(call, tools.ToolSpec{Name: call.Name})
		return tools.Failure(call.ID, tools.KindUnknownTool,
			fmt.Sprintf("no tool named %q is available", call.Name))
	}

	s.observer.OnToolCall(call, spec)

	if s.gate.Check(ctx, call, spec) == gate.Denied {
		return tools.Failure(call.ID, tools.KindConfirmationDenied,
			fmt.Sprintf("the user declined to run %s", spec.Name))
	}

	exec, ok := s.executors[spec.Backend]
	if !ok {
		return tools.Failure(call.ID, tools.KindExecution,
			fmt.Sprintf("backend %q is not available in this session", spec.Backend))
	}

	return exec.Execute(ctx, call, spec)
}

// appendResult scrubs, truncates, records, and announces one result.
func (s *Session) appendResult(call tools.ToolCall, result tools.ToolResult) {
	if result.Err != nil {
		result.Err.Message = truncateResult(s.scrub(result.Err.Message))
	} else {
		result.Content = truncateResult(s.scrub(result.Content))
	}

	s.log.AppendToolResult(result)
	s.observer.OnToolResult(call, result)

	s.logger.Debug("tool call settled",
		zap.String("tool", call.Name),
		zap.String("call_id", call.ID),
		zap.Bool("ok", result.OK()))
}

func truncateResult(text string) string {
	if len(text) <= maxResultBytes {
		return text
	}
	// Back off to a rune boundary so the cut never emits invalid UTF-8.
	cut := maxResultBytes
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "\n… (truncated)"
}
